package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/robert-malhotra/go-hdfobject/backend/boltstore"
	"github.com/robert-malhotra/go-hdfobject/internal/config"
	"github.com/robert-malhotra/go-hdfobject/internal/logging"
)

var (
	// Global flags
	configPath string
	storePath  string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "hdfobj",
	Short: "Store and inspect typed multi-dimensional datasets",
	Long: `hdfobj keeps raw element buffers together with their datatype and
extents in a local blob store, and decodes strided selections of them into
typed values.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVarP(&storePath, "store", "s", "", "Blob store path (overrides the configuration)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every subcommand needs: the loaded configuration, a logger
// and the open store.
type env struct {
	conf  *config.Config
	log   *zap.Logger
	store *boltstore.Store
}

func openEnv() (*env, error) {
	conf, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if storePath != "" {
		conf.Store = storePath
	}
	if verbose {
		conf.Log.Level = zapcore.DebugLevel
	}
	log, err := logging.New(conf.Log)
	if err != nil {
		return nil, err
	}
	store, err := boltstore.Open(conf.Store,
		boltstore.WithLogger(log),
		boltstore.WithFilters(conf.Filters),
		boltstore.WithCacheSize(conf.Cache.Blobs))
	if err != nil {
		return nil, multierr.Append(err, log.Sync())
	}
	log.Debug("opened store", zap.String("path", conf.Store))
	return &env{conf: conf, log: log, store: store}, nil
}

// withEnv runs fn against a freshly opened environment and closes it
// afterwards. A close error is returned alongside any error from fn.
func withEnv(fn func(*env) error) (err error) {
	e, err := openEnv()
	if err != nil {
		return err
	}
	defer multierr.AppendInvoke(&err, multierr.Invoke(e.close))
	return fn(e)
}

func (e *env) close() error {
	// Sync on a terminal stderr returns ENOTTY.
	_ = e.log.Sync()
	return e.store.Close()
}
