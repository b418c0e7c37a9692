package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/robert-malhotra/go-hdfobject/datatype"
)

var (
	importType string
	importDims []uint
	importData string
)

func init() {
	cmd := newImportCmd()
	cmd.Flags().StringVarP(&importType, "type", "t", "", "YAML datatype descriptor")
	cmd.Flags().UintSliceVarP(&importDims, "dims", "d", nil, "Dataset extents, slowest first")
	cmd.Flags().StringVar(&importData, "data", "-", "Raw element buffer, or - for stdin")
	_ = cmd.MarkFlagRequired("type")
	rootCmd.AddCommand(cmd)
}

func newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <name>",
		Short: "Store a raw element buffer under a name",
		Long: `The import command stores a packed row-major buffer of elements as a
dataset. The buffer length must equal the element size times the product of
the extents. An empty --dims stores a scalar.

Example:
  hdfobj import grid --type int16le.yaml --dims 4,5 --data grid.bin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.InOrStdin(), cmd.OutOrStdout(), args)
		},
	}
}

func runImport(stdin io.Reader, out io.Writer, args []string) error {
	name := args[0]
	desc, err := os.ReadFile(importType)
	if err != nil {
		return err
	}
	dt, err := datatype.ParseYAML(desc)
	if err != nil {
		return fmt.Errorf("%s: %w", importType, err)
	}
	var data []byte
	if importData == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(importData)
	}
	if err != nil {
		return err
	}

	return withEnv(func(e *env) error {
		dims := toUint64(importDims)
		if err := e.store.Put(name, dt, dims, data); err != nil {
			return err
		}
		e.log.Info("imported dataset",
			zap.String("name", name),
			zap.Stringer("type", dt),
			zap.Uint64s("dims", dims))
		fmt.Fprintf(out, "%s: %s %v\n", name, dt.Description(), dims)
		return nil
	})
}

func toUint64(v []uint) []uint64 {
	out := make([]uint64, len(v))
	for i, x := range v {
		out[i] = uint64(x)
	}
	return out
}
