// Package logging builds zap loggers from configuration.
package logging

import (
	"go.uber.org/zap"

	"github.com/robert-malhotra/go-hdfobject/internal/config"
)

// New returns a production (JSON) or development (console) logger at the
// configured level.
func New(conf config.Log) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if conf.Development {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(conf.Level)
	zc.EncoderConfig.CallerKey = ""
	zc.OutputPaths = []string{"stderr"}
	zc.ErrorOutputPaths = []string{"stderr"}
	return zc.Build()
}
