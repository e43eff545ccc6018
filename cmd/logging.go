package cmd

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/hostsh/hostsh/core/config"
)

// newLogger builds the application logger writing JSON lines to the
// app log in the configuration directory. The returned func flushes and
// closes it.
func newLogger(cfg *config.Config) (*zap.Logger, func(), error) {
	fd, err := cfg.OpenAppLog()
	if err != nil {
		return nil, nil, err
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
		zapcore.AddSync(fd),
		zap.InfoLevel)

	logger := zap.New(core)
	return logger, func() {
		_ = logger.Sync()
		fd.Close()
	}, nil
}
