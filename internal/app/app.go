package app

import (
	"io"

	"github.com/sirupsen/logrus"

	"dsexport/internal/logging"
)

// App is the CLI's dependency graph plus the resources it must release.
type App struct {
	*Wire
	Log *logrus.Logger

	logCloser io.Closer
}

// New sets up logging and builds the wire.
func New(cfg Config) (*App, error) {
	log, closer, err := logging.New(cfg.Settings.Log, cfg.Stderr)
	if err != nil {
		return nil, err
	}
	w, err := NewWire(cfg, log)
	if err != nil {
		_ = closer.Close()
		return nil, err
	}
	return &App{Wire: w, Log: log, logCloser: closer}, nil
}

// Close releases the log file, if any.
func (a *App) Close() error {
	return a.logCloser.Close()
}
