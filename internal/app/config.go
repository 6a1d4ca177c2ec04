package app

import (
	"io"
	"net/http"

	"dsexport/internal/config"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string         // state directory, e.g. $HOME/.dsexport
	Settings *config.Config // loaded configuration
	HTTP     *http.Client   // optional; defaults to http.DefaultClient
	Stdout   io.Writer      // user-facing output
	Stderr   io.Writer      // error lines and default log output
}
