package app

import (
	"fmt"
	"net/http"
	"os"

	"github.com/sirupsen/logrus"

	"dsexport/internal/config"
	"dsexport/internal/domain"
	"dsexport/internal/exportapi"
	"dsexport/internal/form"
	"dsexport/internal/reporting"
	"dsexport/internal/services/catalog"
	"dsexport/internal/services/history"
	"dsexport/internal/services/submission"
	"dsexport/internal/services/workflow"
	"dsexport/internal/store"
)

// Wire bundles the stores, client and reporter shared by commands.
type Wire struct {
	Settings  *config.Config
	Client    *exportapi.Client
	Reporter  *reporting.Reporter
	Artifacts *store.ArtifactFileStore
	Downloads *store.DownloadFileStore
	HTTP      *http.Client
	log       logrus.FieldLogger
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, log logrus.FieldLogger) (*Wire, error) {
	if cfg.Settings == nil {
		return nil, fmt.Errorf("app: no settings")
	}
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return nil, fmt.Errorf("creating state directory: %w", err)
	}
	stderr := cfg.Stderr
	if stderr == nil {
		stderr = os.Stderr
	}

	// Ensure an HTTP client is available for outbound calls
	httpClient := cfg.HTTP
	if httpClient == nil {
		httpClient = http.DefaultClient
	}

	s := cfg.Settings
	downloads := store.NewDownloadFileStore(cfg.Home)
	return &Wire{
		Settings:  s,
		Client:    exportapi.New(s.Server.URL, s.Server.Token, httpClient, log),
		Reporter:  reporting.New(stderr, log),
		Artifacts: store.NewArtifactFileStore(s.Export.DownloadDir, downloads),
		Downloads: downloads,
		HTTP:      httpClient,
		log:       log,
	}, nil
}

// AssembleConfig returns the option assembly mode from the settings.
func (w *Wire) AssembleConfig() domain.AssembleConfig {
	return domain.AssembleConfig{
		AsStructured:           w.Settings.Export.Structured,
		Full:                   w.Settings.Export.Full,
		BooleanValuesAsNumbers: w.Settings.Export.BooleansAsNumbers,
	}
}

// NewWorkflow builds the export workflow for dataset. A nil form starts empty.
func (w *Wire) NewWorkflow(dataset domain.DatasetRef, options *form.Form) *workflow.Workflow {
	log := w.log.WithField("dataset", dataset.String())
	return workflow.New(
		dataset,
		catalog.New(w.Client, w.Reporter, log),
		history.New(w.Client, w.Reporter, log, w.Settings.History.Preview),
		submission.New(w.Client, w.Artifacts, w.Reporter, log, w.Settings.Export.NoticeDelay.D()),
		options,
		w.AssembleConfig(),
	)
}
