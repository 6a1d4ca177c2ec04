package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"dsexport/internal/domain"
)

var (
	// ErrSuperseded indicates a newer Load started before this one finished;
	// its result was discarded.
	ErrSuperseded = errors.New("format catalog load superseded")
	// ErrUnknownFormat is returned by Select for a name not in the catalog.
	ErrUnknownFormat = errors.New("unknown export format")
	// ErrFormatDisabled is returned by Select for a disabled format.
	ErrFormatDisabled = errors.New("export format is disabled")
)

// Loader fetches the format catalog from the export service.
//
// Failures are handed to the error reporter and leave the current catalog
// and selection untouched.
type Loader struct {
	service  domain.ExportService
	reporter domain.ErrorReporter
	log      logrus.FieldLogger

	mu       sync.Mutex
	gen      uint64
	dataset  domain.DatasetRef
	formats  []domain.ExportFormat
	selected string
	hasSel   bool
}

// New constructs a catalog Loader.
func New(service domain.ExportService, reporter domain.ErrorReporter, log logrus.FieldLogger) *Loader {
	return &Loader{service: service, reporter: reporter, log: log}
}

// Load fetches the formats for dataset. An empty dataset is rejected without
// contacting the service.
func (l *Loader) Load(ctx context.Context, dataset domain.DatasetRef) error {
	if dataset.IsZero() {
		return domain.ErrNoDataset
	}

	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	formats, err := l.service.ListFormats(ctx, dataset)

	l.mu.Lock()
	current := gen == l.gen
	if current && err == nil {
		l.dataset = dataset
		l.formats = append([]domain.ExportFormat(nil), formats...)
		l.selected, l.hasSel = "", false
		if len(l.formats) > 0 {
			l.selected, l.hasSel = l.formats[0].Name, true
		}
	}
	selected := l.selected
	l.mu.Unlock()

	log := l.log.WithField("dataset", dataset.String())
	if !current {
		log.Debug("discarding stale format catalog")
		return ErrSuperseded
	}
	if err != nil {
		l.reporter.Report(ctx, err)
		return fmt.Errorf("loading export formats: %w", err)
	}
	log.WithFields(logrus.Fields{
		"formats":  len(formats),
		"selected": selected,
	}).Debug("format catalog loaded")
	return nil
}

// Dataset returns the dataset the current catalog belongs to.
func (l *Loader) Dataset() domain.DatasetRef {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.dataset
}

// Formats returns a copy of the catalog in service order.
func (l *Loader) Formats() []domain.ExportFormat {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.ExportFormat(nil), l.formats...)
}

// Selected returns the selected format name; ok is false when nothing is
// selected, e.g. for an empty catalog.
func (l *Loader) Selected() (name string, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.selected, l.hasSel
}

// Select makes name the selected format.
func (l *Loader) Select(name string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	for _, f := range l.formats {
		if f.Name != name {
			continue
		}
		if f.Disabled {
			return fmt.Errorf("%w: %s", ErrFormatDisabled, name)
		}
		l.selected, l.hasSel = name, true
		return nil
	}
	return fmt.Errorf("%w: %s", ErrUnknownFormat, name)
}
