package history

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"dsexport/internal/domain"
)

// DefaultLimit is the number of previous exports kept for preview.
const DefaultLimit = 1

// ErrSuperseded indicates a newer Load started before this one finished.
var ErrSuperseded = errors.New("export history load superseded")

// Loader fetches and truncates export history.
type Loader struct {
	service  domain.ExportService
	reporter domain.ErrorReporter
	log      logrus.FieldLogger
	limit    int

	mu      sync.Mutex
	gen     uint64
	records []domain.PreviousExport
}

// New constructs a history Loader keeping at most limit records. A limit
// below 1 falls back to DefaultLimit.
func New(
	service domain.ExportService,
	reporter domain.ErrorReporter,
	log logrus.FieldLogger,
	limit int,
) *Loader {
	if limit < 1 {
		limit = DefaultLimit
	}
	return &Loader{service: service, reporter: reporter, log: log, limit: limit}
}

// Limit returns the number of records kept.
func (l *Loader) Limit() int { return l.limit }

// Load fetches the previous exports of dataset. Failures are reported and
// leave the current records untouched.
func (l *Loader) Load(ctx context.Context, dataset domain.DatasetRef) error {
	if dataset.IsZero() {
		return domain.ErrNoDataset
	}

	l.mu.Lock()
	l.gen++
	gen := l.gen
	l.mu.Unlock()

	all, err := l.service.ListPreviousExports(ctx, dataset)

	l.mu.Lock()
	current := gen == l.gen
	if current && err == nil {
		l.records = truncate(all, l.limit)
	}
	l.mu.Unlock()

	log := l.log.WithField("dataset", dataset.String())
	if !current {
		log.Debug("discarding stale export history")
		return ErrSuperseded
	}
	if err != nil {
		l.reporter.Report(ctx, err)
		return fmt.Errorf("loading export history: %w", err)
	}
	log.WithFields(logrus.Fields{
		"fetched": len(all),
		"kept":    min(len(all), l.limit),
	}).Debug("export history loaded")
	return nil
}

// Records returns the retained records, newest first.
func (l *Loader) Records() []domain.PreviousExport {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]domain.PreviousExport(nil), l.records...)
}

// Latest returns the most recent previous export, if any.
func (l *Loader) Latest() (domain.PreviousExport, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.records) == 0 {
		return domain.PreviousExport{}, false
	}
	return l.records[0], true
}

func truncate(all []domain.PreviousExport, n int) []domain.PreviousExport {
	if len(all) > n {
		all = all[:n]
	}
	return append([]domain.PreviousExport{}, all...)
}
