package exporttest

import (
	"context"
	"sync"

	"dsexport/internal/domain"
)

// Service is a domain.ExportService whose operations are supplied as
// functions. Nil functions return zero values.
type Service struct {
	ListFormatsFunc         func(ctx context.Context, dataset domain.DatasetRef) ([]domain.ExportFormat, error)
	ListPreviousExportsFunc func(ctx context.Context, dataset domain.DatasetRef) ([]domain.PreviousExport, error)
	ExportRawFunc           func(ctx context.Context, dataset domain.DatasetRef, opts domain.OptionSet) (domain.RawExport, error)

	mu      sync.Mutex
	calls   map[string]int
	options []domain.OptionSet
}

var _ domain.ExportService = (*Service)(nil)

func (s *Service) record(op string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.calls == nil {
		s.calls = make(map[string]int)
	}
	s.calls[op]++
}

// Calls returns how many times op ("ListFormats", "ListPreviousExports",
// "ExportRaw") was invoked.
func (s *Service) Calls(op string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[op]
}

// ExportOptions returns the option sets passed to ExportRaw, in call order.
func (s *Service) ExportOptions() []domain.OptionSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.OptionSet(nil), s.options...)
}

func (s *Service) ListFormats(ctx context.Context, dataset domain.DatasetRef) ([]domain.ExportFormat, error) {
	s.record("ListFormats")
	if s.ListFormatsFunc == nil {
		return nil, nil
	}
	return s.ListFormatsFunc(ctx, dataset)
}

func (s *Service) ListPreviousExports(ctx context.Context, dataset domain.DatasetRef) ([]domain.PreviousExport, error) {
	s.record("ListPreviousExports")
	if s.ListPreviousExportsFunc == nil {
		return nil, nil
	}
	return s.ListPreviousExportsFunc(ctx, dataset)
}

func (s *Service) ExportRaw(ctx context.Context, dataset domain.DatasetRef, opts domain.OptionSet) (domain.RawExport, error) {
	s.record("ExportRaw")
	s.mu.Lock()
	s.options = append(s.options, opts)
	s.mu.Unlock()
	if s.ExportRawFunc == nil {
		return domain.RawExport{}, nil
	}
	return s.ExportRawFunc(ctx, dataset, opts)
}

// Reporter records every reported error.
type Reporter struct {
	mu   sync.Mutex
	errs []error
}

var _ domain.ErrorReporter = (*Reporter)(nil)

func (r *Reporter) Report(_ context.Context, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

// Errors returns the reported errors in order.
func (r *Reporter) Errors() []error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]error(nil), r.errs...)
}

// Saver records save calls instead of touching the filesystem. Err, when
// set, is returned from every Save.
type Saver struct {
	Err error

	mu    sync.Mutex
	saves []domain.SavedArtifact
	data  [][]byte
}

var _ domain.FileSaver = (*Saver)(nil)

func (s *Saver) Save(payload []byte, filename string) (domain.SavedArtifact, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a := domain.SavedArtifact{Filename: filename, Path: filename, Size: int64(len(payload))}
	s.saves = append(s.saves, a)
	s.data = append(s.data, append([]byte(nil), payload...))
	if s.Err != nil {
		return domain.SavedArtifact{}, s.Err
	}
	return a, nil
}

// Saves returns the recorded save calls.
func (s *Saver) Saves() []domain.SavedArtifact {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.SavedArtifact(nil), s.saves...)
}

// Payload returns the bytes passed to the i-th Save.
func (s *Saver) Payload(i int) []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.data[i]
}
