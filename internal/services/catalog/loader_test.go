package catalog_test

import (
	"context"
	"errors"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsexport/internal/domain"
	"dsexport/internal/exporttest"
	"dsexport/internal/services/catalog"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

func formats(names ...string) []domain.ExportFormat {
	out := make([]domain.ExportFormat, 0, len(names))
	for _, n := range names {
		out = append(out, domain.ExportFormat{Name: n, Title: n})
	}
	return out
}

func TestLoad_SelectsFirstFormat(t *testing.T) {
	svc := &exporttest.Service{
		ListFormatsFunc: func(_ context.Context, ref domain.DatasetRef) ([]domain.ExportFormat, error) {
			assert.Equal(t, domain.DatasetRef("42"), ref)
			return formats("JSON", "CSV", "TSV"), nil
		},
	}
	l := catalog.New(svc, &exporttest.Reporter{}, quietLogger())

	require.NoError(t, l.Load(context.Background(), "42"))

	name, ok := l.Selected()
	require.True(t, ok)
	assert.Equal(t, "JSON", name)
	assert.Equal(t, []string{"JSON", "CSV", "TSV"}, names(l.Formats()))
	assert.Equal(t, domain.DatasetRef("42"), l.Dataset())
}

func TestLoad_EmptyCatalogSelectsNothing(t *testing.T) {
	svc := &exporttest.Service{
		ListFormatsFunc: func(context.Context, domain.DatasetRef) ([]domain.ExportFormat, error) {
			return []domain.ExportFormat{}, nil
		},
	}
	l := catalog.New(svc, &exporttest.Reporter{}, quietLogger())

	require.NoError(t, l.Load(context.Background(), "42"))

	_, ok := l.Selected()
	assert.False(t, ok)
	assert.Empty(t, l.Formats())
}

func TestLoad_EmptyDatasetDoesNotCallService(t *testing.T) {
	svc := &exporttest.Service{}
	l := catalog.New(svc, &exporttest.Reporter{}, quietLogger())

	err := l.Load(context.Background(), "")
	assert.ErrorIs(t, err, domain.ErrNoDataset)
	assert.Zero(t, svc.Calls("ListFormats"))
}

func TestLoad_FailureReportsAndKeepsCatalog(t *testing.T) {
	fail := false
	boom := errors.New("boom")
	svc := &exporttest.Service{
		ListFormatsFunc: func(context.Context, domain.DatasetRef) ([]domain.ExportFormat, error) {
			if fail {
				return nil, boom
			}
			return formats("JSON", "CSV"), nil
		},
	}
	rep := &exporttest.Reporter{}
	l := catalog.New(svc, rep, quietLogger())

	require.NoError(t, l.Load(context.Background(), "1"))
	require.NoError(t, l.Select("CSV"))

	fail = true
	err := l.Load(context.Background(), "1")
	assert.ErrorIs(t, err, boom)

	require.Len(t, rep.Errors(), 1)
	assert.ErrorIs(t, rep.Errors()[0], boom)
	assert.Equal(t, []string{"JSON", "CSV"}, names(l.Formats()))
	name, ok := l.Selected()
	assert.True(t, ok)
	assert.Equal(t, "CSV", name)
}

func TestLoad_FailureOnFirstLoadSelectsNothing(t *testing.T) {
	svc := &exporttest.Service{
		ListFormatsFunc: func(context.Context, domain.DatasetRef) ([]domain.ExportFormat, error) {
			return nil, errors.New("unreachable")
		},
	}
	l := catalog.New(svc, &exporttest.Reporter{}, quietLogger())

	require.Error(t, l.Load(context.Background(), "1"))
	_, ok := l.Selected()
	assert.False(t, ok)
	assert.Empty(t, l.Formats())
}

func TestLoad_StaleResponseIsDiscarded(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	svc := &exporttest.Service{
		ListFormatsFunc: func(_ context.Context, ref domain.DatasetRef) ([]domain.ExportFormat, error) {
			if ref == "old" {
				close(started)
				<-release
				return formats("OLD"), nil
			}
			return formats("NEW"), nil
		},
	}
	rep := &exporttest.Reporter{}
	l := catalog.New(svc, rep, quietLogger())

	errc := make(chan error, 1)
	go func() { errc <- l.Load(context.Background(), "old") }()
	<-started

	require.NoError(t, l.Load(context.Background(), "new"))
	close(release)

	assert.ErrorIs(t, <-errc, catalog.ErrSuperseded)
	assert.Equal(t, []string{"NEW"}, names(l.Formats()))
	name, _ := l.Selected()
	assert.Equal(t, "NEW", name)
	assert.Equal(t, domain.DatasetRef("new"), l.Dataset())
	assert.Empty(t, rep.Errors())
}

func TestSelect_RejectsUnknownAndDisabled(t *testing.T) {
	svc := &exporttest.Service{
		ListFormatsFunc: func(context.Context, domain.DatasetRef) ([]domain.ExportFormat, error) {
			return []domain.ExportFormat{
				{Name: "JSON"},
				{Name: "COCO", Disabled: true},
			}, nil
		},
	}
	l := catalog.New(svc, &exporttest.Reporter{}, quietLogger())
	require.NoError(t, l.Load(context.Background(), "1"))

	assert.ErrorIs(t, l.Select("YOLO"), catalog.ErrUnknownFormat)
	assert.ErrorIs(t, l.Select("COCO"), catalog.ErrFormatDisabled)
	name, _ := l.Selected()
	assert.Equal(t, "JSON", name)
}

func names(fs []domain.ExportFormat) []string {
	out := make([]string, 0, len(fs))
	for _, f := range fs {
		out = append(out, f.Name)
	}
	return out
}

func TestLoad_FailureKeepsDatasetWithItsCatalog(t *testing.T) {
	svc := &exporttest.Service{
		ListFormatsFunc: func(_ context.Context, ref domain.DatasetRef) ([]domain.ExportFormat, error) {
			if ref == "2" {
				return nil, errors.New("unavailable")
			}
			return formats("JSON-of-1"), nil
		},
	}
	l := catalog.New(svc, &exporttest.Reporter{}, quietLogger())

	require.NoError(t, l.Load(context.Background(), "1"))
	require.Error(t, l.Load(context.Background(), "2"))

	assert.Equal(t, domain.DatasetRef("1"), l.Dataset())
	assert.Equal(t, []string{"JSON-of-1"}, names(l.Formats()))
	sel, _ := l.Selected()
	assert.Equal(t, "JSON-of-1", sel)
}
