package workflow_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsexport/internal/domain"
	"dsexport/internal/exportapi"
	"dsexport/internal/exporttest"
	"dsexport/internal/form"
	"dsexport/internal/services/catalog"
	"dsexport/internal/services/history"
	"dsexport/internal/services/submission"
	"dsexport/internal/services/workflow"
	"dsexport/internal/store"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}

var structured = domain.AssembleConfig{AsStructured: true, Full: true, BooleanValuesAsNumbers: true}

type fixture struct {
	wf       *workflow.Workflow
	reporter *exporttest.Reporter
	dir      string
	ledger   *store.DownloadFileStore
}

func newFixture(t *testing.T, svc domain.ExportService, dataset domain.DatasetRef) fixture {
	t.Helper()
	log := quietLogger()
	rep := &exporttest.Reporter{}
	dir := t.TempDir()
	ledger := store.NewDownloadFileStore(t.TempDir())
	saver := store.NewArtifactFileStore(dir, ledger)
	wf := workflow.New(
		dataset,
		catalog.New(svc, rep, log),
		history.New(svc, rep, log, 1),
		submission.New(svc, saver, rep, log, time.Hour),
		form.New(form.Field{Name: "download_all_tasks", Kind: form.Checkbox, Value: "true"}),
		structured,
	)
	return fixture{wf: wf, reporter: rep, dir: dir, ledger: ledger}
}

// exportService serves the formats JSON and CSV for dataset 42 and answers
// exports with exportStatus.
func exportService(t *testing.T, exportStatus int, hits *atomic.Int32) domain.ExportService {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/projects/42/export/formats", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[{"name":"JSON","title":"JSON"},{"name":"CSV","title":"CSV"}]`))
	})
	mux.HandleFunc("/api/projects/42/export/files", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"export_files":[
			{"name":"export_42_b.json","created_at":"2026-10-02T00:00:00Z","size":2},
			{"name":"export_42_a.json","created_at":"2026-10-01T00:00:00Z","size":2}
		]}`))
	})
	mux.HandleFunc("/api/projects/42/export", func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		assert.Equal(t, "JSON", r.URL.Query().Get("exportType"))
		assert.Equal(t, "1", r.URL.Query().Get("download_all_tasks"))
		if exportStatus != http.StatusOK {
			http.Error(w, `{"detail":"export failed"}`, exportStatus)
			return
		}
		w.Header().Set("filename", "export_42.json")
		_, _ = w.Write([]byte(`[{"id":1}]`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return exportapi.New(srv.URL, "", srv.Client(), quietLogger())
}

func TestEndToEnd_Success(t *testing.T) {
	var hits atomic.Int32
	f := newFixture(t, exportService(t, http.StatusOK, &hits), "42")
	ctx := context.Background()

	require.NoError(t, f.wf.Open(ctx))
	sel, ok := f.wf.Selected()
	require.True(t, ok)
	assert.Equal(t, "JSON", sel)
	require.Len(t, f.wf.History(), 1)
	assert.Equal(t, "export_42_b.json", f.wf.History()[0].Name)

	out, err := f.wf.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, "export_42.json", out.Filename)
	assert.True(t, out.Saved())

	data, err := os.ReadFile(filepath.Join(f.dir, "export_42.json"))
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1}]`, string(data))

	downloads, err := f.ledger.ListDownloads()
	require.NoError(t, err)
	assert.Len(t, downloads, 1)

	assert.Empty(t, f.reporter.Errors())
	assert.Equal(t, domain.SubmissionIdle, f.wf.Orchestrator().State())
}

func TestEndToEnd_ServerError(t *testing.T) {
	var hits atomic.Int32
	f := newFixture(t, exportService(t, http.StatusInternalServerError, &hits), "42")
	ctx := context.Background()

	require.NoError(t, f.wf.Open(ctx))
	_, err := f.wf.Export(ctx)
	require.Error(t, err)

	var se *exportapi.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)

	entries, err := os.ReadDir(f.dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "no file is produced")

	require.Len(t, f.reporter.Errors(), 1)
	assert.Equal(t, int32(1), hits.Load())
	assert.Equal(t, domain.SubmissionIdle, f.wf.Orchestrator().State())
}

func TestOpen_LoadersAreIndependent(t *testing.T) {
	formatsErr := errors.New("formats down")
	svc := &exporttest.Service{
		ListFormatsFunc: func(context.Context, domain.DatasetRef) ([]domain.ExportFormat, error) {
			return nil, formatsErr
		},
		ListPreviousExportsFunc: func(context.Context, domain.DatasetRef) ([]domain.PreviousExport, error) {
			return []domain.PreviousExport{{Name: "a.json"}}, nil
		},
	}
	f := newFixture(t, svc, "42")

	err := f.wf.Open(context.Background())
	assert.ErrorIs(t, err, formatsErr)
	assert.Empty(t, f.wf.Formats())
	_, ok := f.wf.Selected()
	assert.False(t, ok)
	require.Len(t, f.wf.History(), 1, "history still loads")
	assert.Len(t, f.reporter.Errors(), 1)
}

func TestOpen_RequiresDataset(t *testing.T) {
	svc := &exporttest.Service{}
	f := newFixture(t, svc, "")

	assert.ErrorIs(t, f.wf.Open(context.Background()), domain.ErrNoDataset)
	assert.Zero(t, svc.Calls("ListFormats"))
	assert.Zero(t, svc.Calls("ListPreviousExports"))
}

func TestOptions_FollowSelection(t *testing.T) {
	svc := &exporttest.Service{
		ListFormatsFunc: func(context.Context, domain.DatasetRef) ([]domain.ExportFormat, error) {
			return []domain.ExportFormat{{Name: "JSON"}, {Name: "CSV"}}, nil
		},
	}
	f := newFixture(t, svc, "42")
	require.NoError(t, f.wf.Open(context.Background()))

	assert.Equal(t, "JSON", f.wf.Options()[form.ExportTypeField])
	require.NoError(t, f.wf.Select("CSV"))
	assert.Equal(t, domain.OptionSet{"exportType": "CSV", "download_all_tasks": 1}, f.wf.Options())
}
