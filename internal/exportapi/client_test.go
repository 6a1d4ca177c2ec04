package exportapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dsexport/internal/domain"
	"dsexport/internal/exportapi"
)

func newClient(t *testing.T, h http.Handler) *exportapi.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return exportapi.New(srv.URL+"/", "Token abc", srv.Client(), log)
}

func TestListFormats_PreservesOrder(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/42/export/formats", r.URL.Path)
		assert.Equal(t, "Token abc", r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`[
			{"name":"JSON","title":"JSON","tags":["common"]},
			{"name":"CSV","title":"CSV","description":"comma separated","disabled":true}
		]`))
	}))

	got, err := c.ListFormats(context.Background(), "42")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "JSON", got[0].Name)
	assert.Equal(t, []string{"common"}, got[0].Tags)
	assert.Equal(t, "CSV", got[1].Name)
	assert.True(t, got[1].Disabled)
	assert.Equal(t, "comma separated", got[1].Description)
}

func TestListPreviousExports_UnwrapsEnvelope(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/7/export/files", r.URL.Path)
		_, _ = w.Write([]byte(`{"export_files":[
			{"name":"b.json","url":"/downloads/b.json","size":10,"created_at":"2026-10-02T10:00:00Z"},
			{"name":"a.json","url":"/downloads/a.json","size":5,"created_at":"2026-10-01T10:00:00Z"}
		]}`))
	}))

	got, err := c.ListPreviousExports(context.Background(), "7")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "b.json", got[0].Name)
	assert.Equal(t, int64(10), got[0].Size)
	assert.Equal(t, "/downloads/b.json", got[0].DownloadURL)
	assert.Equal(t, 2026, got[0].CreatedAt.Year())
}

func TestExportRaw_ReturnsPayloadAndFilename(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/projects/42/export", r.URL.Path)
		assert.Equal(t, "JSON", r.URL.Query().Get("exportType"))
		assert.Equal(t, "1", r.URL.Query().Get("download_all_tasks"))
		assert.Equal(t, "attempt-1", r.Header.Get(exportapi.RequestIDHeader))
		w.Header().Set("filename", "export_42.json")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1}]`))
	}))

	ctx := domain.WithAttemptID(context.Background(), "attempt-1")
	raw, err := c.ExportRaw(ctx, "42", domain.OptionSet{"exportType": "JSON", "download_all_tasks": 1})
	require.NoError(t, err)
	assert.Equal(t, "export_42.json", raw.Filename)
	assert.Equal(t, "application/json", raw.ContentType)
	assert.Equal(t, `[{"id":1}]`, string(raw.Payload))
}

func TestExportRaw_Non2xxIsStatusError(t *testing.T) {
	c := newClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
	}))

	_, err := c.ExportRaw(context.Background(), "42", nil)
	require.Error(t, err)

	var se *exportapi.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusInternalServerError, se.StatusCode)
	assert.Contains(t, string(se.Body), "boom")
	assert.Contains(t, err.Error(), "/api/projects/42/export")
}

func TestResponseFilename_FallsBackToContentDisposition(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Disposition", `attachment; filename="project-3-at-2026.csv"`)
	assert.Equal(t, "project-3-at-2026.csv", exportapi.ResponseFilename(h))

	h.Set("filename", "direct.csv")
	assert.Equal(t, "direct.csv", exportapi.ResponseFilename(h))

	assert.Empty(t, exportapi.ResponseFilename(http.Header{}))
}

func TestEncodeOptions_SortedAndTyped(t *testing.T) {
	q := exportapi.EncodeOptions(domain.OptionSet{
		"z":          true,
		"exportType": "CSV",
		"n":          0,
		"ids":        []string{"1", "2"},
	})
	assert.Equal(t, "exportType=CSV&ids=1&ids=2&n=0&z=true", q)
	assert.Empty(t, exportapi.EncodeOptions(nil))
}
