package exportapi

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"dsexport/internal/domain"
)

const (
	// FilenameHeader carries the export's file name on ExportRaw responses.
	FilenameHeader = "filename"
	// RequestIDHeader carries the submission attempt id from the context.
	RequestIDHeader = "X-Request-ID"

	maxErrorBody = 4 << 10
)

// Client talks to the export service over HTTP.
type Client struct {
	Base  string
	Token string
	HTTP  *http.Client
	Log   logrus.FieldLogger
}

// New returns a Client for base. A nil httpClient falls back to
// http.DefaultClient.
func New(base, token string, httpClient *http.Client, log logrus.FieldLogger) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		Base:  strings.TrimRight(base, "/"),
		Token: token,
		HTTP:  httpClient,
		Log:   log,
	}
}

var _ domain.ExportService = (*Client)(nil)

// ListFormats returns the export formats the service offers for dataset, in
// service order.
func (c *Client) ListFormats(ctx context.Context, dataset domain.DatasetRef) ([]domain.ExportFormat, error) {
	var out []domain.ExportFormat
	if err := c.getJSON(ctx, projectPath(dataset, "/export/formats"), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListPreviousExports returns the dataset's completed exports, newest first.
func (c *Client) ListPreviousExports(
	ctx context.Context,
	dataset domain.DatasetRef,
) ([]domain.PreviousExport, error) {
	var out struct {
		ExportFiles []domain.PreviousExport `json:"export_files"`
	}
	if err := c.getJSON(ctx, projectPath(dataset, "/export/files"), &out); err != nil {
		return nil, err
	}
	return out.ExportFiles, nil
}

// ExportRaw requests an export of dataset with options encoded as query
// parameters and returns the response body along with its declared file name.
func (c *Client) ExportRaw(
	ctx context.Context,
	dataset domain.DatasetRef,
	options domain.OptionSet,
) (domain.RawExport, error) {
	path := projectPath(dataset, "/export")
	if q := EncodeOptions(options); q != "" {
		path += "?" + q
	}
	resp, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return domain.RawExport{}, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.RawExport{}, fmt.Errorf("reading export body: %w", err)
	}
	return domain.RawExport{
		Payload:     payload,
		Filename:    ResponseFilename(resp.Header),
		ContentType: resp.Header.Get("Content-Type"),
	}, nil
}

// ResponseFilename extracts the file name of an export response. The
// "filename" header wins; Content-Disposition is the fallback.
func ResponseFilename(h http.Header) string {
	if name := h.Get(FilenameHeader); name != "" {
		return name
	}
	if cd := h.Get("Content-Disposition"); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil {
			return params["filename"]
		}
	}
	return ""
}

// EncodeOptions renders an option set as a query string with sorted keys.
func EncodeOptions(options domain.OptionSet) string {
	if len(options) == 0 {
		return ""
	}
	keys := make([]string, 0, len(options))
	for k := range options {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	q := url.Values{}
	for _, k := range keys {
		switch v := options[k].(type) {
		case nil:
			q.Add(k, "")
		case string:
			q.Add(k, v)
		case bool:
			q.Add(k, strconv.FormatBool(v))
		case []string:
			for _, s := range v {
				q.Add(k, s)
			}
		default:
			q.Add(k, fmt.Sprint(v))
		}
	}
	return q.Encode()
}

func projectPath(dataset domain.DatasetRef, suffix string) string {
	return "/api/projects/" + url.PathEscape(dataset.String()) + suffix
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	resp, err := c.do(ctx, http.MethodGet, path)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", path, err)
	}
	return nil
}

// do sends the request and turns non-2xx responses into *StatusError. On
// success the caller owns resp.Body.
func (c *Client) do(ctx context.Context, method, path string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.Base+path, nil)
	if err != nil {
		return nil, err
	}
	if c.Token != "" {
		req.Header.Set("Authorization", c.Token)
	}
	if id := domain.AttemptID(ctx); id != "" {
		req.Header.Set(RequestIDHeader, id)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("export service %s %s: %w", method, path, err)
	}
	c.Log.WithFields(logrus.Fields{
		"method": method,
		"path":   path,
		"status": resp.StatusCode,
	}).Debug("export service response")

	if resp.StatusCode/100 != 2 {
		defer resp.Body.Close()
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			Method:     method,
			Path:       path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Body:       body,
		}
	}
	return resp, nil
}
