package reporting

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"dsexport/internal/domain"
	"dsexport/internal/exportapi"
)

// Reporter writes user-facing error messages to Out and logs the details.
type Reporter struct {
	Out io.Writer
	Log logrus.FieldLogger

	mu sync.Mutex
}

// New returns a Reporter writing to out.
func New(out io.Writer, log logrus.FieldLogger) *Reporter {
	return &Reporter{Out: out, Log: log}
}

var _ domain.ErrorReporter = (*Reporter)(nil)

// Report logs err and prints a one-line message for the user.
func (r *Reporter) Report(ctx context.Context, err error) {
	if err == nil {
		return
	}
	fields := logrus.Fields{}
	if id := domain.AttemptID(ctx); id != "" {
		fields["attempt"] = id
	}
	var se *exportapi.StatusError
	if errors.As(err, &se) {
		fields["status"] = se.StatusCode
		fields["path"] = se.Path
	}
	r.Log.WithFields(fields).WithError(err).Error("export service call failed")

	r.mu.Lock()
	defer r.mu.Unlock()
	_, _ = fmt.Fprintf(r.Out, "error: %s\n", Message(err))
}

// Message renders err for display.
func Message(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "request cancelled"
	case errors.Is(err, context.DeadlineExceeded):
		return "request timed out"
	}

	var se *exportapi.StatusError
	if !errors.As(err, &se) {
		return err.Error()
	}
	detail := detailOf(se.Body)
	status := se.Status
	if status == "" {
		status = fmt.Sprintf("%d %s", se.StatusCode, http.StatusText(se.StatusCode))
	}
	if detail == "" {
		return fmt.Sprintf("export service returned %s", status)
	}
	return fmt.Sprintf("export service returned %s: %s", status, detail)
}

// detailOf extracts a human-readable message from a JSON error body.
func detailOf(body []byte) string {
	if len(body) == 0 || !gjson.ValidBytes(body) {
		return ""
	}
	for _, path := range []string{"detail", "message", "error", "validation_errors.non_field_errors.0"} {
		if v := gjson.GetBytes(body, path); v.Exists() && v.Type == gjson.String {
			return strings.TrimSpace(v.String())
		}
	}
	return ""
}
