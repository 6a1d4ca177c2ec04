package submission

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"dsexport/internal/domain"
)

const (
	// DefaultNoticeDelay is how long a request may be pending before the
	// long-wait notice is shown.
	DefaultNoticeDelay = 5 * time.Second

	// LongWaitNotice is shown while a submission is InFlightLong.
	LongWaitNotice = "Files are being prepared. It might take some time."
)

// ErrSubmissionInFlight is returned by Submit while another submission of
// the same Orchestrator is pending.
var ErrSubmissionInFlight = errors.New("an export is already in progress")

// Listener observes submission state transitions. It is called synchronously
// and in order, and must not call Submit.
type Listener func(state domain.SubmissionState)

// Outcome describes a finished submission.
type Outcome struct {
	AttemptID string
	Filename  string
	Artifact  domain.SavedArtifact
	// SaveErr is set when saving the payload went wrong. The export itself
	// still succeeded, and the file may be on disk anyway (see Saved).
	SaveErr  error
	Duration time.Duration
	// Long reports whether the long-wait notice was shown.
	Long bool
}

// Saved reports whether the payload reached local disk. It can be true
// together with SaveErr when only the bookkeeping after the write failed.
func (o Outcome) Saved() bool { return o.Artifact.Path != "" }

// Orchestrator runs export submissions one at a time.
//
// State machine:
//
//	Idle --Submit--> InFlight --notice delay--> InFlightLong
//	InFlight | InFlightLong --success|failure--> Idle
//
// The notice timer is disarmed before the payload is saved or the failure is
// reported, so the long-wait notice never follows a terminal outcome.
type Orchestrator struct {
	service  domain.ExportService
	saver    domain.FileSaver
	reporter domain.ErrorReporter
	log      logrus.FieldLogger
	delay    time.Duration

	// notifyMu serializes transitions together with their listener calls;
	// mu guards the fields below and is never held while listeners run.
	notifyMu  sync.Mutex
	mu        sync.Mutex
	state     domain.SubmissionState
	attempt   uint64
	armed     bool
	listeners []Listener
}

// New constructs an Orchestrator. A non-positive delay falls back to
// DefaultNoticeDelay.
func New(
	service domain.ExportService,
	saver domain.FileSaver,
	reporter domain.ErrorReporter,
	log logrus.FieldLogger,
	delay time.Duration,
) *Orchestrator {
	if delay <= 0 {
		delay = DefaultNoticeDelay
	}
	return &Orchestrator{
		service:  service,
		saver:    saver,
		reporter: reporter,
		log:      log,
		delay:    delay,
	}
}

// Subscribe registers l for state transitions.
func (o *Orchestrator) Subscribe(l Listener) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.listeners = append(o.listeners, l)
}

// State returns the current submission state.
func (o *Orchestrator) State() domain.SubmissionState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// Dismissable reports whether the surrounding view may be closed.
func (o *Orchestrator) Dismissable() bool { return !o.State().Busy() }

// Notice returns the long-wait notice while one is due, or "".
func (o *Orchestrator) Notice() string {
	if o.State() == domain.SubmissionInFlightLong {
		return LongWaitNotice
	}
	return ""
}

// Submit requests one export of dataset with opts and saves the returned
// payload under the file name the service declared. It blocks until the
// service answers; it never retries or resubmits.
//
// A failed request is handed to the error reporter and returned. While
// another submission is pending, Submit returns ErrSubmissionInFlight without
// contacting the service.
func (o *Orchestrator) Submit(
	ctx context.Context,
	dataset domain.DatasetRef,
	opts domain.OptionSet,
) (out Outcome, err error) {
	if dataset.IsZero() {
		return Outcome{}, domain.ErrNoDataset
	}
	attempt, ok := o.begin()
	if !ok {
		return Outcome{}, ErrSubmissionInFlight
	}

	timer := time.AfterFunc(o.delay, func() { o.markLong(attempt) })
	defer func() { out.Long = o.finish(attempt, timer) }()

	out.AttemptID = uuid.NewString()
	opts = opts.Clone()
	log := o.log.WithFields(logrus.Fields{
		"dataset": dataset.String(),
		"attempt": out.AttemptID,
		"format":  opts["exportType"],
	})
	log.Info("export requested")

	start := time.Now()
	raw, err := o.service.ExportRaw(domain.WithAttemptID(ctx, out.AttemptID), dataset, opts)
	out.Duration = time.Since(start)
	o.disarm(attempt, timer)

	if err != nil {
		log.WithError(err).Warn("export failed")
		o.reporter.Report(ctx, err)
		return out, fmt.Errorf("exporting dataset %s: %w", dataset, err)
	}

	out.Filename = raw.Filename
	out.Artifact, out.SaveErr = o.saver.Save(raw.Payload, raw.Filename)
	log = log.WithFields(logrus.Fields{
		"filename": raw.Filename,
		"bytes":    len(raw.Payload),
		"elapsed":  out.Duration.Round(time.Millisecond),
	})
	if out.SaveErr != nil {
		log.WithError(out.SaveErr).Warn("export received but not saved")
	} else {
		log.Info("export saved")
	}
	return out, nil
}

// begin moves Idle -> InFlight and arms a new attempt.
func (o *Orchestrator) begin() (uint64, bool) {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()

	o.mu.Lock()
	if o.state.Busy() {
		o.mu.Unlock()
		return 0, false
	}
	o.attempt++
	attempt := o.attempt
	o.armed = true
	o.state = domain.SubmissionInFlight
	o.mu.Unlock()

	o.notify(domain.SubmissionInFlight)
	return attempt, true
}

// markLong is the timer callback: InFlight -> InFlightLong, only if the
// attempt is still pending and armed.
func (o *Orchestrator) markLong(attempt uint64) {
	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()

	o.mu.Lock()
	if !o.armed || o.attempt != attempt || o.state != domain.SubmissionInFlight {
		o.mu.Unlock()
		return
	}
	o.state = domain.SubmissionInFlightLong
	o.mu.Unlock()

	o.log.WithField("delay", o.delay).Debug("export still pending")
	o.notify(domain.SubmissionInFlightLong)
}

// disarm stops the notice timer. Once it returns, markLong can no longer
// change state or notify for this attempt.
func (o *Orchestrator) disarm(attempt uint64, timer *time.Timer) {
	timer.Stop()

	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()
	o.mu.Lock()
	if o.attempt == attempt {
		o.armed = false
	}
	o.mu.Unlock()
}

// finish is the terminal transition back to Idle. It runs on every exit
// path of Submit and reports whether the long-wait notice had been shown.
func (o *Orchestrator) finish(attempt uint64, timer *time.Timer) bool {
	o.disarm(attempt, timer)

	o.notifyMu.Lock()
	defer o.notifyMu.Unlock()

	o.mu.Lock()
	long := o.state == domain.SubmissionInFlightLong
	o.state = domain.SubmissionIdle
	o.mu.Unlock()

	o.notify(domain.SubmissionIdle)
	return long
}

// notify runs the listeners; the caller holds notifyMu.
func (o *Orchestrator) notify(state domain.SubmissionState) {
	o.mu.Lock()
	listeners := append([]Listener(nil), o.listeners...)
	o.mu.Unlock()

	for _, l := range listeners {
		l(state)
	}
}
