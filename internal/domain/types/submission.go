package types

// SubmissionState is the progress of the export submission owned by one
// orchestrator.
type SubmissionState int

const (
	// SubmissionIdle means no export request is in flight.
	SubmissionIdle SubmissionState = iota
	// SubmissionInFlight means an export request is pending.
	SubmissionInFlight
	// SubmissionInFlightLong means the request has been pending longer than
	// the notice delay.
	SubmissionInFlightLong
)

// String returns a lower-case name for the state.
func (s SubmissionState) String() string {
	switch s {
	case SubmissionIdle:
		return "idle"
	case SubmissionInFlight:
		return "in_flight"
	case SubmissionInFlightLong:
		return "in_flight_long"
	default:
		return "unknown"
	}
}

// Busy reports whether a request is pending.
func (s SubmissionState) Busy() bool { return s != SubmissionIdle }
