// Package submission runs export requests against the export service and
// materializes their payloads as local files.
//
// One Orchestrator owns one SubmissionState and admits a single request at a
// time. A one-shot timer raises a long-wait notice when the request takes
// longer than the configured delay; the notice is informational only and is
// cleared in the same transition that returns the state to Idle.
package submission
