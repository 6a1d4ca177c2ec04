// Package exporttest provides in-memory fakes of the domain collaborators
// for tests: an export service driven by functions, and recording error
// reporters and file savers.
package exporttest
