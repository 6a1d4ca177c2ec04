// Package form holds the user-adjustable export fields and assembles them
// into the option set sent with an export request.
package form
