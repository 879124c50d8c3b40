// Package engine abstracts the external conversion engine and owns
// its load lifecycle.
package engine

import "context"

// Module is the capability surface of the conversion engine. The
// engine is an external compiled artifact; this interface is all the
// rest of the program is allowed to know about it.
type Module interface {
	// Init prepares the module for use. It must complete successfully
	// before Convert or Version are called.
	Init(ctx context.Context) error

	// Convert transforms a raw chat export into the requested output
	// format. It is synchronous and returns the converted text verbatim.
	Convert(input, source, format string, timestamps, replays bool) (string, error)

	// Version reports the engine version, for display only.
	Version() string
}
