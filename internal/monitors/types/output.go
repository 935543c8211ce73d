package types

import "context"

// Sink is the interface that metric backends implement to receive the
// namespace produced by a single poll of one control socket.  A Sink must
// treat the namespace as read-only since the same instance is handed to every
// configured sink in turn.
type Sink interface {
	// Name identifies the sink in logs.
	Name() string
	// Publish sends every entry of the namespace to the backend.  A non-nil
	// error means the backend could not be reached at all and aborts the
	// remaining sinks for this socket.
	Publish(ctx context.Context, ns *Namespace) error
}
