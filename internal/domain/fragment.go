package domain

// Fragment is one increment of a streamed answer. A stream of fragments is
// lazy, forward-only and non-restartable; the channel carrying it closes at
// end of stream. A mid-stream failure is delivered in-band as a terminal
// fragment with Err set rather than escaping the stream.
type Fragment struct {
	Content string
	Err     error
}
