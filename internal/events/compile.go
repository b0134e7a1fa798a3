package events

import "time"

// CompileStart is emitted when a schema compilation begins.
type CompileStart struct {
	Source string
}

// CompileFinish is emitted when a schema compilation ends.
type CompileFinish struct {
	Source   string
	Types    int
	Errors   int
	Duration time.Duration
}
