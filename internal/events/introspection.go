package events

import "time"

// IntrospectionFetchStart is emitted before fetching a foreign schema.
type IntrospectionFetchStart struct {
	BaseURL string
}

// IntrospectionFetchFinish is emitted after the fetch completes.
type IntrospectionFetchFinish struct {
	BaseURL  string
	Err      error
	Duration time.Duration
}
