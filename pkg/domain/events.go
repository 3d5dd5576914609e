package domain

import "time"

// EventType defines the category of the event.
type EventType string

const (
	EventConversionStart  EventType = "conversion_start"
	EventSampleWritten    EventType = "sample_written"
	EventConversionFinish EventType = "conversion_finish"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	RunID     string    `json:"run_id"`
}

// ConversionEvent describes the progress of a single conversion run.
type ConversionEvent struct {
	EventBase
	Format string `json:"format"`
	// Index is the number of samples written so far.
	Index    int           `json:"index"`
	Duration time.Duration `json:"duration,omitempty"`
	Err      error         `json:"-"`
}

// ConversionHooks defines callbacks for conversion observability.
// Nil callbacks are skipped.
type ConversionHooks struct {
	OnStart  func(*ConversionEvent)
	OnSample func(*ConversionEvent)
	OnFinish func(*ConversionEvent)
}
