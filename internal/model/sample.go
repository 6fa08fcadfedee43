package model

// Sample is a single scalar reading stamped on receipt. Timestamp is in
// monotonic seconds since the owning engine was created.
type Sample struct {
	Timestamp float64
	Value     float64
}

// Point is one windowed coordinate handed to a renderer. X is seconds
// relative to the newest sample (newest at 0, the past negative); Y is the
// raw value.
type Point struct {
	X float64
	Y float64
}

// Stats is a point-in-time summary of an engine's buffers.
type Stats struct {
	TotalWritten int64   // samples ever ingested since creation or reset
	Retained     int     // samples currently held in the ring buffer
	Capacity     int     // ring buffer capacity
	RateHz       float64 // current rate estimate
	Recorded     int     // values held in the recording buffer
	LastValue    float64 // most recent value; zero when nothing was ingested
	Recording    bool
}
