package domain

// DispatchStats is a snapshot of pipeline counters.
type DispatchStats struct {
	// Ticks counts Tick invocations.
	Ticks uint64 `json:"ticks"`

	// FramesAcquired counts ticks where the source handed out a frame.
	FramesAcquired uint64 `json:"frames_acquired"`

	// FramesUnavailable counts ticks where no frame was available (silent drops).
	FramesUnavailable uint64 `json:"frames_unavailable"`

	// FramesDispatched counts frames delivered to the consumer list.
	FramesDispatched uint64 `json:"frames_dispatched"`

	// ConvertErrors counts ticks ended by a conversion failure.
	ConvertErrors uint64 `json:"convert_errors"`

	// ConsumerErrors counts individual consumer failures.
	ConsumerErrors uint64 `json:"consumer_errors"`

	// Reallocations counts packed buffer reallocations.
	Reallocations uint64 `json:"reallocations"`

	// UVRecomputes counts display transform recomputations.
	UVRecomputes uint64 `json:"uv_recomputes"`

	// SessionSkips counts ticks skipped because the session was not valid.
	SessionSkips uint64 `json:"session_skips"`
}

// Add returns the field-wise sum of s and o.
func (s DispatchStats) Add(o DispatchStats) DispatchStats {
	return DispatchStats{
		Ticks:             s.Ticks + o.Ticks,
		FramesAcquired:    s.FramesAcquired + o.FramesAcquired,
		FramesUnavailable: s.FramesUnavailable + o.FramesUnavailable,
		FramesDispatched:  s.FramesDispatched + o.FramesDispatched,
		ConvertErrors:     s.ConvertErrors + o.ConvertErrors,
		ConsumerErrors:    s.ConsumerErrors + o.ConsumerErrors,
		Reallocations:     s.Reallocations + o.Reallocations,
		UVRecomputes:      s.UVRecomputes + o.UVRecomputes,
		SessionSkips:      s.SessionSkips + o.SessionSkips,
	}
}
