package datasage

// StopReason indicates why the provider stopped generating.
type StopReason string

const (
	StopEndTurn StopReason = "end_turn"
	StopLength  StopReason = "length"
	StopFilter  StopReason = "content_filter"
	StopUnknown StopReason = "unknown"
)
