package tex2html

// Status is the state of a render job.
type Status int

// Job states, in the order a successful job visits them. Uploaded is
// skipped for local outputs and Postprocessed when postprocessing is off.
const (
	StatusPending Status = iota
	StatusInputStaged
	StatusRenderedByExternalTool
	StatusPostprocessed
	StatusUploaded
	StatusDone
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusInputStaged:
		return "input-staged"
	case StatusRenderedByExternalTool:
		return "rendered-by-external-tool"
	case StatusPostprocessed:
		return "postprocessed"
	case StatusUploaded:
		return "uploaded"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition can follow s.
func (s Status) Terminal() bool {
	return s == StatusDone || s == StatusFailed
}

// StatusFunc observes job transitions. It runs synchronously on the
// rendering goroutine.
type StatusFunc func(job Job, status Status, err error)
