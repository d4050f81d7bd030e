package pass

// Status is the progress state of one pass within a run.
type Status uint8

const (
	StatusRunning Status = iota + 1
	StatusDone
	// StatusFailed means the pass completed and reported errors.
	StatusFailed
	StatusSkipped
)

func (s Status) String() string {
	switch s {
	case StatusRunning:
		return "running"
	case StatusDone:
		return "done"
	case StatusFailed:
		return "failed"
	case StatusSkipped:
		return "skipped"
	}
	return "queued"
}

// Event reports pass progress to Options.Observer.
type Event struct {
	Pass   ID
	Status Status
	Result Result
}

func (m *Manager) notify(id ID, status Status, res Result) {
	if m.opts.Observer != nil {
		m.opts.Observer(Event{Pass: id, Status: status, Result: res})
	}
}
