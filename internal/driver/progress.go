package driver

// Stage is the step a file is in.
type Stage uint8

const (
	StageNone Stage = iota
	StageLoad
	StageParse
	StageClassify
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "loading"
	case StageParse:
		return "parsing"
	case StageClassify:
		return "classifying"
	default:
		return ""
	}
}

// Status reports where a file is relative to its Stage.
type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusCached
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusQueued:
		return "queued"
	case StatusWorking:
		return "working"
	case StatusDone:
		return "done"
	case StatusCached:
		return "cached"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// Final reports whether no further events follow for the file.
func (s Status) Final() bool {
	return s == StatusDone || s == StatusCached || s == StatusError
}

// ProgressEvent describes one step of a Check run. An empty File marks a
// run-level event.
type ProgressEvent struct {
	File   string
	Stage  Stage
	Status Status
}

// ProgressObserver receives events from Check. It is called from worker
// goroutines and must be safe for concurrent use.
type ProgressObserver func(ProgressEvent)

func (o ProgressObserver) emit(file string, stage Stage, status Status) {
	if o != nil {
		o(ProgressEvent{File: file, Stage: stage, Status: status})
	}
}
