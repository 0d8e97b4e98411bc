package driver

// Stage is the checker phase a progress event belongs to.
type Stage uint8

const (
	StageLoad Stage = iota
	StageParse
	StageResolve
	StageTrust
	StageAttrs
	StageBodies
	StageUnify
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageParse:
		return "parse"
	case StageResolve:
		return "resolve"
	case StageTrust:
		return "trust"
	case StageAttrs:
		return "attrs"
	case StageBodies:
		return "bodies"
	case StageUnify:
		return "unify"
	default:
		return "unknown"
	}
}

type Status uint8

const (
	StatusQueued Status = iota
	StatusWorking
	StatusDone
	StatusError
)

// ProgressEvent reports a stage change. File is the rel path of the source
// it concerns, or "" for a whole-program stage.
type ProgressEvent struct {
	File   string
	Stage  Stage
	Status Status
}

// ProgressFunc receives progress events. Parse events arrive from worker
// goroutines, so implementations must be safe for concurrent use.
type ProgressFunc func(ProgressEvent)

func (f ProgressFunc) emit(file string, stage Stage, status Status) {
	if f != nil {
		f(ProgressEvent{File: file, Stage: stage, Status: status})
	}
}
