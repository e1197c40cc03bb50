package setversion

// Stage is a step of a version update.
type Stage int

const (
	StageValidating Stage = iota
	StageReading
	StageMutating
	StageWriting
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageValidating:
		return "validating"
	case StageReading:
		return "reading"
	case StageMutating:
		return "mutating"
	case StageWriting:
		return "writing"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	}

	return "unknown"
}
