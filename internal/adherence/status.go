package adherence

// Status buckets an adherence ratio into a qualitative label.
type Status string

const (
	StatusPerfect    Status = "perfect"
	StatusGreat      Status = "great"
	StatusGood       Status = "good"
	StatusOngoing    Status = "ongoing"
	StatusNotStarted Status = "not started"
)

func StatusFor(ratio float64) Status {
	switch {
	case ratio >= 1.0:
		return StatusPerfect
	case ratio >= 0.8:
		return StatusGreat
	case ratio >= 0.5:
		return StatusGood
	case ratio > 0:
		return StatusOngoing
	default:
		return StatusNotStarted
	}
}

func (s Status) String() string {
	return string(s)
}
