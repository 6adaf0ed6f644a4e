package arcade

// Result is how an arcade game finished.
type Result int

const (
	Forfeit Result = iota
	Win
	Draw
	Fail
)

func (r Result) String() string {
	switch r {
	case Win:
		return "win"
	case Draw:
		return "draw"
	case Fail:
		return "fail"
	default:
		return "forfeit"
	}
}

// ResultFor decides a finished game from its performance.
func ResultFor(performance, winThreshold float64) Result {
	if performance >= winThreshold {
		return Win
	}
	return Fail
}
