package entity

const (
	OutcomeInProgress Outcome = "in_progress"
	OutcomeWin        Outcome = "win"
	OutcomeDraw       Outcome = "draw"
)

type Outcome string

// Verdict classifies a board. Winner is set only for OutcomeWin.
type Verdict struct {
	Outcome Outcome `json:"outcome"`
	Winner  Mark    `json:"winner,omitempty"`
}

func InProgress() Verdict {
	return Verdict{Outcome: OutcomeInProgress}
}

func Win(mark Mark) Verdict {
	return Verdict{Outcome: OutcomeWin, Winner: mark}
}

func Draw() Verdict {
	return Verdict{Outcome: OutcomeDraw}
}

func (that Verdict) IsTerminal() bool {
	return that.Outcome == OutcomeWin || that.Outcome == OutcomeDraw
}

func (that Verdict) String() string {
	if that.Outcome == OutcomeWin {
		return "win(" + string(that.Winner) + ")"
	}

	return string(that.Outcome)
}
