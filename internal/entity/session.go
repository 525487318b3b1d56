package entity

const (
	PhaseAwaitingMove Phase = "awaiting_move"
	PhaseRoundOver    Phase = "round_over"
)

type Phase string

// Move is a single mark placed on the board.
type Move struct {
	Index int  `json:"index"`
	Mark  Mark `json:"mark"`
}

type Score struct {
	X int `json:"x"`
	O int `json:"o"`
}

// SessionState is the serializable snapshot of a game session.
type SessionState struct {
	ID      string  `json:"id"`
	Mode    Mode    `json:"mode"`
	Board   Board   `json:"board"`
	Mover   Mark    `json:"mover"`
	Phase   Phase   `json:"phase"`
	Verdict Verdict `json:"verdict"`
	Score   Score   `json:"score"`
	Round   int     `json:"round"`
}

func (that *SessionState) IsRoundOver() bool {
	return that.Phase == PhaseRoundOver
}
