package entity

const (
	MarkX     Mark = "X"
	MarkO     Mark = "O"
	EmptyCell Mark = ""

	// HumanMark always moves first; ComputerMark is played by the opponent policy.
	HumanMark    = MarkX
	ComputerMark = MarkO
)

// Mark is the content of a board cell: a player's symbol or EmptyCell.
type Mark string

func (that Mark) IsPlayer() bool {
	return that == MarkX || that == MarkO
}

// Opponent returns the other player's mark. EmptyCell has no opponent.
func (that Mark) Opponent() Mark {
	switch that {
	case MarkX:
		return MarkO
	case MarkO:
		return MarkX
	default:
		return EmptyCell
	}
}
