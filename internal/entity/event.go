package entity

import "time"

// RoundFinished is emitted once per round that ends in a win or a draw.
type RoundFinished struct {
	SessionID  string    `json:"session_id"`
	Mode       Mode      `json:"mode"`
	Round      int       `json:"round"`
	Verdict    Verdict   `json:"verdict"`
	Moves      int       `json:"moves"`
	Score      Score     `json:"score"`
	FinishedAt time.Time `json:"finished_at"`
}
