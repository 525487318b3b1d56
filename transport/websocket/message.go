package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

const (
	actionNew    = "session:new"
	actionResume = "session:resume"
	actionPlay   = "session:play"
	actionMode   = "session:mode"
	actionNext   = "session:next"
)

type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Request is the payload a client sends. Fields not used by the action are ignored.
type Request struct {
	SessionID string `json:"session_id,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Cell      *int   `json:"cell,omitempty"`
}

type Response struct {
	Action     string               `json:"action"`
	Session    *entity.SessionState `json:"session,omitempty"`
	Status     string               `json:"status,omitempty"`
	Scoreboard string               `json:"scoreboard,omitempty"`
	Changes    []entity.Move        `json:"changes,omitempty"`
	Error      string               `json:"error,omitempty"`
}
