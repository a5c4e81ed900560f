package telegram

import (
	"encoding/json"
	"fmt"
)

// Result is the envelope every Bot API method answers with.
type Result struct {
	OK          bool            `json:"ok"`
	Description string          `json:"description,omitempty"`
	ErrorCode   int             `json:"error_code,omitempty"`
	Payload     json.RawMessage `json:"result,omitempty"`
}

// APIError is a reply the Bot API decoded and refused (ok=false).
type APIError struct {
	StatusCode  int
	ErrorCode   int
	Description string
}

func (e *APIError) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("telegram rejected request (HTTP %d)", e.StatusCode)
	}
	return e.Description
}
