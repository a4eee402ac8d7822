package entity

import (
	"strings"

	"mallfinder-be/internal/constant"
)

// Session is the per-user conversation state. It is owned exclusively by the
// dialog service; every mutation is a full read-modify-write of the record.
type Session struct {
	UserID string   `json:"user_id"`
	State  string   `json:"state"`
	City   string   `json:"city,omitempty"`
	Stores []string `json:"stores"`

	// CurrentQueryID is the stable id of the saved query being edited,
	// nil outside saved-query editing.
	CurrentQueryID *int `json:"current_query_id,omitempty"`

	// StoreChoices is the ephemeral disambiguation buffer: the raw input of
	// the last add cycle, then the offered candidates. Replaced whenever a
	// new add cycle starts, so stale choices cannot leak across stores.
	StoreChoices []string `json:"store_choices,omitempty"`
}

// NewSession returns the initial state for a first-time user.
func NewSession(userID string) *Session {
	return &Session{
		UserID: userID,
		State:  constant.StateChoosingCity,
		Stores: []string{},
	}
}

// HasStore reports whether name is already in the working list,
// case-insensitively.
func (s *Session) HasStore(name string) bool {
	for _, existing := range s.Stores {
		if strings.EqualFold(strings.TrimSpace(existing), strings.TrimSpace(name)) {
			return true
		}
	}
	return false
}
