package models

import "time"

// Media is a binary attachment owned independently of any claim. Claims
// reference media by id; deleting a claim does not delete its media unless
// the caller asks for a purge.
type Media struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Data    []byte    `json:"data"`
	SavedAt time.Time `json:"savedAt"`
}
