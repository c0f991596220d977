package domain

import "time"

// Response is a single comment on a ticket. Responses are immutable
// once created; there is no edit or delete path.
type Response struct {
	ID        string    `json:"id"`
	TicketID  string    `json:"ticket"`
	UserID    string    `json:"user"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
