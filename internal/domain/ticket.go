package domain

import "time"

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "OPEN"
	TicketStatusProcessing TicketStatus = "PROCESSING"
	TicketStatusClosed     TicketStatus = "CLOSED"
)

// Ticket is the aggregate for support requests. ResponseIDs is the
// insertion-ordered response sequence; it only ever grows.
type Ticket struct {
	ID          string       `json:"id"`
	UserID      string       `json:"user"`
	Issue       string       `json:"issue"`
	Status      TicketStatus `json:"status"`
	ResponseIDs []string     `json:"response_ids"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ResponseAuthor is the projected author view attached to populated
// responses: id, name and role only.
type ResponseAuthor struct {
	ID       string   `json:"id"`
	UserName string   `json:"user_name"`
	Role     UserRole `json:"user_type"`
}

// PopulatedResponse is a response with its author expanded.
type PopulatedResponse struct {
	ID        string         `json:"id"`
	Text      string         `json:"text"`
	User      ResponseAuthor `json:"user"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// PopulatedTicket is a ticket with its response history expanded in
// sequence order.
type PopulatedTicket struct {
	Ticket
	Responses []PopulatedResponse `json:"responses"`
}
