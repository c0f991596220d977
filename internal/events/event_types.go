package events

import (
	"time"

	"github.com/deskhive/support-desk/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated   EventType = "ticket_created"
	EventTicketProcessed EventType = "ticket_processed"
	EventTicketClosed    EventType = "ticket_closed"
	EventReportGenerated EventType = "report_generated"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string          `json:"user_id"`
	Role   domain.UserRole `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Issue string `json:"issue"`
}

// TicketProcessedPayload payload.
type TicketProcessedPayload struct {
	ResponseID string              `json:"response_id"`
	OldStatus  domain.TicketStatus `json:"old_status"`
	NewStatus  domain.TicketStatus `json:"new_status"`
}

// ReportGeneratedPayload payload.
type ReportGeneratedPayload struct {
	Format string `json:"format"`
	Bytes  int    `json:"bytes"`
	Rows   int    `json:"rows"`
}
