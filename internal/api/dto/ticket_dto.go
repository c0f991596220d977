package dto

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Issue string `json:"issue"`
}

// ProcessTicketRequest payload. Status may only carry "closed".
type ProcessTicketRequest struct {
	Ticket string `json:"ticket"`
	Text   string `json:"text"`
	Status string `json:"status,omitempty"`
}

// Envelope is the uniform response body. Failure responses carry only
// status and message; error detail is never echoed to the client.
type Envelope struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
}
