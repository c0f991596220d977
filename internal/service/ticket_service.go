package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/deskhive/support-desk/internal/domain"
	"github.com/deskhive/support-desk/internal/events"
	"github.com/deskhive/support-desk/internal/pagination"
	"github.com/deskhive/support-desk/internal/repository"
	apperrors "github.com/deskhive/support-desk/pkg/util/errorutil"
)

// StatusClosedRequest is the only payload value a processTicket call
// may carry to request an explicit close.
const StatusClosedRequest = "closed"

// ticketQueryKeys is the allow-list of query parameters listing
// endpoints may merge into their filter.
var ticketQueryKeys = []string{"status"}

// TicketService owns ticket and response creation and the
// status-transition rule.
type TicketService struct {
	tickets    repository.TicketRepository
	responses  repository.ResponseRepository
	paginator  *pagination.Paginator[domain.PopulatedTicket]
	dispatcher events.Dispatcher
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	TicketRepo   repository.TicketRepository
	ResponseRepo repository.ResponseRepository
	MinPageLimit int
	Dispatcher   events.Dispatcher
}

// ProcessTicketInput is the processTicket payload.
type ProcessTicketInput struct {
	TicketID string
	Text     string
	Status   string
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	return &TicketService{
		tickets:    deps.TicketRepo,
		responses:  deps.ResponseRepo,
		paginator:  pagination.New[domain.PopulatedTicket](deps.TicketRepo, deps.MinPageLimit),
		dispatcher: deps.Dispatcher,
	}
}

// CreateTicket opens a new ticket owned by the calling customer.
func (s *TicketService) CreateTicket(ctx context.Context, actor *domain.User, issue string) (*domain.Ticket, error) {
	ticket := &domain.Ticket{
		UserID: actor.ID,
		Issue:  strings.TrimSpace(issue),
		Status: domain.TicketStatusOpen,
	}
	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, err
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Actor:    actorFor(actor),
		Payload:  events.TicketCreatedPayload{Issue: ticket.Issue},
	})
	return ticket, nil
}

// ProcessTicket appends a response and advances the ticket status.
//
// The transition rule: an AGENT response always moves the ticket to
// PROCESSING; an explicit "closed" request from any non-customer then
// overrides that to CLOSED; otherwise the status is unchanged.
// Customers may only comment while the ticket is PROCESSING.
func (s *TicketService) ProcessTicket(ctx context.Context, actor *domain.User, input ProcessTicketInput) error {
	ticket, err := s.tickets.GetByID(ctx, input.TicketID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("Invalid ticket ID. Ticket doesn't exist!")
		}
		return err
	}

	if actor.Role == domain.RoleCustomer && ticket.Status != domain.TicketStatusProcessing {
		return apperrors.NewForbidden("Ticket is not open for commenting")
	}

	// Commenting always succeeds once the guard passes, whatever the
	// status outcome below.
	response := &domain.Response{
		TicketID: ticket.ID,
		UserID:   actor.ID,
		Text:     input.Text,
	}
	if err := s.responses.Create(ctx, response); err != nil {
		return err
	}

	status := ticket.Status
	if actor.Role == domain.RoleAgent {
		status = domain.TicketStatusProcessing
	}
	if input.Status == StatusClosedRequest && actor.Role != domain.RoleCustomer {
		status = domain.TicketStatusClosed
	}

	if err := s.tickets.ApplyResponse(ctx, ticket.ID, status, response.ID); err != nil {
		return err
	}

	eventType := events.EventTicketProcessed
	if status == domain.TicketStatusClosed && ticket.Status != domain.TicketStatusClosed {
		eventType = events.EventTicketClosed
	}
	s.publishEvent(ctx, events.Event{
		Type:     eventType,
		TicketID: ticket.ID,
		Actor:    actorFor(actor),
		Payload: events.TicketProcessedPayload{
			ResponseID: response.ID,
			OldStatus:  ticket.Status,
			NewStatus:  status,
		},
	})
	return nil
}

// CustomerTickets lists the calling user's own tickets, freshest
// activity first, with response history populated.
func (s *TicketService) CustomerTickets(ctx context.Context, actor *domain.User, params map[string]string) pagination.Page[domain.PopulatedTicket] {
	opts := pagination.Options{
		Filter:   pagination.Filter{"user": actor.ID},
		Params:   params,
		Page:     params["page"],
		Limit:    params["limit"],
		Sort:     []pagination.Sort{{Field: "updatedAt", Desc: true}},
		Populate: true,
	}
	return s.paginator.Paginate(ctx, opts, ticketQueryKeys, nil)
}

// AllTickets lists every ticket for staff, newest first.
func (s *TicketService) AllTickets(ctx context.Context, params map[string]string) pagination.Page[domain.PopulatedTicket] {
	opts := pagination.Options{
		Params:   params,
		Page:     params["page"],
		Limit:    params["limit"],
		Sort:     []pagination.Sort{{Field: "createdAt", Desc: true}},
		Populate: true,
	}
	return s.paginator.Paginate(ctx, opts, ticketQueryKeys, nil)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func actorFor(user *domain.User) events.Actor {
	return events.Actor{UserID: user.ID, Role: user.Role}
}
