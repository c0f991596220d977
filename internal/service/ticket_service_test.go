package service

import (
	"context"
	"strconv"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deskhive/support-desk/internal/domain"
	"github.com/deskhive/support-desk/internal/pagination"
	apperrors "github.com/deskhive/support-desk/pkg/util/errorutil"
)

type fakeTicketRepo struct {
	tickets map[string]*domain.Ticket
	seq     int
}

func newFakeTicketRepo() *fakeTicketRepo {
	return &fakeTicketRepo{tickets: map[string]*domain.Ticket{}}
}

func (r *fakeTicketRepo) Create(_ context.Context, ticket *domain.Ticket) error {
	r.seq++
	ticket.ID = "ticket-" + strconv.Itoa(r.seq)
	copied := *ticket
	r.tickets[ticket.ID] = &copied
	return nil
}

func (r *fakeTicketRepo) GetByID(_ context.Context, id string) (*domain.Ticket, error) {
	ticket, ok := r.tickets[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *ticket
	return &copied, nil
}

func (r *fakeTicketRepo) ApplyResponse(_ context.Context, ticketID string, status domain.TicketStatus, responseID string) error {
	ticket, ok := r.tickets[ticketID]
	if !ok {
		ticket = &domain.Ticket{ID: ticketID}
		r.tickets[ticketID] = ticket
	}
	ticket.Status = status
	ticket.ResponseIDs = append(ticket.ResponseIDs, responseID)
	return nil
}

func (r *fakeTicketRepo) Count(_ context.Context, filter pagination.Filter) (int64, error) {
	return int64(len(r.tickets)), nil
}

func (r *fakeTicketRepo) Fetch(_ context.Context, filter pagination.Filter, query pagination.Query) ([]domain.PopulatedTicket, error) {
	var result []domain.PopulatedTicket
	for _, ticket := range r.tickets {
		if owner, ok := filter["user"]; ok && owner != ticket.UserID {
			continue
		}
		result = append(result, domain.PopulatedTicket{Ticket: *ticket})
	}
	return result, nil
}

type fakeResponseRepo struct {
	responses []domain.Response
	seq       int
}

func (r *fakeResponseRepo) Create(_ context.Context, response *domain.Response) error {
	r.seq++
	response.ID = "response-" + strconv.Itoa(r.seq)
	r.responses = append(r.responses, *response)
	return nil
}

func (r *fakeResponseRepo) ListByTicket(_ context.Context, ticketID string) ([]domain.Response, error) {
	var result []domain.Response
	for _, resp := range r.responses {
		if resp.TicketID == ticketID {
			result = append(result, resp)
		}
	}
	return result, nil
}

func newTestTicketService() (*TicketService, *fakeTicketRepo, *fakeResponseRepo) {
	tickets := newFakeTicketRepo()
	responses := &fakeResponseRepo{}
	svc := NewTicketService(TicketDependencies{
		TicketRepo:   tickets,
		ResponseRepo: responses,
		MinPageLimit: 10,
	})
	return svc, tickets, responses
}

var (
	customer = &domain.User{ID: "user-c", Role: domain.RoleCustomer}
	agent    = &domain.User{ID: "user-a", Role: domain.RoleAgent}
	admin    = &domain.User{ID: "user-x", Role: domain.RoleAdmin}
)

func TestCreateTicketDefaultsToOpen(t *testing.T) {
	svc, repo, _ := newTestTicketService()

	ticket, err := svc.CreateTicket(context.Background(), customer, "printer on fire")
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
	assert.Equal(t, customer.ID, ticket.UserID)
	assert.Empty(t, repo.tickets[ticket.ID].ResponseIDs)
}

func TestProcessTicketUnknownID(t *testing.T) {
	svc, _, responses := newTestTicketService()

	err := svc.ProcessTicket(context.Background(), agent, ProcessTicketInput{TicketID: "missing", Text: "hi"})

	var domainErr *apperrors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 400, domainErr.HTTPStatus)
	assert.Equal(t, "Invalid ticket ID. Ticket doesn't exist!", domainErr.Message)
	assert.Empty(t, responses.responses)
}

func TestProcessTicketCustomerBlockedUnlessProcessing(t *testing.T) {
	for _, status := range []domain.TicketStatus{domain.TicketStatusOpen, domain.TicketStatusClosed} {
		t.Run(string(status), func(t *testing.T) {
			svc, repo, responses := newTestTicketService()
			ticket, err := svc.CreateTicket(context.Background(), customer, "issue")
			require.NoError(t, err)
			repo.tickets[ticket.ID].Status = status

			err = svc.ProcessTicket(context.Background(), customer, ProcessTicketInput{TicketID: ticket.ID, Text: "hello?"})

			var domainErr *apperrors.DomainError
			require.ErrorAs(t, err, &domainErr)
			assert.Equal(t, "Ticket is not open for commenting", domainErr.Message)
			// the guard must fire before any write
			assert.Empty(t, responses.responses)
			assert.Empty(t, repo.tickets[ticket.ID].ResponseIDs)
		})
	}
}

func TestProcessTicketAgentMovesToProcessing(t *testing.T) {
	svc, repo, responses := newTestTicketService()
	ticket, err := svc.CreateTicket(context.Background(), customer, "issue")
	require.NoError(t, err)

	err = svc.ProcessTicket(context.Background(), agent, ProcessTicketInput{TicketID: ticket.ID, Text: "looking into it"})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusProcessing, repo.tickets[ticket.ID].Status)
	require.Len(t, responses.responses, 1)
	assert.Equal(t, agent.ID, responses.responses[0].UserID)
	assert.Equal(t, []string{responses.responses[0].ID}, repo.tickets[ticket.ID].ResponseIDs)
}

func TestProcessTicketAgentCommentReopensClosedTicket(t *testing.T) {
	svc, repo, _ := newTestTicketService()
	ticket, err := svc.CreateTicket(context.Background(), customer, "issue")
	require.NoError(t, err)
	repo.tickets[ticket.ID].Status = domain.TicketStatusClosed

	err = svc.ProcessTicket(context.Background(), agent, ProcessTicketInput{TicketID: ticket.ID, Text: "one more thing"})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusProcessing, repo.tickets[ticket.ID].Status)
}

func TestProcessTicketExplicitCloseWinsOverAgentRule(t *testing.T) {
	svc, repo, _ := newTestTicketService()
	ticket, err := svc.CreateTicket(context.Background(), customer, "issue")
	require.NoError(t, err)

	err = svc.ProcessTicket(context.Background(), agent, ProcessTicketInput{
		TicketID: ticket.ID,
		Text:     "resolved",
		Status:   StatusClosedRequest,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusClosed, repo.tickets[ticket.ID].Status)
}

func TestProcessTicketAdminStatusUnchangedWithoutCloseRequest(t *testing.T) {
	svc, repo, responses := newTestTicketService()
	ticket, err := svc.CreateTicket(context.Background(), customer, "issue")
	require.NoError(t, err)

	err = svc.ProcessTicket(context.Background(), admin, ProcessTicketInput{TicketID: ticket.ID, Text: "noted"})
	require.NoError(t, err)

	assert.Equal(t, domain.TicketStatusOpen, repo.tickets[ticket.ID].Status)
	assert.Len(t, responses.responses, 1)
}

// Full lifecycle: open -> agent processing -> customer comment ->
// admin close -> customer locked out again.
func TestProcessTicketLifecycleScenario(t *testing.T) {
	svc, repo, responses := newTestTicketService()
	ctx := context.Background()

	ticket, err := svc.CreateTicket(ctx, customer, "X")
	require.NoError(t, err)
	assert.Equal(t, domain.TicketStatusOpen, repo.tickets[ticket.ID].Status)
	assert.Empty(t, repo.tickets[ticket.ID].ResponseIDs)

	require.NoError(t, svc.ProcessTicket(ctx, agent, ProcessTicketInput{TicketID: ticket.ID, Text: "looking into it"}))
	assert.Equal(t, domain.TicketStatusProcessing, repo.tickets[ticket.ID].Status)
	require.Len(t, repo.tickets[ticket.ID].ResponseIDs, 1)
	assert.Equal(t, agent.ID, responses.responses[0].UserID)

	require.NoError(t, svc.ProcessTicket(ctx, customer, ProcessTicketInput{TicketID: ticket.ID, Text: "thanks"}))
	assert.Equal(t, domain.TicketStatusProcessing, repo.tickets[ticket.ID].Status)
	assert.Len(t, repo.tickets[ticket.ID].ResponseIDs, 2)

	require.NoError(t, svc.ProcessTicket(ctx, admin, ProcessTicketInput{TicketID: ticket.ID, Text: "done", Status: StatusClosedRequest}))
	assert.Equal(t, domain.TicketStatusClosed, repo.tickets[ticket.ID].Status)
	assert.Len(t, repo.tickets[ticket.ID].ResponseIDs, 3)

	err = svc.ProcessTicket(ctx, customer, ProcessTicketInput{TicketID: ticket.ID, Text: "hello?"})
	require.Error(t, err)
	assert.Len(t, repo.tickets[ticket.ID].ResponseIDs, 3)
}

func TestCustomerTicketsScopedToOwner(t *testing.T) {
	svc, _, _ := newTestTicketService()
	ctx := context.Background()

	_, err := svc.CreateTicket(ctx, customer, "mine")
	require.NoError(t, err)
	other := &domain.User{ID: "user-o", Role: domain.RoleCustomer}
	_, err = svc.CreateTicket(ctx, other, "not mine")
	require.NoError(t, err)

	page := svc.CustomerTickets(ctx, customer, map[string]string{})

	require.Equal(t, pagination.StatusSuccess, page.Status)
	require.Len(t, page.Data, 1)
	assert.Equal(t, customer.ID, page.Data[0].UserID)

	all := svc.AllTickets(ctx, map[string]string{})
	assert.Len(t, all.Data, 2)
}
