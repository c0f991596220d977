package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/deskhive/support-desk/internal/domain"
	"github.com/deskhive/support-desk/internal/pagination"
)

// TicketRepository encapsulates ticket persistence. It doubles as the
// pagination source for ticket listings.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	// ApplyResponse sets the ticket status and appends the response id
	// to the sequence in a single upsert update.
	ApplyResponse(ctx context.Context, ticketID string, status domain.TicketStatus, responseID string) error
	Count(ctx context.Context, filter pagination.Filter) (int64, error)
	Fetch(ctx context.Context, filter pagination.Filter, query pagination.Query) ([]domain.PopulatedTicket, error)
}

type ticketRepository struct {
	pool *pgxpool.Pool
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(pool *pgxpool.Pool) TicketRepository {
	return &ticketRepository{pool: pool}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (user_id, issue, status)
        VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	if ticket.Status == "" {
		ticket.Status = domain.TicketStatusOpen
	}
	return r.pool.QueryRow(ctx, query,
		ticket.UserID,
		ticket.Issue,
		ticket.Status,
	).Scan(&ticket.ID, &ticket.CreatedAt, &ticket.UpdatedAt)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	const query = `
        SELECT id, user_id, issue, status, response_ids, created_at, updated_at
        FROM tickets WHERE id=$1`
	var ticket domain.Ticket
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&ticket.ID,
		&ticket.UserID,
		&ticket.Issue,
		&ticket.Status,
		&ticket.ResponseIDs,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *ticketRepository) ApplyResponse(ctx context.Context, ticketID string, status domain.TicketStatus, responseID string) error {
	// Upsert: a concurrently absent row is re-created rather than the
	// write being lost, mirroring updateOne(..., {upsert: true}).
	const query = `
        INSERT INTO tickets (id, issue, status, response_ids)
        VALUES ($1, '', $2, ARRAY[$3]::uuid[])
        ON CONFLICT (id) DO UPDATE
        SET status = EXCLUDED.status,
            response_ids = array_append(tickets.response_ids, $3::uuid),
            updated_at = NOW()`
	_, err := r.pool.Exec(ctx, query, ticketID, status, responseID)
	return err
}

func (r *ticketRepository) Count(ctx context.Context, filter pagination.Filter) (int64, error) {
	where, args := buildTicketWhere(filter)
	var total int64
	err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM tickets WHERE "+where, args...).Scan(&total)
	return total, err
}

func (r *ticketRepository) Fetch(ctx context.Context, filter pagination.Filter, query pagination.Query) ([]domain.PopulatedTicket, error) {
	where, args := buildTicketWhere(filter)

	sql := fmt.Sprintf(`
        SELECT id, user_id, issue, status, response_ids, created_at, updated_at
        FROM tickets WHERE %s ORDER BY %s LIMIT %d OFFSET %d`,
		where, ticketOrderBy(query.Sort), query.Limit, query.Offset)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.PopulatedTicket
	for rows.Next() {
		var ticket domain.PopulatedTicket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.UserID,
			&ticket.Issue,
			&ticket.Status,
			&ticket.ResponseIDs,
			&ticket.CreatedAt,
			&ticket.UpdatedAt,
		); err != nil {
			return nil, err
		}
		ticket.Responses = []domain.PopulatedResponse{}
		result = append(result, ticket)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if query.Populate {
		if err := r.populateResponses(ctx, result); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// populateResponses expands each ticket's response references with
// their authors projected to id/user_name/user_type, preserving the
// response_ids sequence order.
func (r *ticketRepository) populateResponses(ctx context.Context, tickets []domain.PopulatedTicket) error {
	if len(tickets) == 0 {
		return nil
	}
	ids := make([]string, 0, len(tickets))
	for _, ticket := range tickets {
		ids = append(ids, ticket.ID)
	}

	const query = `
        SELECT r.id, r.ticket_id, r.text, r.created_at, r.updated_at,
               u.id, u.user_name, u.user_type
        FROM responses r
        JOIN users u ON u.id = r.user_id
        WHERE r.ticket_id = ANY($1)`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	byID := make(map[string]domain.PopulatedResponse)
	for rows.Next() {
		var resp domain.PopulatedResponse
		var ticketID string
		if err := rows.Scan(
			&resp.ID,
			&ticketID,
			&resp.Text,
			&resp.CreatedAt,
			&resp.UpdatedAt,
			&resp.User.ID,
			&resp.User.UserName,
			&resp.User.Role,
		); err != nil {
			return err
		}
		byID[resp.ID] = resp
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for i := range tickets {
		for _, responseID := range tickets[i].ResponseIDs {
			if resp, ok := byID[responseID]; ok {
				tickets[i].Responses = append(tickets[i].Responses, resp)
			}
		}
	}
	return nil
}

func buildTicketWhere(filter pagination.Filter) (string, []any) {
	clauses := []string{"1=1"}
	args := []any{}
	for key, val := range filter {
		switch key {
		case "user":
			args = append(args, val)
			clauses = append(clauses, fmt.Sprintf("user_id=$%d", len(args)))
		case "status":
			args = append(args, val)
			clauses = append(clauses, fmt.Sprintf("status=$%d", len(args)))
		case "created_before":
			if t, ok := val.(time.Time); ok {
				args = append(args, t)
				clauses = append(clauses, fmt.Sprintf("created_at < $%d", len(args)))
			}
		}
	}
	return strings.Join(clauses, " AND "), args
}

func ticketOrderBy(sorts []pagination.Sort) string {
	columns := map[string]string{
		"createdAt": "created_at",
		"updatedAt": "updated_at",
	}
	parts := []string{}
	for _, sort := range sorts {
		column, ok := columns[sort.Field]
		if !ok {
			continue
		}
		direction := "ASC"
		if sort.Desc {
			direction = "DESC"
		}
		parts = append(parts, column+" "+direction)
	}
	if len(parts) == 0 {
		return "created_at DESC"
	}
	return strings.Join(parts, ", ")
}
