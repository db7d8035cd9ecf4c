package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skillswap/api/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

const messageColumns = `
	id, title, body, type, priority, is_active, expires_at, read_by, sent_by_id,
	created_at, updated_at
`

type MessageRepository struct {
	pool *pgxpool.Pool
}

func NewMessageRepository(pool *pgxpool.Pool) *MessageRepository {
	return &MessageRepository{pool: pool}
}

func scanMessage(row pgx.Row) (models.AdminMessage, error) {
	var msg models.AdminMessage
	err := row.Scan(
		&msg.ID,
		&msg.Title,
		&msg.Body,
		&msg.Type,
		&msg.Priority,
		&msg.IsActive,
		&msg.ExpiresAt,
		&msg.ReadBy,
		&msg.SentByID,
		&msg.CreatedAt,
		&msg.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.AdminMessage{}, ErrMessageNotFound
		}
		return models.AdminMessage{}, err
	}
	return msg, nil
}

func (r *MessageRepository) Create(ctx context.Context, msg models.AdminMessage) error {
	const query = `
		INSERT INTO admin_messages (
			id, title, body, type, priority, is_active, expires_at, read_by, sent_by_id,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, '[]'::jsonb, $8, NOW(), NOW()
		)
	`
	_, err := r.pool.Exec(ctx, query,
		msg.ID,
		msg.Title,
		msg.Body,
		msg.Type,
		msg.Priority,
		msg.IsActive,
		msg.ExpiresAt,
		msg.SentByID,
	)
	return err
}

func (r *MessageRepository) GetByID(ctx context.Context, id string) (models.AdminMessage, error) {
	query := `SELECT ` + messageColumns + ` FROM admin_messages WHERE id = $1`
	return scanMessage(r.pool.QueryRow(ctx, query, id))
}

// ListActive returns active, unexpired broadcasts, newest first.
func (r *MessageRepository) ListActive(ctx context.Context, limit, offset int) ([]models.AdminMessage, error) {
	query := `SELECT ` + messageColumns + `
		FROM admin_messages
		WHERE is_active AND (expires_at IS NULL OR expires_at > NOW())
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`
	return r.queryMessages(ctx, query, limit, offset)
}

func (r *MessageRepository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]models.AdminMessage, error) {
	clause := ``
	args := []any{}
	if activeOnly {
		clause = ` WHERE is_active AND (expires_at IS NULL OR expires_at > NOW())`
	}
	query := `SELECT ` + messageColumns + ` FROM admin_messages` + clause +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.queryMessages(ctx, query, args...)
}

func (r *MessageRepository) Count(ctx context.Context, activeOnly bool) (int, error) {
	query := `SELECT COUNT(*) FROM admin_messages`
	if activeOnly {
		query += ` WHERE is_active AND (expires_at IS NULL OR expires_at > NOW())`
	}
	var count int
	if err := r.pool.QueryRow(ctx, query).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *MessageRepository) SetActive(ctx context.Context, id string, active bool) error {
	const query = `
		UPDATE admin_messages SET is_active = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, active)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// MarkRead appends a read receipt unless the user already has one.
func (r *MessageRepository) MarkRead(ctx context.Context, id string, receipt models.ReadReceipt) error {
	const query = `
		UPDATE admin_messages
		SET read_by = read_by || $2,
		    updated_at = NOW()
		WHERE id = $1
		  AND NOT read_by @> $3
	`
	marker := json.RawMessage(fmt.Sprintf(`[{"userId": %q}]`, receipt.UserID))
	cmd, err := r.pool.Exec(ctx, query, id, []models.ReadReceipt{receipt}, marker)
	if err != nil {
		return err
	}
	// Zero rows means either an unknown id or an existing receipt; resolve
	// which so unknown ids still surface as not-found.
	if cmd.RowsAffected() == 0 {
		if _, err := r.GetByID(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// DeactivateExpired retires broadcasts whose expiry has passed. Run from
// the scheduler.
func (r *MessageRepository) DeactivateExpired(ctx context.Context) (int64, error) {
	const query = `
		UPDATE admin_messages
		SET is_active = false, updated_at = NOW()
		WHERE is_active AND expires_at IS NOT NULL AND expires_at <= NOW()
	`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *MessageRepository) queryMessages(ctx context.Context, query string, args ...any) ([]models.AdminMessage, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.AdminMessage
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}
