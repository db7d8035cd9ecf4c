package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"skillswap/api/internal/models"
)

var ErrSwapNotFound = errors.New("swap request not found")

const swapColumns = `
	id, requester_id, requested_id, skill_offered, skill_wanted, message, status,
	proposed_date, duration, completed_at, requester_rating, requested_rating,
	is_reported, report_reason, created_at, updated_at
`

type SwapRepository struct {
	pool *pgxpool.Pool
}

func NewSwapRepository(pool *pgxpool.Pool) *SwapRepository {
	return &SwapRepository{pool: pool}
}

func scanSwap(row pgx.Row) (models.SwapRequest, error) {
	var swap models.SwapRequest
	err := row.Scan(
		&swap.ID,
		&swap.RequesterID,
		&swap.RequestedID,
		&swap.SkillOffered,
		&swap.SkillWanted,
		&swap.Message,
		&swap.Status,
		&swap.ProposedDate,
		&swap.Duration,
		&swap.CompletedAt,
		&swap.RequesterRating,
		&swap.RequestedRating,
		&swap.IsReported,
		&swap.ReportReason,
		&swap.CreatedAt,
		&swap.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.SwapRequest{}, ErrSwapNotFound
		}
		return models.SwapRequest{}, err
	}
	return swap, nil
}

func (r *SwapRepository) Create(ctx context.Context, swap models.SwapRequest) error {
	const query = `
		INSERT INTO swap_requests (
			id, requester_id, requested_id, skill_offered, skill_wanted, message, status,
			proposed_date, duration, is_reported, report_reason, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7,
			$8, $9, false, '', NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		swap.ID,
		swap.RequesterID,
		swap.RequestedID,
		swap.SkillOffered,
		swap.SkillWanted,
		swap.Message,
		swap.Status,
		swap.ProposedDate,
		swap.Duration,
	)
	return err
}

func (r *SwapRepository) GetByID(ctx context.Context, id string) (models.SwapRequest, error) {
	query := `SELECT ` + swapColumns + ` FROM swap_requests WHERE id = $1`
	return scanSwap(r.pool.QueryRow(ctx, query, id))
}

// HasPendingDuplicate reports whether a pending request with the same
// participants and the exact same offered/wanted skill names already exists.
func (r *SwapRepository) HasPendingDuplicate(ctx context.Context, requesterID, requestedID, offeredName, wantedName string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM swap_requests
			WHERE requester_id = $1
			  AND requested_id = $2
			  AND status = 'pending'
			  AND skill_offered->>'name' = $3
			  AND skill_wanted->>'name' = $4
		)
	`
	var exists bool
	row := r.pool.QueryRow(ctx, query, requesterID, requestedID, offeredName, wantedName)
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// TransitionStatus moves a swap to the target status only if its current
// status is one of the expected source states. It returns false when zero
// rows matched, which signals a lost race or an invalid transition; the
// caller decides which after re-reading. completed_at is stamped exactly
// when the target state is completed.
func (r *SwapRepository) TransitionStatus(ctx context.Context, id string, from []models.SwapStatus, to models.SwapStatus) (bool, error) {
	const query = `
		UPDATE swap_requests
		SET status = $3,
		    completed_at = CASE WHEN $3 = 'completed' THEN NOW() ELSE completed_at END,
		    updated_at = NOW()
		WHERE id = $1 AND status = ANY($2)
	`
	cmd, err := r.pool.Exec(ctx, query, id, statusStrings(from), string(to))
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// SetRating writes one side's rating only if the swap is completed and that
// side has not rated yet. A false return means the guard failed.
func (r *SwapRepository) SetRating(ctx context.Context, id string, byRequester bool, rating models.SwapRating) (bool, error) {
	column := "requested_rating"
	if byRequester {
		column = "requester_rating"
	}
	query := fmt.Sprintf(`
		UPDATE swap_requests
		SET %s = $2, updated_at = NOW()
		WHERE id = $1 AND status = 'completed' AND %s IS NULL
	`, column, column)

	cmd, err := r.pool.Exec(ctx, query, id, rating)
	if err != nil {
		return false, err
	}
	return cmd.RowsAffected() > 0, nil
}

// CancelAllPending force-cancels every pending swap in which the user is a
// party. System-initiated; bypasses the actor rules on purpose.
func (r *SwapRepository) CancelAllPending(ctx context.Context, userID string) (int64, error) {
	const query = `
		UPDATE swap_requests
		SET status = 'cancelled', updated_at = NOW()
		WHERE status = 'pending' AND (requester_id = $1 OR requested_id = $1)
	`
	cmd, err := r.pool.Exec(ctx, query, userID)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *SwapRepository) SetReported(ctx context.Context, id string, reason string) error {
	const query = `
		UPDATE swap_requests
		SET is_reported = true, report_reason = $2, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, reason)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrSwapNotFound
	}
	return nil
}

// ListByRequester returns swaps the user sent, most recent first.
func (r *SwapRepository) ListByRequester(ctx context.Context, userID string, limit, offset int) ([]models.SwapRequest, error) {
	query := `SELECT ` + swapColumns + `
		FROM swap_requests
		WHERE requester_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.querySwaps(ctx, query, userID, limit, offset)
}

// ListByRequested returns swaps the user received, most recent first.
func (r *SwapRepository) ListByRequested(ctx context.Context, userID string, limit, offset int) ([]models.SwapRequest, error) {
	query := `SELECT ` + swapColumns + `
		FROM swap_requests
		WHERE requested_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	return r.querySwaps(ctx, query, userID, limit, offset)
}

// SwapFilter narrows the admin swap listing.
type SwapFilter struct {
	Status   models.SwapStatus
	Reported bool
}

func (f SwapFilter) where() (string, []any) {
	clause := ``
	args := []any{}
	if f.Status != "" {
		args = append(args, f.Status)
		clause += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.Reported {
		clause += ` AND is_reported`
	}
	if clause == "" {
		return "", args
	}
	return ` WHERE` + clause[4:], args
}

func (r *SwapRepository) List(ctx context.Context, filter SwapFilter, limit, offset int) ([]models.SwapRequest, error) {
	clause, args := filter.where()
	query := `SELECT ` + swapColumns + ` FROM swap_requests` + clause +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.querySwaps(ctx, query, args...)
}

func (r *SwapRepository) Count(ctx context.Context, filter SwapFilter) (int, error) {
	clause, args := filter.where()
	row := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM swap_requests`+clause, args...)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// CountByStatus buckets all swaps by status.
func (r *SwapRepository) CountByStatus(ctx context.Context) (map[models.SwapStatus]int, error) {
	const query = `SELECT status, COUNT(*) FROM swap_requests GROUP BY status`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[models.SwapStatus]int)
	for rows.Next() {
		var status models.SwapStatus
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	return counts, rows.Err()
}

// FeedbackStats aggregates ratings attached to completed swaps.
type FeedbackStats struct {
	AvgRating    float64
	TotalRatings int
}

func (r *SwapRepository) FeedbackStats(ctx context.Context, since, until *time.Time) (FeedbackStats, error) {
	query := `
		SELECT COALESCE(AVG(r.rating), 0), COUNT(r.rating)
		FROM swap_requests s,
		LATERAL (
			VALUES ((s.requester_rating->>'rating')::int), ((s.requested_rating->>'rating')::int)
		) AS r(rating)
		WHERE s.status = 'completed' AND r.rating IS NOT NULL
	`
	args := []any{}
	if since != nil && until != nil {
		query += ` AND s.created_at BETWEEN $1 AND $2`
		args = append(args, *since, *until)
	}

	var stats FeedbackStats
	row := r.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&stats.AvgRating, &stats.TotalRatings); err != nil {
		return FeedbackStats{}, err
	}
	return stats, nil
}

func (r *SwapRepository) CreatedSince(ctx context.Context, since time.Time) ([]models.SwapRequest, error) {
	query := `SELECT ` + swapColumns + `
		FROM swap_requests
		WHERE created_at >= $1
		ORDER BY created_at DESC
	`
	return r.querySwaps(ctx, query, since)
}

func (r *SwapRepository) querySwaps(ctx context.Context, query string, args ...any) ([]models.SwapRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var swaps []models.SwapRequest
	for rows.Next() {
		swap, err := scanSwap(rows)
		if err != nil {
			return nil, err
		}
		swaps = append(swaps, swap)
	}
	return swaps, rows.Err()
}

func statusStrings(statuses []models.SwapStatus) []string {
	out := make([]string, len(statuses))
	for i, s := range statuses {
		out[i] = string(s)
	}
	return out
}
