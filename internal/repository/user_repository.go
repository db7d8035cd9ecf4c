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

var ErrUserNotFound = errors.New("user not found")

const userColumns = `
	id, username, email, password_hash, full_name, location, profile_photo, bio,
	skills_offered, skills_wanted, availability,
	is_profile_public, is_verified, is_banned, role,
	total_rating, rating_count, average_rating,
	reset_token_hash, reset_token_expires, created_at, updated_at
`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.FullName,
		&user.Location,
		&user.ProfilePhoto,
		&user.Bio,
		&user.SkillsOffered,
		&user.SkillsWanted,
		&user.Availability,
		&user.IsProfilePublic,
		&user.IsVerified,
		&user.IsBanned,
		&user.Role,
		&user.TotalRating,
		&user.RatingCount,
		&user.AverageRating,
		&user.ResetTokenHash,
		&user.ResetTokenExpires,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, username, email, password_hash, full_name, location, profile_photo, bio,
			skills_offered, skills_wanted, availability,
			is_profile_public, is_verified, is_banned, role,
			total_rating, rating_count, average_rating, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8,
			$9, $10, $11,
			$12, $13, $14, $15,
			0, 0, 0, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.FullName,
		user.Location,
		user.ProfilePhoto,
		user.Bio,
		user.SkillsOffered,
		user.SkillsWanted,
		user.Availability,
		user.IsProfilePublic,
		user.IsVerified,
		user.IsBanned,
		user.Role,
	)
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

// FindByEmail matches case-insensitively; emails are unique per LOWER(email).
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(email) = LOWER($1)`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE LOWER(username) = LOWER($1)`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *UserRepository) UpdateProfile(ctx context.Context, user models.User) error {
	const query = `
		UPDATE users
		SET full_name = $2,
		    location = $3,
		    profile_photo = $4,
		    bio = $5,
		    availability = $6,
		    is_profile_public = $7,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		user.ID,
		user.FullName,
		user.Location,
		user.ProfilePhoto,
		user.Bio,
		user.Availability,
		user.IsProfilePublic,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) UpdateSkills(ctx context.Context, id string, offered []models.SkillOffered, wanted []models.SkillWanted) error {
	const query = `
		UPDATE users
		SET skills_offered = $2,
		    skills_wanted = $3,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, offered, wanted)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetBanned(ctx context.Context, id string, banned bool) error {
	const query = `
		UPDATE users SET is_banned = $2, updated_at = NOW() WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, banned)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// AddRating applies a rating to the accumulator in one statement so
// concurrent ratings never lose increments. The derived average is
// maintained in the same write.
func (r *UserRepository) AddRating(ctx context.Context, id string, rating int) error {
	const query = `
		UPDATE users
		SET total_rating = total_rating + $2,
		    rating_count = rating_count + 1,
		    average_rating = (total_rating + $2)::double precision / (rating_count + 1),
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, rating)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// SearchPublic lists public, non-banned member profiles, optionally filtered
// by a search term over username and full name.
func (r *UserRepository) SearchPublic(ctx context.Context, search string, limit, offset int) ([]models.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE role = 'user' AND is_profile_public AND NOT is_banned
	`
	args := []any{}
	if search != "" {
		query += ` AND (username ILIKE '%' || $1 || '%' OR full_name ILIKE '%' || $1 || '%')`
		args = append(args, search)
	}
	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	return r.queryUsers(ctx, query, args...)
}

// UserFilter narrows the admin user listing.
type UserFilter struct {
	Search string
	Banned *bool
}

func (f UserFilter) where() (string, []any) {
	clause := ` WHERE role = 'user'`
	args := []any{}
	if f.Search != "" {
		args = append(args, f.Search)
		clause += fmt.Sprintf(` AND (username ILIKE '%%' || $%d || '%%' OR full_name ILIKE '%%' || $%d || '%%' OR email ILIKE '%%' || $%d || '%%')`,
			len(args), len(args), len(args))
	}
	if f.Banned != nil {
		args = append(args, *f.Banned)
		clause += fmt.Sprintf(` AND is_banned = $%d`, len(args))
	}
	return clause, args
}

func (r *UserRepository) List(ctx context.Context, filter UserFilter, limit, offset int) ([]models.User, error) {
	clause, args := filter.where()
	query := `SELECT ` + userColumns + ` FROM users` + clause +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)
	return r.queryUsers(ctx, query, args...)
}

func (r *UserRepository) Count(ctx context.Context, filter UserFilter) (int, error) {
	clause, args := filter.where()
	row := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`+clause, args...)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *UserRepository) CountBanned(ctx context.Context) (int, error) {
	row := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE is_banned`)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// MemberStats aggregates the member population for admin reports.
type MemberStats struct {
	TotalUsers    int
	BannedUsers   int
	VerifiedUsers int
	AvgRating     float64
}

func (r *UserRepository) Stats(ctx context.Context, since, until *time.Time) (MemberStats, error) {
	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_banned),
		       COUNT(*) FILTER (WHERE is_verified),
		       COALESCE(AVG(average_rating), 0)
		FROM users
		WHERE role = 'user'
	`
	args := []any{}
	if since != nil && until != nil {
		query += ` AND created_at BETWEEN $1 AND $2`
		args = append(args, *since, *until)
	}

	var stats MemberStats
	row := r.pool.QueryRow(ctx, query, args...)
	if err := row.Scan(&stats.TotalUsers, &stats.BannedUsers, &stats.VerifiedUsers, &stats.AvgRating); err != nil {
		return MemberStats{}, err
	}
	return stats, nil
}

func (r *UserRepository) CreatedSince(ctx context.Context, since time.Time) ([]models.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE role = 'user' AND created_at >= $1
		ORDER BY created_at DESC
	`
	return r.queryUsers(ctx, query, since)
}

func (r *UserRepository) SetResetToken(ctx context.Context, id string, tokenHash []byte, expires time.Time) error {
	const query = `
		UPDATE users
		SET reset_token_hash = $2, reset_token_expires = $3, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, tokenHash, expires)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) FindByResetToken(ctx context.Context, tokenHash []byte) (models.User, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		WHERE reset_token_hash = $1 AND reset_token_expires > NOW()
	`
	return scanUser(r.pool.QueryRow(ctx, query, tokenHash))
}

// UpdatePassword sets a new credential hash and consumes any reset token.
func (r *UserRepository) UpdatePassword(ctx context.Context, id string, passwordHash []byte) error {
	const query = `
		UPDATE users
		SET password_hash = $2,
		    reset_token_hash = NULL,
		    reset_token_expires = NULL,
		    updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// PurgeExpiredResetTokens clears reset tokens whose window has passed.
func (r *UserRepository) PurgeExpiredResetTokens(ctx context.Context) (int64, error) {
	const query = `
		UPDATE users
		SET reset_token_hash = NULL, reset_token_expires = NULL
		WHERE reset_token_expires IS NOT NULL AND reset_token_expires <= NOW()
	`
	cmd, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

// UserSummary is the slim participant view embedded in swap responses.
type UserSummary struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	FullName      string  `json:"fullName"`
	ProfilePhoto  string  `json:"profilePhoto"`
	AverageRating float64 `json:"averageRating"`
}

func (r *UserRepository) Summaries(ctx context.Context, ids []string) (map[string]UserSummary, error) {
	const query = `
		SELECT id, username, full_name, profile_photo, average_rating
		FROM users WHERE id = ANY($1)
	`
	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make(map[string]UserSummary, len(ids))
	for rows.Next() {
		var s UserSummary
		if err := rows.Scan(&s.ID, &s.Username, &s.FullName, &s.ProfilePhoto, &s.AverageRating); err != nil {
			return nil, err
		}
		summaries[s.ID] = s
	}
	return summaries, rows.Err()
}

func (r *UserRepository) queryUsers(ctx context.Context, query string, args ...any) ([]models.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
