package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"skillswap/api/internal/ids"
	"skillswap/api/internal/models"
	"skillswap/api/internal/repository"
)

const (
	dashboardCacheKey = "admin:dashboard"
	dashboardCacheTTL = 60 * time.Second

	activeMessagesCacheKey = "messages:active"
	activeMessagesCacheTTL = 30 * time.Second

	maxTitleLen       = 200
	maxMessageBodyLen = 2000
)

// AdminService is the elevated-privilege moderation surface: user and swap
// oversight, bans with their cascade, and platform broadcasts.
type AdminService struct {
	users    *repository.UserRepository
	swaps    *repository.SwapRepository
	messages *repository.MessageRepository
	cache    *redis.Client
	log      zerolog.Logger
}

func NewAdminService(
	users *repository.UserRepository,
	swaps *repository.SwapRepository,
	messages *repository.MessageRepository,
	cache *redis.Client,
	log zerolog.Logger,
) *AdminService {
	return &AdminService{
		users:    users,
		swaps:    swaps,
		messages: messages,
		cache:    cache,
		log:      log,
	}
}

type DashboardStats struct {
	TotalUsers     int `json:"totalUsers"`
	BannedUsers    int `json:"bannedUsers"`
	TotalSwaps     int `json:"totalSwaps"`
	PendingSwaps   int `json:"pendingSwaps"`
	CompletedSwaps int `json:"completedSwaps"`
	ReportedSwaps  int `json:"reportedSwaps"`
}

type Dashboard struct {
	Stats       DashboardStats       `json:"stats"`
	RecentSwaps []models.SwapRequest `json:"recentSwaps"`
}

func (s *AdminService) Dashboard(ctx context.Context) (Dashboard, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, dashboardCacheKey).Bytes(); err == nil {
			var dashboard Dashboard
			if err := json.Unmarshal(cached, &dashboard); err == nil {
				return dashboard, nil
			}
		}
	}

	totalUsers, err := s.users.Count(ctx, repository.UserFilter{})
	if err != nil {
		return Dashboard{}, err
	}
	bannedUsers, err := s.users.CountBanned(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	byStatus, err := s.swaps.CountByStatus(ctx)
	if err != nil {
		return Dashboard{}, err
	}
	reported, err := s.swaps.Count(ctx, repository.SwapFilter{Reported: true})
	if err != nil {
		return Dashboard{}, err
	}
	recent, err := s.swaps.List(ctx, repository.SwapFilter{}, 10, 0)
	if err != nil {
		return Dashboard{}, err
	}

	total := 0
	for _, count := range byStatus {
		total += count
	}

	dashboard := Dashboard{
		Stats: DashboardStats{
			TotalUsers:     totalUsers,
			BannedUsers:    bannedUsers,
			TotalSwaps:     total,
			PendingSwaps:   byStatus[models.SwapStatusPending],
			CompletedSwaps: byStatus[models.SwapStatusCompleted],
			ReportedSwaps:  reported,
		},
		RecentSwaps: recent,
	}

	if s.cache != nil {
		if payload, err := json.Marshal(dashboard); err == nil {
			if err := s.cache.Set(ctx, dashboardCacheKey, payload, dashboardCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("dashboard cache write failed")
			}
		}
	}

	return dashboard, nil
}

func (s *AdminService) ListUsers(ctx context.Context, filter repository.UserFilter, limit, offset int) ([]models.User, int, error) {
	users, err := s.users.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.users.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// SetBanned bans or unbans a user. Admins can never be banned. Banning
// force-cancels every pending swap the user is party to; unbanning does
// not resurrect them.
func (s *AdminService) SetBanned(ctx context.Context, userID string, banned bool) (models.User, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return models.User{}, err
	}
	if user.Role == models.UserRoleAdmin {
		return models.User{}, ErrCannotBanAdmin
	}

	if err := s.users.SetBanned(ctx, userID, banned); err != nil {
		return models.User{}, err
	}

	if banned {
		cancelled, err := s.swaps.CancelAllPending(ctx, userID)
		if err != nil {
			// The ban itself stuck; surface the half-applied cascade.
			s.log.Error().Err(err).Str("user_id", userID).Msg("pending swap cascade failed after ban")
			return models.User{}, fmt.Errorf("%w: %v", ErrInconsistency, err)
		}
		s.log.Info().
			Str("user_id", userID).
			Int64("cancelled_swaps", cancelled).
			Msg("user banned")
	} else {
		s.log.Info().Str("user_id", userID).Msg("user unbanned")
	}

	return s.users.GetByID(ctx, userID)
}

// ModerateSkills lets an admin rewrite a user's skill lists, e.g. to strip
// offensive descriptions.
func (s *AdminService) ModerateSkills(ctx context.Context, userID string, offered []models.SkillOffered, wanted []models.SkillWanted) (models.User, error) {
	if err := s.users.UpdateSkills(ctx, userID, offered, wanted); err != nil {
		return models.User{}, err
	}
	return s.users.GetByID(ctx, userID)
}

func (s *AdminService) ListSwaps(ctx context.Context, filter repository.SwapFilter, limit, offset int) ([]models.SwapRequest, int, error) {
	swaps, err := s.swaps.List(ctx, filter, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.swaps.Count(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return swaps, total, nil
}

type CreateMessageInput struct {
	Title     string
	Body      string
	Type      models.MessageType
	Priority  models.MessagePriority
	ExpiresAt *time.Time
}

func (s *AdminService) CreateMessage(ctx context.Context, adminID string, input CreateMessageInput) (models.AdminMessage, error) {
	if input.Title == "" || input.Body == "" {
		return models.AdminMessage{}, fmt.Errorf("%w: title and message are required", ErrValidation)
	}
	if len(input.Title) > maxTitleLen {
		return models.AdminMessage{}, fmt.Errorf("%w: title exceeds %d characters", ErrValidation, maxTitleLen)
	}
	if len(input.Body) > maxMessageBodyLen {
		return models.AdminMessage{}, fmt.Errorf("%w: message exceeds %d characters", ErrValidation, maxMessageBodyLen)
	}
	if input.Type == "" {
		input.Type = models.MessageTypeAnnouncement
	}
	if input.Priority == "" {
		input.Priority = models.MessagePriorityMedium
	}

	msg := models.AdminMessage{
		ID:        ids.New(),
		Title:     input.Title,
		Body:      input.Body,
		Type:      input.Type,
		Priority:  input.Priority,
		IsActive:  true,
		ExpiresAt: input.ExpiresAt,
		SentByID:  adminID,
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return models.AdminMessage{}, err
	}
	s.invalidateMessageCache(ctx)

	return s.messages.GetByID(ctx, msg.ID)
}

func (s *AdminService) ListMessages(ctx context.Context, activeOnly bool, limit, offset int) ([]models.AdminMessage, int, error) {
	messages, err := s.messages.List(ctx, activeOnly, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.messages.Count(ctx, activeOnly)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

func (s *AdminService) SetMessageActive(ctx context.Context, id string, active bool) (models.AdminMessage, error) {
	if err := s.messages.SetActive(ctx, id, active); err != nil {
		return models.AdminMessage{}, err
	}
	s.invalidateMessageCache(ctx)
	return s.messages.GetByID(ctx, id)
}

// ActiveMessages is the member-facing broadcast feed, cached briefly since
// every dashboard load hits it.
func (s *AdminService) ActiveMessages(ctx context.Context, limit, offset int) ([]models.AdminMessage, error) {
	key := fmt.Sprintf("%s:%d:%d", activeMessagesCacheKey, limit, offset)
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var messages []models.AdminMessage
			if err := json.Unmarshal(cached, &messages); err == nil {
				return messages, nil
			}
		}
	}

	messages, err := s.messages.ListActive(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(messages); err == nil {
			if err := s.cache.Set(ctx, key, payload, activeMessagesCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("active messages cache write failed")
			}
		}
	}

	return messages, nil
}

func (s *AdminService) MarkMessageRead(ctx context.Context, messageID string, userID string) error {
	return s.messages.MarkRead(ctx, messageID, models.ReadReceipt{
		UserID: userID,
		ReadAt: time.Now().UTC(),
	})
}

func (s *AdminService) invalidateMessageCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, activeMessagesCacheKey+":*", 100).Iterator()
	for iter.Next(ctx) {
		if err := s.cache.Del(ctx, iter.Val()).Err(); err != nil {
			s.log.Warn().Err(err).Msg("message cache invalidation failed")
			return
		}
	}
	if err := iter.Err(); err != nil && !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Msg("message cache scan failed")
	}
}

type Report struct {
	UserStats     *repository.MemberStats   `json:"userStats,omitempty"`
	SwapStats     map[string]int            `json:"swapStats,omitempty"`
	FeedbackStats *repository.FeedbackStats `json:"feedbackStats,omitempty"`
}

// BuildReport aggregates platform activity, optionally within a date range.
// An empty kind includes every section.
func (s *AdminService) BuildReport(ctx context.Context, kind string, since, until *time.Time) (Report, error) {
	switch kind {
	case "", "users", "swaps", "feedback":
	default:
		return Report{}, fmt.Errorf("%w: unknown report type %q", ErrValidation, kind)
	}

	var report Report

	if kind == "users" || kind == "" {
		stats, err := s.users.Stats(ctx, since, until)
		if err != nil {
			return Report{}, err
		}
		report.UserStats = &stats
	}

	if kind == "swaps" || kind == "" {
		byStatus, err := s.swaps.CountByStatus(ctx)
		if err != nil {
			return Report{}, err
		}
		stats := make(map[string]int, len(byStatus))
		for status, count := range byStatus {
			stats[string(status)] = count
		}
		report.SwapStats = stats
	}

	if kind == "feedback" || kind == "" {
		stats, err := s.swaps.FeedbackStats(ctx, since, until)
		if err != nil {
			return Report{}, err
		}
		report.FeedbackStats = &stats
	}

	return report, nil
}
