package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"skillswap/api/internal/repository"
)

type Scheduler struct {
	cron     *cron.Cron
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	messages *repository.MessageRepository
	log      zerolog.Logger
}

func NewScheduler(users *repository.UserRepository, sessions *repository.SessionRepository, messages *repository.MessageRepository, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		users:    users,
		sessions: sessions,
		messages: messages,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 */5 * * * *", s.expireMessages); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 */1 * * *", s.purgeSessions); err != nil { // hourly
		return err
	}
	if _, err := s.cron.AddFunc("0 0 0 * * *", s.purgeResetTokens); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop halts scheduling and waits for any running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}

func (s *Scheduler) expireMessages() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.messages.DeactivateExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("deactivate expired messages failed")
		return
	}
	if n > 0 {
		s.log.Info().Int64("count", n).Msg("deactivated expired platform messages")
	}
}

func (s *Scheduler) purgeSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("purge expired sessions failed")
		return
	}
	if n > 0 {
		s.log.Info().Int64("count", n).Msg("purged expired sessions")
	}
}

func (s *Scheduler) purgeResetTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.users.PurgeExpiredResetTokens(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("purge expired reset tokens failed")
		return
	}
	if n > 0 {
		s.log.Info().Int64("count", n).Msg("cleared expired reset tokens")
	}
}
