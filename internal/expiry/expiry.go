// Package expiry retires time-expired messages and statuses on fixed
// periods for the lifetime of the process.
package expiry

import (
	"context"
	"log"
	"time"

	"github.com/Newbhjj2222/Litechat/internal/observability"
	"github.com/Newbhjj2222/Litechat/internal/repositories"
)

// Scheduler runs two independent recurring sweeps: message retirement
// (soft delete) and status retirement (hard delete). Each sweep scans the
// full entity set; the authoritative store is assumed small enough that a
// time index is not worth its complexity here.
type Scheduler struct {
	messages repositories.MessageRepository
	statuses repositories.StatusRepository

	messagePeriod time.Duration
	statusPeriod  time.Duration
	messageMaxAge time.Duration
}

// NewScheduler constructs a Scheduler.
func NewScheduler(messages repositories.MessageRepository, statuses repositories.StatusRepository, messagePeriod, statusPeriod, messageMaxAge time.Duration) *Scheduler {
	return &Scheduler{
		messages:      messages,
		statuses:      statuses,
		messagePeriod: messagePeriod,
		statusPeriod:  statusPeriod,
		messageMaxAge: messageMaxAge,
	}
}

// Start launches both sweep loops and returns a cancel func that stops them.
// The two tasks do not coordinate; the process is the single authority over
// the store.
func (s *Scheduler) Start(ctx context.Context) context.CancelFunc {
	ctx, cancel := context.WithCancel(ctx)
	go s.runLoop(ctx, "messages", s.messagePeriod, s.SweepMessages)
	go s.runLoop(ctx, "statuses", s.statusPeriod, s.SweepStatuses)
	log.Printf("expiry scheduler started message_period=%s status_period=%s", s.messagePeriod, s.statusPeriod)
	return cancel
}

func (s *Scheduler) runLoop(ctx context.Context, task string, period time.Duration, sweep func(context.Context, time.Time)) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Printf("expiry %s sweep stopping", task)
			return
		case now := <-ticker.C:
			sweep(ctx, now)
		}
	}
}

// SweepMessages soft-deletes every message older than the retention window
// that is not already deleted. A failure on one message is logged and the
// scan continues.
func (s *Scheduler) SweepMessages(ctx context.Context, now time.Time) {
	cutoff := now.Add(-s.messageMaxAge)

	msgs, err := s.messages.ListAllMessages(ctx)
	if err != nil {
		log.Printf("message sweep scan failed: %v", err)
		return
	}

	retired := 0
	for _, msg := range msgs {
		if msg.Deleted || !msg.CreatedAt.Before(cutoff) {
			continue
		}
		if err := s.messages.SoftDeleteMessage(ctx, msg.ID); err != nil {
			log.Printf("message sweep: soft delete failed id=%d: %v", msg.ID, err)
			continue
		}
		retired++
	}

	observability.IncExpirySweep("messages")
	observability.AddExpiredEntities("messages", retired)
	if retired > 0 {
		log.Printf("message sweep retired %d messages older than %s", retired, s.messageMaxAge)
	}
}

// SweepStatuses hard-deletes every status whose expiry timestamp is strictly
// in the past. A failure on one status is logged and the scan continues.
func (s *Scheduler) SweepStatuses(ctx context.Context, now time.Time) {
	statuses, err := s.statuses.ListAllStatuses(ctx)
	if err != nil {
		log.Printf("status sweep scan failed: %v", err)
		return
	}

	retired := 0
	for _, status := range statuses {
		if !status.ExpiresAt.Before(now) {
			continue
		}
		if err := s.statuses.DeleteStatus(ctx, status.ID); err != nil {
			log.Printf("status sweep: delete failed id=%d: %v", status.ID, err)
			continue
		}
		retired++
	}

	observability.IncExpirySweep("statuses")
	observability.AddExpiredEntities("statuses", retired)
	if retired > 0 {
		log.Printf("status sweep retired %d expired statuses", retired)
	}
}
