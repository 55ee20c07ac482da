package push

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hyejinmo/pixelo/internal/store"
)

// Scheduler sends a daily reminder to users who have unanswered questions
// in the active season. Reminders go out once per day at the configured
// local hour.
type Scheduler struct {
	mu        sync.RWMutex
	service   *Service
	push      *store.PushStore
	questions *store.QuestionStore
	seasons   *store.SeasonStore

	reminderHour int
	interval     time.Duration

	sentMu   sync.Mutex
	lastSent string // date of the last reminder sweep, YYYY-MM-DD

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a reminder scheduler. reminderHour is the local
// hour of day (0-23) at which reminders fire.
func NewScheduler(svc *Service, pushStore *store.PushStore, questionStore *store.QuestionStore, seasonStore *store.SeasonStore, reminderHour int) *Scheduler {
	return &Scheduler{
		service:      svc,
		push:         pushStore,
		questions:    questionStore,
		seasons:      seasonStore,
		reminderHour: reminderHour,
		interval:     60 * time.Second,
	}
}

// Start begins the scheduler loop.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})
	s.mu.Unlock()

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.tick(time.Now())
			}
		}
	}()
}

// Stop gracefully stops the scheduler.
func (s *Scheduler) Stop() {
	s.mu.RLock()
	cancel := s.cancel
	done := s.done
	s.mu.RUnlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}

func (s *Scheduler) tick(now time.Time) {
	if now.Hour() != s.reminderHour {
		return
	}

	day := now.Format("2006-01-02")
	s.sentMu.Lock()
	if s.lastSent == day {
		s.sentMu.Unlock()
		return
	}
	s.lastSent = day
	s.sentMu.Unlock()

	s.sendReminders()
}

func (s *Scheduler) sendReminders() {
	season, err := s.seasons.GetActive()
	if err != nil {
		log.Printf("push scheduler: get active season: %v", err)
		return
	}
	if season == nil {
		return
	}

	subs, err := s.push.ListAll()
	if err != nil {
		log.Printf("push scheduler: list subscriptions: %v", err)
		return
	}

	// Pending-question counts are per user; cache them across a user's
	// multiple subscriptions.
	pending := make(map[int64]int)
	for _, sub := range subs {
		n, ok := pending[sub.UserID]
		if !ok {
			unanswered, err := s.questions.ListUnanswered(sub.UserID, season.ID, 0)
			if err != nil {
				log.Printf("push scheduler: list unanswered: %v", err)
				continue
			}
			n = len(unanswered)
			pending[sub.UserID] = n
		}
		if n == 0 {
			continue
		}

		body := fmt.Sprintf("You have %d questions waiting today", n)
		if n == 1 {
			body = "Your daily question is waiting"
		}
		payload := Payload{
			Title: "Daily Question",
			Body:  body,
			URL:   "/",
			Tag:   "daily-reminder",
		}

		if err := s.service.Send(&sub, payload); err != nil {
			if errors.Is(err, ErrExpired) {
				s.push.DeleteByEndpoint(sub.Endpoint)
			} else {
				log.Printf("push scheduler: send reminder: %v", err)
			}
		}
	}
}
