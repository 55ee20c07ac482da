package push

import (
	"testing"
	"time"

	"github.com/hyejinmo/pixelo/internal/database"
	"github.com/hyejinmo/pixelo/internal/store"
)

func setupSchedulerTest(t *testing.T) *Scheduler {
	t.Helper()
	db, err := database.Open(":memory:")
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	svc := NewService("pub", "priv", "mailto:test@example.com")
	return NewScheduler(svc, store.NewPushStore(db), store.NewQuestionStore(db), store.NewSeasonStore(db), 20)
}

func TestSchedulerTickOutsideReminderHour(t *testing.T) {
	s := setupSchedulerTest(t)

	at := time.Date(2026, 8, 29, 9, 0, 0, 0, time.Local)
	s.tick(at)

	if s.lastSent != "" {
		t.Errorf("lastSent = %q, want empty", s.lastSent)
	}
}

func TestSchedulerTickOncePerDay(t *testing.T) {
	s := setupSchedulerTest(t)

	at := time.Date(2026, 8, 29, 20, 0, 0, 0, time.Local)
	s.tick(at)
	if s.lastSent != "2026-08-29" {
		t.Fatalf("lastSent = %q, want 2026-08-29", s.lastSent)
	}

	// a second tick in the same hour is a no-op
	s.tick(at.Add(time.Minute))
	if s.lastSent != "2026-08-29" {
		t.Errorf("lastSent = %q after second tick", s.lastSent)
	}

	// next day fires again
	s.tick(at.Add(24 * time.Hour))
	if s.lastSent != "2026-08-30" {
		t.Errorf("lastSent = %q, want 2026-08-30", s.lastSent)
	}
}
