package queue

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/authapp/portal/internal/core/domain"
)

type recordingRepo struct {
	mu     sync.Mutex
	events []domain.AuditEvent
	err    error
}

func (r *recordingRepo) InsertEvent(_ context.Context, ev domain.AuditEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return r.err
}

func TestDispatcher_PreservesPerSessionOrder(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(3, repo, zerolog.Nop())
	ctx, cancel := context.WithCancel(context.Background())

	actions := []domain.AuditAction{domain.AuditLogin, domain.AuditProfileUpdate, domain.AuditRoleChange, domain.AuditLogout}
	for _, a := range actions {
		d.Record(domain.AuditEvent{SessionID: "s1", Action: a})
	}

	d.Start(ctx)
	cancel()
	d.Wait()

	if len(repo.events) != len(actions) {
		t.Fatalf("expected %d events, got %d", len(actions), len(repo.events))
	}
	for i, ev := range repo.events {
		if ev.Action != actions[i] {
			t.Fatalf("event %d: expected %s, got %s", i, actions[i], ev.Action)
		}
	}
}

func TestDispatcher_ShardIndexIsStable(t *testing.T) {
	d := NewDispatcher(8, &recordingRepo{}, zerolog.Nop())
	for _, id := range []string{"a", "b", "8d7c0d1e-3f9a-4c1b-9d2e-6b5a4f3e2d1c"} {
		first := d.shardIndex(id)
		if first < 0 || first >= 8 {
			t.Fatalf("index out of range: %d", first)
		}
		if d.shardIndex(id) != first {
			t.Fatalf("shard index changed for %s", id)
		}
	}
}

func TestDispatcher_DropsWhenFull(t *testing.T) {
	repo := &recordingRepo{}
	d := NewDispatcher(1, repo, zerolog.Nop())

	for i := 0; i < channelBuffer+10; i++ {
		d.Record(domain.AuditEvent{SessionID: "s1", Action: domain.AuditLogin})
	}

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()
	d.Wait()

	if len(repo.events) != channelBuffer {
		t.Fatalf("expected %d stored events, got %d", channelBuffer, len(repo.events))
	}
}

func TestDispatcher_StoreErrorsDoNotStopWorker(t *testing.T) {
	repo := &recordingRepo{err: errors.New("boom")}
	d := NewDispatcher(1, repo, zerolog.Nop())

	d.Record(domain.AuditEvent{SessionID: "s1", Action: domain.AuditLogin})
	d.Record(domain.AuditEvent{SessionID: "s1", Action: domain.AuditLogout})

	ctx, cancel := context.WithCancel(context.Background())
	d.Start(ctx)
	cancel()
	d.Wait()

	if len(repo.events) != 2 {
		t.Fatalf("expected both events attempted, got %d", len(repo.events))
	}
}
