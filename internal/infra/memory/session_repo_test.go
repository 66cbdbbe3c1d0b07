package memory

import (
	"context"
	"testing"

	"telegram-status-bot/internal/domain/model"
)

func TestSessionRepoRoundTrip(t *testing.T) {
	repo := NewSessionRepo()
	ctx := context.Background()

	// Absent chat yields an empty session, not an error.
	sess, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get absent: %v", err)
	}
	if !sess.Empty() {
		t.Fatalf("absent session = %+v, want empty", sess)
	}

	put := &model.Session{Step: model.StepAwaitingEmail, ApplicationNumber: "UZB-1/25"}
	if err := repo.Put(ctx, 1, put); err != nil {
		t.Fatalf("put: %v", err)
	}
	got, err := repo.Get(ctx, 1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Step != model.StepAwaitingEmail || got.ApplicationNumber != "UZB-1/25" {
		t.Fatalf("got %+v", got)
	}

	// Mutating the returned session must not touch the stored copy.
	got.ApplicationNumber = "changed"
	again, _ := repo.Get(ctx, 1)
	if again.ApplicationNumber != "UZB-1/25" {
		t.Fatal("repo returned a shared session value")
	}

	if err := repo.Delete(ctx, 1); err != nil {
		t.Fatalf("delete: %v", err)
	}
	sess, _ = repo.Get(ctx, 1)
	if !sess.Empty() {
		t.Fatal("session survived delete")
	}

	// Deleting again is a no-op.
	if err := repo.Delete(ctx, 1); err != nil {
		t.Fatalf("second delete: %v", err)
	}
}

func TestSessionRepoIsolatesChats(t *testing.T) {
	repo := NewSessionRepo()
	ctx := context.Background()

	if err := repo.Put(ctx, 1, &model.Session{Step: model.StepAwaitingNumber}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Put(ctx, 2, &model.Session{Step: model.StepAwaitingAnswer}); err != nil {
		t.Fatal(err)
	}
	if err := repo.Delete(ctx, 1); err != nil {
		t.Fatal(err)
	}

	sess, _ := repo.Get(ctx, 2)
	if sess.Step != model.StepAwaitingAnswer {
		t.Fatalf("chat 2 session = %+v", sess)
	}
}
