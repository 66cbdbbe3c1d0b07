package usecase

import (
	"context"
	"sync"
	"testing"

	"telegram-status-bot/internal/domain/model"
	"telegram-status-bot/internal/domain/ports/repository"
	"telegram-status-bot/internal/i18n"

	"github.com/rs/zerolog"
)

// ---- Fakes ----

type sentReply struct {
	chatID int64
	reply  model.OutboundReply
}

type fakeMessenger struct {
	mu   sync.Mutex
	sent []sentReply
	err  error // returned by every Send when set
}

func (f *fakeMessenger) Send(ctx context.Context, chatID int64, reply model.OutboundReply) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentReply{chatID: chatID, reply: reply})
	return f.err
}

func (f *fakeMessenger) AnswerCallback(ctx context.Context, callbackID string) error { return nil }

func (f *fakeMessenger) replies() []sentReply {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]sentReply, len(f.sent))
	copy(out, f.sent)
	return out
}

func (f *fakeMessenger) lastText(t *testing.T) string {
	t.Helper()
	rs := f.replies()
	if len(rs) == 0 {
		t.Fatal("no replies sent")
	}
	return rs[len(rs)-1].reply.Text
}

type resolveCall struct {
	number string
	email  string
}

type fakeResolver struct {
	mu     sync.Mutex
	calls  []resolveCall
	result *model.StatusResult
	err    error
}

func (f *fakeResolver) Resolve(ctx context.Context, applicationNumber, email string) (*model.StatusResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, resolveCall{number: applicationNumber, email: email})
	return f.result, f.err
}

func (f *fakeResolver) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// spySessions counts writes so tests can assert the store stays bounded.
type spySessions struct {
	repository.SessionRepository
	mu   sync.Mutex
	puts int
}

func (s *spySessions) Put(ctx context.Context, chatID int64, sess *model.Session) error {
	s.mu.Lock()
	s.puts++
	s.mu.Unlock()
	return s.SessionRepository.Put(ctx, chatID, sess)
}

func (s *spySessions) putCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.puts
}

type fakeGen struct {
	out string
	err error
}

func (f *fakeGen) Complete(ctx context.Context, prompt string) (string, error) {
	return f.out, f.err
}

// ---- Shared helpers ----

func testTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		t.Fatalf("load translator: %v", err)
	}
	return tr
}

func testLogger() *zerolog.Logger {
	l := zerolog.Nop()
	return &l
}
