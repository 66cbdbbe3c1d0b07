package web

import (
	"context"
	"sync"

	"telegram-status-bot/internal/domain/model"
)

type fakeFlow struct {
	mu     sync.Mutex
	events []model.InboundEvent
	err    error
}

func (f *fakeFlow) HandleEvent(ctx context.Context, ev model.InboundEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

func (f *fakeFlow) got() []model.InboundEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.InboundEvent, len(f.events))
	copy(out, f.events)
	return out
}

type fakeMessenger struct {
	mu       sync.Mutex
	answered []string
}

func (f *fakeMessenger) Send(ctx context.Context, chatID int64, reply model.OutboundReply) error {
	return nil
}

func (f *fakeMessenger) AnswerCallback(ctx context.Context, callbackID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answered = append(f.answered, callbackID)
	return nil
}

func (f *fakeMessenger) answeredIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.answered))
	copy(out, f.answered)
	return out
}
