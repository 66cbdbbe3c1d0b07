// File: internal/usecase/dialog_uc.go
package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/rs/zerolog"

	"telegram-status-bot/internal/domain"
	"telegram-status-bot/internal/domain/model"
	"telegram-status-bot/internal/domain/ports/adapter"
	"telegram-status-bot/internal/domain/ports/repository"
	"telegram-status-bot/internal/i18n"
	"telegram-status-bot/internal/infra/logging"
)

// CallbackCheckStatus is the callback data of the "check status" button.
const CallbackCheckStatus = "check"

var (
	// Reference numbers look like UZB-10838/25: a short upper-case prefix,
	// a serial and a two-digit year.
	numberRe = regexp.MustCompile(`^[A-Z]{2,4}-\d{1,7}/\d{2}$`)
	emailRe  = regexp.MustCompile(`^\S+@\S+\.\S+$`)
)

// DialogUseCase drives the status-check dialogue as an explicit state
// machine over (step, event kind) pairs. Validation happens before a state
// advances, so malformed input never consumes a transition. The terminal
// step deletes the session exactly once, whatever the lookup outcome.
type DialogUseCase struct {
	sessions  repository.SessionRepository
	resolver  adapter.StatusResolver
	messenger adapter.MessengerAdapter
	locks     Locker
	tr        *i18n.Translator
	log       *zerolog.Logger
}

func NewDialogUseCase(
	sessions repository.SessionRepository,
	resolver adapter.StatusResolver,
	messenger adapter.MessengerAdapter,
	locks Locker,
	tr *i18n.Translator,
	logger *zerolog.Logger,
) *DialogUseCase {
	return &DialogUseCase{
		sessions:  sessions,
		resolver:  resolver,
		messenger: messenger,
		locks:     locks,
		tr:        tr,
		log:       logger,
	}
}

type lookupRequest struct {
	number string
	email  string
}

// decision is the outcome of the pure transition function: the session to
// persist (nil means delete), the replies to send in order, and an optional
// status lookup to run after the critical section.
type decision struct {
	next    *model.Session
	replies []model.OutboundReply
	lookup  *lookupRequest
}

type transitionKey struct {
	step model.Step
	kind model.EventKind
}

type transitionFunc func(sess model.Session, ev model.InboundEvent) decision

func (u *DialogUseCase) transitions() map[transitionKey]transitionFunc {
	return map[transitionKey]transitionFunc{
		{model.StepNone, model.EventButton}:         u.onButton,
		{model.StepAwaitingNumber, model.EventText}: u.onNumber,
		{model.StepAwaitingEmail, model.EventText}:  u.onEmail,
	}
}

// decide maps one (session, event) pair to a decision. It performs no I/O.
func (u *DialogUseCase) decide(sess model.Session, ev model.InboundEvent) decision {
	if ev.Kind == model.EventText && strings.TrimSpace(ev.Text) == "/start" {
		return u.onStart()
	}
	if fn, ok := u.transitions()[transitionKey{sess.Step, ev.Kind}]; ok {
		return fn(sess, ev)
	}
	return u.fallback(sess)
}

// onStart resets the dialogue from any step and shows the check button.
func (u *DialogUseCase) onStart() decision {
	return decision{
		next: nil, // clear any in-flight dialogue
		replies: []model.OutboundReply{{
			Text: u.tr.T("start.greeting"),
			Inline: [][]model.InlineButton{
				{{Text: u.tr.T("start.check_button"), Data: CallbackCheckStatus}},
			},
		}},
	}
}

func (u *DialogUseCase) onButton(sess model.Session, ev model.InboundEvent) decision {
	if ev.CallbackData != CallbackCheckStatus {
		return u.fallback(sess)
	}
	return decision{
		next:    &model.Session{Step: model.StepAwaitingNumber},
		replies: []model.OutboundReply{{Text: u.tr.T("prompt.number")}},
	}
}

func (u *DialogUseCase) onNumber(sess model.Session, ev model.InboundEvent) decision {
	number := strings.TrimSpace(ev.Text)
	if !numberRe.MatchString(number) {
		// step unchanged, input not stored; the user retries the same step
		return decision{
			next:    &sess,
			replies: []model.OutboundReply{{Text: u.tr.T("prompt.number_invalid")}},
		}
	}
	return decision{
		next:    &model.Session{Step: model.StepAwaitingEmail, ApplicationNumber: number},
		replies: []model.OutboundReply{{Text: u.tr.T("prompt.email")}},
	}
}

func (u *DialogUseCase) onEmail(sess model.Session, ev model.InboundEvent) decision {
	email := strings.TrimSpace(ev.Text)
	if !emailRe.MatchString(email) {
		return decision{
			next:    &sess,
			replies: []model.OutboundReply{{Text: u.tr.T("prompt.email_invalid")}},
		}
	}
	// Terminal step: the session is deleted no matter how the lookup ends,
	// so one lookup attempt is made per collected pair.
	return decision{
		next:    nil,
		replies: []model.OutboundReply{{Text: u.tr.T("status.checking")}},
		lookup:  &lookupRequest{number: sess.ApplicationNumber, email: email},
	}
}

func (u *DialogUseCase) fallback(sess model.Session) decision {
	return decision{
		next:    &sess,
		replies: []model.OutboundReply{{Text: u.tr.T("fallback")}},
	}
}

// HandleEvent processes one inbound event end to end: it serializes the
// session read-modify-write per chat id, then sends the decided replies in
// order. The lock is released before the status lookup runs, so no lock is
// ever held across network I/O.
func (u *DialogUseCase) HandleEvent(ctx context.Context, ev model.InboundEvent) error {
	unlock, err := u.locks.Lock(ctx, ev.ChatID)
	if err != nil {
		return err
	}

	sess, err := u.sessions.Get(ctx, ev.ChatID)
	if err != nil {
		unlock()
		return err
	}
	d := u.decide(*sess, ev)
	// An empty decided session is a delete, not a write: stray messages from
	// chats with no dialogue must not grow the store.
	if d.next == nil || d.next.Empty() {
		err = u.sessions.Delete(ctx, ev.ChatID)
	} else {
		err = u.sessions.Put(ctx, ev.ChatID, d.next)
	}
	unlock()
	if err != nil {
		return err
	}

	if d.lookup != nil {
		// The preceding replies are interim notices; their delivery failure
		// must not abort the lookup.
		for _, reply := range d.replies {
			if err := u.messenger.Send(ctx, ev.ChatID, reply); err != nil {
				u.log.Warn().Err(err).Int64("chat_id", ev.ChatID).Msg("interim reply not delivered")
			}
		}
		return u.completeLookup(ctx, ev.ChatID, d.lookup)
	}

	var last error
	for i, reply := range d.replies {
		if err := u.messenger.Send(ctx, ev.ChatID, reply); err != nil {
			if i < len(d.replies)-1 {
				u.log.Warn().Err(err).Int64("chat_id", ev.ChatID).Msg("reply not delivered")
				continue
			}
			last = err
		}
	}
	return last
}

// completeLookup runs the resolver and sends the final reply. NotFound and
// upstream failures produce textually distinct messages.
func (u *DialogUseCase) completeLookup(ctx context.Context, chatID int64, req *lookupRequest) error {
	res, err := u.resolver.Resolve(ctx, req.number, req.email)

	var text string
	switch {
	case err == nil:
		text = u.renderResult(res)
	case errors.Is(err, domain.ErrStatusNotFound):
		u.log.Info().Int64("chat_id", chatID).
			Str("number", logging.Redact(req.number, false)).
			Msg("application not found")
		text = u.tr.T("status.not_found")
	default:
		u.log.Error().Err(err).Int64("chat_id", chatID).
			Str("number", logging.Redact(req.number, false)).
			Str("email", logging.Redact(req.email, false)).
			Msg("status lookup failed")
		text = u.tr.T("status.upstream_error")
	}
	return u.messenger.Send(ctx, chatID, model.OutboundReply{Text: text})
}

func (u *DialogUseCase) renderResult(res *model.StatusResult) string {
	name := res.FullName
	if name == "" {
		name = u.tr.T("status.field_unknown")
	}
	statusText := res.StatusText
	if statusText == "" {
		statusText = u.tr.T("status.field_unknown")
	}
	return u.tr.T("status.result", name, statusText)
}
