// File: internal/usecase/quiz_uc.go
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
	"telegram-status-bot/internal/infra/metrics"
)

// answerRe finds the expected-answer letter the prompt template asks the
// generator to append. Accepts Latin and Cyrillic option letters and digits.
var answerRe = regexp.MustCompile(`(?i)(?:правильный ответ|correct answer)\s*[:\-]?\s*([A-DА-Г1-4])`)

// QuizUseCase is the lighter-weight sibling of the status dialogue: a
// two-state instance of the same FSM shape. A topic choice generates one
// question through the text-generation port; the stored answer letter grades
// the user's reply. Failure to extract an answer is a generation failure and
// never advances the session.
type QuizUseCase struct {
	sessions  repository.SessionRepository
	gen       adapter.TextGenAdapter
	messenger adapter.MessengerAdapter
	locks     Locker
	tr        *i18n.Translator
	topics    []string
	log       *zerolog.Logger
}

func NewQuizUseCase(
	sessions repository.SessionRepository,
	gen adapter.TextGenAdapter,
	messenger adapter.MessengerAdapter,
	locks Locker,
	tr *i18n.Translator,
	topics []string,
	logger *zerolog.Logger,
) *QuizUseCase {
	return &QuizUseCase{
		sessions:  sessions,
		gen:       gen,
		messenger: messenger,
		locks:     locks,
		tr:        tr,
		topics:    topics,
		log:       logger,
	}
}

// HandleEvent processes one inbound event. The per-chat lock is held across
// the generation call: the session write depends on its output, and only
// events for the same chat wait behind it.
func (u *QuizUseCase) HandleEvent(ctx context.Context, ev model.InboundEvent) error {
	unlock, err := u.locks.Lock(ctx, ev.ChatID)
	if err != nil {
		return err
	}
	defer unlock()

	sess, err := u.sessions.Get(ctx, ev.ChatID)
	if err != nil {
		return err
	}

	if ev.Kind == model.EventText && strings.TrimSpace(ev.Text) == "/start" {
		if err := u.sessions.Delete(ctx, ev.ChatID); err != nil {
			return err
		}
		return u.messenger.Send(ctx, ev.ChatID, model.OutboundReply{
			Text:     u.tr.T("quiz.greeting"),
			Keyboard: u.topicKeyboard(),
		})
	}

	switch {
	case sess.Step == model.StepNone && ev.Kind == model.EventText && u.isTopic(ev.Text):
		return u.generateQuestion(ctx, ev.ChatID, strings.TrimSpace(ev.Text))
	case sess.Step == model.StepAwaitingAnswer && ev.Kind == model.EventText:
		return u.gradeAnswer(ctx, ev.ChatID, sess, ev.Text)
	default:
		return u.messenger.Send(ctx, ev.ChatID, model.OutboundReply{Text: u.tr.T("fallback")})
	}
}

func (u *QuizUseCase) generateQuestion(ctx context.Context, chatID int64, topic string) error {
	out, err := u.gen.Complete(ctx, u.tr.T("quiz.prompt", topic))
	if err != nil {
		metrics.IncQuizGeneration(false)
		u.log.Error().Err(err).Int64("chat_id", chatID).Str("topic", topic).Msg("question generation failed")
		key := "quiz.gen_failed"
		if errors.Is(err, domain.ErrEmptyCompletion) {
			key = "quiz.gen_empty"
		}
		return u.messenger.Send(ctx, chatID, model.OutboundReply{Text: u.tr.T(key)})
	}

	m := answerRe.FindStringSubmatch(out)
	if m == nil {
		metrics.IncQuizGeneration(false)
		u.log.Warn().Int64("chat_id", chatID).Str("topic", topic).Msg("no answer letter in generated text")
		return u.messenger.Send(ctx, chatID, model.OutboundReply{Text: u.tr.T("quiz.gen_failed")})
	}
	answer := strings.ToUpper(m[1])
	question := strings.TrimSpace(answerRe.ReplaceAllString(out, ""))

	next := &model.Session{
		Step:       model.StepAwaitingAnswer,
		QuizTopic:  topic,
		QuizAnswer: answer,
	}
	if err := u.sessions.Put(ctx, chatID, next); err != nil {
		return err
	}
	metrics.IncQuizGeneration(true)

	return u.messenger.Send(ctx, chatID, model.OutboundReply{
		Text:           u.tr.T("quiz.question", topic, question) + "\n\n" + u.tr.T("quiz.answer_hint"),
		RemoveKeyboard: true,
	})
}

func (u *QuizUseCase) gradeAnswer(ctx context.Context, chatID int64, sess *model.Session, text string) error {
	if err := u.sessions.Delete(ctx, chatID); err != nil {
		return err
	}
	guess := strings.ToUpper(strings.TrimSpace(text))
	reply := u.tr.T("quiz.wrong", sess.QuizAnswer)
	if guess == sess.QuizAnswer {
		reply = u.tr.T("quiz.correct")
	}
	return u.messenger.Send(ctx, chatID, model.OutboundReply{
		Text:     reply,
		Keyboard: u.topicKeyboard(),
	})
}

func (u *QuizUseCase) isTopic(text string) bool {
	text = strings.TrimSpace(text)
	for _, t := range u.topics {
		if t == text {
			return true
		}
	}
	return false
}

// topicKeyboard lays topics out two per row.
func (u *QuizUseCase) topicKeyboard() [][]string {
	var rows [][]string
	for i := 0; i < len(u.topics); i += 2 {
		end := i + 2
		if end > len(u.topics) {
			end = len(u.topics)
		}
		rows = append(rows, u.topics[i:end])
	}
	return rows
}
