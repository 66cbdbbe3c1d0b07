package model

// Step identifies where a chat is in a multi-step flow.
type Step string

const (
	// StepNone means no dialogue is in progress.
	StepNone           Step = ""
	StepAwaitingNumber Step = "awaiting_number"
	StepAwaitingEmail  Step = "awaiting_email"
	StepAwaitingAnswer Step = "awaiting_quiz_answer"
)

// Session holds one chat's progress through a multi-step flow.
// Invariant: Email is only ever set after ApplicationNumber is set.
// Sessions are ephemeral; they are deleted as soon as a flow produces
// a terminal result.
type Session struct {
	Step              Step   `json:"step"`
	ApplicationNumber string `json:"application_number,omitempty"`
	Email             string `json:"email,omitempty"`
	QuizTopic         string `json:"quiz_topic,omitempty"`
	QuizAnswer        string `json:"quiz_answer,omitempty"`
}

// Empty reports whether the session carries no dialogue progress.
func (s *Session) Empty() bool {
	return s.Step == StepNone && s.ApplicationNumber == "" && s.Email == "" &&
		s.QuizTopic == "" && s.QuizAnswer == ""
}
