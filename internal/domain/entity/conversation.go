package entity

type FinalAnswer struct {
	TaskID      string `json:"task_id"`
	AgentAnswer string `json:"agent_answer"`
}

// ConversationState is the mutable state of one agent run. Messages only
// grow and FinalAnswer is set at most once.
type ConversationState struct {
	Question    Question
	FinalAnswer *FinalAnswer
	Messages    []Message
}

func NewConversationState(q Question, messages ...Message) *ConversationState {
	return &ConversationState{
		Question: q,
		Messages: append([]Message(nil), messages...),
	}
}

func (s *ConversationState) Append(messages ...Message) {
	s.Messages = append(s.Messages, messages...)
}

func (s *ConversationState) Answered() bool {
	return s.FinalAnswer != nil
}

// SetFinalAnswer records the answer once and reports whether it was accepted.
func (s *ConversationState) SetFinalAnswer(a FinalAnswer) bool {
	if s.FinalAnswer != nil {
		return false
	}
	s.FinalAnswer = &a
	return true
}
