package chatsession

import (
	"strings"
	"time"

	"github.com/mindwell/supportchat/internal/domain"
)

// exitTokens end a session when typed into the message box. Matching is
// exact after trim+lowercase; substrings never trigger.
var exitTokens = map[string]struct{}{
	"exit":  {},
	"/exit": {},
	"quit":  {},
	"/quit": {},
	"end":   {},
	"/end":  {},
}

// IsExitCommand reports whether the text is one of the recognized exit tokens.
func IsExitCommand(text string) bool {
	_, ok := exitTokens[strings.ToLower(strings.TrimSpace(text))]
	return ok
}

// BuildExchangeRequest composes one outgoing turn. A buffered facial-emotion
// sample must already have been taken from its buffer; passing it here is
// what consumes the detection.
func BuildExchangeRequest(sessionID domain.SessionID, text string, sample *domain.FacialEmotionSample) domain.ExchangeRequest {
	return domain.ExchangeRequest{
		SessionID:     string(sessionID),
		Message:       text,
		Finished:      IsExitCommand(text),
		FacialEmotion: sample,
	}
}

// NewAssistantMessage converts a backend reply into a transcript message.
// Optional fields absent on the wire get display defaults: risk falls back to
// low, recommendations to an empty list. The full recommendation list is kept
// here; truncation for display happens in the recommend package.
func NewAssistantMessage(id domain.MessageID, resp *domain.ExchangeResponse, at time.Time) *domain.Message {
	risk := resp.Risk
	if risk == "" {
		risk = domain.RiskLow
	}

	recs := resp.Recommendations
	if recs == nil {
		recs = []domain.Recommendation{}
	}

	return &domain.Message{
		ID:              id,
		Role:            domain.RoleAssistant,
		Text:            resp.AssistantReply,
		CreatedAt:       at,
		Risk:            risk,
		TextEmotion:     resp.Emotion,
		FacialEmotion:   resp.FacialEmotion,
		Recommendations: recs,
	}
}
