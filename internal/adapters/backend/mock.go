package backend

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mindwell/supportchat/internal/domain"
)

// Mock is a canned backend for local development and adapter tests: it
// acknowledges every turn, and closes the session with a small summary when
// asked to finish.
type Mock struct{}

func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) StartSession(ctx context.Context, req domain.StartRequest) (*domain.StartResponse, error) {
	return &domain.StartResponse{
		Success:        true,
		SessionID:      uuid.NewString(),
		InitialMessage: "Hi, I'm here to listen. How are you feeling today?",
	}, nil
}

func (m *Mock) Exchange(ctx context.Context, req domain.ExchangeRequest) (*domain.ExchangeResponse, error) {
	if req.Finished {
		return &domain.ExchangeResponse{
			Success:         true,
			AssistantReply:  "Thanks for checking in today. Take care of yourself.",
			SessionFinished: true,
			DecisionType:    "user_ended",
			Summary:         "### Session Summary\n**Mood**\nYou checked in briefly today.",
		}, nil
	}

	resp := &domain.ExchangeResponse{
		Success:        true,
		AssistantReply: fmt.Sprintf("I hear you. You said %q. Tell me a bit more about how that feels.", req.Message),
		Risk:           domain.RiskLow,
	}
	if req.FacialEmotion != nil {
		resp.FacialEmotion = req.FacialEmotion
		resp.AssistantReply = fmt.Sprintf("You look %s. %s", req.FacialEmotion.Emotion, resp.AssistantReply)
	}
	return resp, nil
}
