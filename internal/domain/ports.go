package domain

import (
	"context"
	"errors"
)

// Sentinel errors surfaced at the session controller boundary.
var (
	ErrNotIdle         = errors.New("session is not idle")
	ErrNotActive       = errors.New("session is not active")
	ErrNotEnded        = errors.New("session is not ended")
	ErrEmailRequired   = errors.New("email address required when consenting to summary email")
	ErrSessionNotFound = errors.New("session not found")
)

// StartRequest creates a new session on the backend. Email is included only
// when the user consented to an emailed summary.
type StartRequest struct {
	Email        string `json:"email,omitempty"`
	ConsentEmail bool   `json:"consentEmail"`
}

type StartResponse struct {
	Success        bool   `json:"success"`
	SessionID      string `json:"sessionId"`
	InitialMessage string `json:"initialMessage"`
}

// ExchangeRequest is one user turn sent to the backend. FacialEmotion is set
// only when a detection was buffered at send time.
type ExchangeRequest struct {
	SessionID     string               `json:"sessionId"`
	Message       string               `json:"message"`
	Finished      bool                 `json:"finished"`
	FacialEmotion *FacialEmotionSample `json:"facialEmotion,omitempty"`
}

// ExchangeResponse is the backend's heterogeneous reply shape. Every field
// past AssistantReply is optional on the wire; absence means "not present",
// never a decode failure.
type ExchangeResponse struct {
	Success         bool                 `json:"success"`
	AssistantReply  string               `json:"assistantReply"`
	Risk            RiskLevel            `json:"risk,omitempty"`
	Emotion         *EmotionReading      `json:"emotion,omitempty"`
	FacialEmotion   *FacialEmotionSample `json:"facialEmotion,omitempty"`
	Recommendations []Recommendation     `json:"recommendations,omitempty"`
	SessionFinished bool                 `json:"sessionFinished,omitempty"`
	DecisionType    string               `json:"decisionType,omitempty"`
	Summary         string               `json:"summary,omitempty"`
	EmailAttempted  bool                 `json:"emailAttempted,omitempty"`
	EmailSent       bool                 `json:"emailSent,omitempty"`
}

// BackendClient is how the session controller talks to the conversational-AI
// backend. The backend itself (scoring, recommendations, summaries) is an
// external collaborator consumed only through this port.
type BackendClient interface {
	StartSession(ctx context.Context, req StartRequest) (*StartResponse, error)
	Exchange(ctx context.Context, req ExchangeRequest) (*ExchangeResponse, error)
}

// Navigator performs in-app navigation on behalf of a recommendation.
type Navigator interface {
	Navigate(route string)
}

// ExternalOpener opens an external reference outside the app.
type ExternalOpener interface {
	Open(url string)
}
