// Package chatsession owns the support chat session lifecycle: one controller
// per session drives the exchange with the conversational-AI backend, keeps
// the append-only transcript, and enforces the single in-flight call rule.
package chatsession

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mindwell/supportchat/internal/domain"
	"github.com/mindwell/supportchat/internal/emotion"
	"github.com/mindwell/supportchat/internal/observability"
)

const (
	// endSentinel is what the backend sees when the user ends the session
	// from the UI rather than by typing an exit token.
	endSentinel = "[Session ended by user]"

	// endFallbackReply is shown when the backend acknowledges an explicit
	// end without a closing line of its own.
	endFallbackReply = "Session ended. Take care 💚"

	emailDeliveredText = "Summary emailed successfully."
	emailFailedText    = "Attempted to email the summary but it failed."
)

var errBackendRejected = errors.New("backend rejected the request")

// Controller sequences one session's exchanges with the backend. A controller
// exclusively owns its session state; it is not shared across sessions.
type Controller struct {
	backend  domain.BackendClient
	emotions *emotion.Buffer
	now      func() time.Time
	newID    func() domain.MessageID

	mu         sync.Mutex
	inFlight   bool
	status     domain.SessionStatus
	sessionID  domain.SessionID
	transcript []*domain.Message
	summary    string
	decision   domain.DecisionType
	latestRecs []domain.Recommendation
}

func NewController(backend domain.BackendClient) *Controller {
	return &Controller{
		backend:  backend,
		emotions: emotion.NewBuffer(),
		now:      time.Now,
		newID:    func() domain.MessageID { return domain.MessageID(uuid.NewString()) },
		status:   domain.StatusIdle,
	}
}

// SendOutcome is what a completed exchange produced. UserMessage is nil for
// explicit ends (no user turn is written for the sentinel).
type SendOutcome struct {
	UserMessage      *domain.Message
	AssistantMessage *domain.Message
	Finished         bool
}

// Start creates the session on the backend. Valid only from idle; a failed
// start returns to idle with no partial state, so retrying is just calling
// Start again.
func (c *Controller) Start(ctx context.Context, pref domain.EmailPreference) (*domain.Message, error) {
	if pref.Consent && strings.TrimSpace(pref.Address) == "" {
		return nil, domain.ErrEmailRequired
	}

	c.mu.Lock()
	if c.status != domain.StatusIdle {
		c.mu.Unlock()
		return nil, domain.ErrNotIdle
	}
	c.status = domain.StatusStarting
	c.inFlight = true
	c.mu.Unlock()
	defer c.releaseGuard()

	log := observability.LoggerFromContext(ctx)
	log.Infow("starting session", "consent_email", pref.Consent)

	req := domain.StartRequest{ConsentEmail: pref.Consent}
	if pref.Consent {
		req.Email = pref.Address
	}

	resp, err := c.backend.StartSession(ctx, req)
	if err == nil && !resp.Success {
		err = errBackendRejected
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.status = domain.StatusIdle
		log.Errorw("failed to start session", "error", err)
		return nil, fmt.Errorf("starting session: %w", err)
	}

	c.sessionID = domain.SessionID(resp.SessionID)
	greeting := &domain.Message{
		ID:        c.newID(),
		Role:      domain.RoleAssistant,
		Text:      resp.InitialMessage,
		CreatedAt: c.now(),
		Risk:      domain.RiskLow,
	}
	c.transcript = append(c.transcript, greeting)
	c.status = domain.StatusActive

	log.Infow("session started", "session_id", c.sessionID)
	return greeting, nil
}

// SendMessage sends one user turn. Valid only while active. If another call
// is already in flight the message is dropped silently: both return values
// are nil and the transcript is untouched. On transport failure the optimistic
// user message stays in the transcript and the session remains active, so the
// user can simply send again.
func (c *Controller) SendMessage(ctx context.Context, text string) (*SendOutcome, error) {
	c.mu.Lock()
	if c.status != domain.StatusActive {
		c.mu.Unlock()
		return nil, domain.ErrNotActive
	}
	if c.inFlight {
		c.mu.Unlock()
		return nil, nil
	}
	c.inFlight = true

	// Taking the sample here, inside the guard, is what makes a detection
	// attach to at most one outgoing message.
	sample, _ := c.emotions.TakeIfPresent()
	req := BuildExchangeRequest(c.sessionID, text, sample)

	userMsg := &domain.Message{
		ID:        c.newID(),
		Role:      domain.RoleUser,
		Text:      text,
		CreatedAt: c.now(),
	}
	c.transcript = append(c.transcript, userMsg)
	c.mu.Unlock()
	defer c.releaseGuard()

	log := observability.LoggerFromContext(ctx).With("session_id", c.sessionID)
	log.Infow("sending message", "finished", req.Finished, "has_facial_emotion", req.FacialEmotion != nil)

	resp, err := c.backend.Exchange(ctx, req)
	if err == nil && !resp.Success {
		err = errBackendRejected
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		log.Errorw("failed to send message", "error", err)
		return nil, fmt.Errorf("sending message: %w", err)
	}

	assistant := NewAssistantMessage(c.newID(), resp, c.now())
	c.transcript = append(c.transcript, assistant)
	if len(resp.Recommendations) > 0 {
		c.latestRecs = resp.Recommendations
	}

	out := &SendOutcome{UserMessage: userMsg, AssistantMessage: assistant}
	if req.Finished || resp.SessionFinished {
		c.concludeLocked(resp)
		out.Finished = true
	}

	return out, nil
}

// EndSession ends the session explicitly from the UI. It goes through the
// same response handling as SendMessage, and shares the same in-flight guard:
// an end clicked while a send is in flight is dropped silently instead of
// racing it.
func (c *Controller) EndSession(ctx context.Context) (*SendOutcome, error) {
	c.mu.Lock()
	if c.status != domain.StatusActive {
		c.mu.Unlock()
		return nil, domain.ErrNotActive
	}
	if c.inFlight {
		c.mu.Unlock()
		return nil, nil
	}
	c.inFlight = true
	c.status = domain.StatusEnding
	req := domain.ExchangeRequest{
		SessionID: string(c.sessionID),
		Message:   endSentinel,
		Finished:  true,
	}
	c.mu.Unlock()
	defer c.releaseGuard()

	log := observability.LoggerFromContext(ctx).With("session_id", c.sessionID)
	log.Infow("ending session")

	resp, err := c.backend.Exchange(ctx, req)
	if err == nil && !resp.Success {
		err = errBackendRejected
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		c.status = domain.StatusActive
		log.Errorw("failed to end session", "error", err)
		return nil, fmt.Errorf("ending session: %w", err)
	}

	if resp.AssistantReply == "" {
		resp.AssistantReply = endFallbackReply
	}
	assistant := NewAssistantMessage(c.newID(), resp, c.now())
	c.transcript = append(c.transcript, assistant)
	c.concludeLocked(resp)

	return &SendOutcome{AssistantMessage: assistant, Finished: true}, nil
}

// Reset returns an ended session to idle, clearing the transcript, session
// id, summary and decision. Valid only from ended.
func (c *Controller) Reset() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.status != domain.StatusEnded {
		return domain.ErrNotEnded
	}

	c.sessionID = ""
	c.transcript = nil
	c.summary = ""
	c.decision = ""
	c.latestRecs = nil
	c.status = domain.StatusIdle
	return nil
}

// NoteFacialEmotion buffers a detection from the external video analyzer for
// the next outgoing message. Last detection wins.
func (c *Controller) NoteFacialEmotion(sample domain.FacialEmotionSample) {
	c.emotions.Set(sample)
}

// concludeLocked marks the session ended and records what the backend said
// about the conclusion. Caller holds c.mu.
func (c *Controller) concludeLocked(resp *domain.ExchangeResponse) {
	c.status = domain.StatusEnded
	c.decision = domain.DecisionType(resp.DecisionType)
	if resp.Summary != "" {
		c.summary = resp.Summary
	}

	if resp.EmailAttempted {
		text := emailFailedText
		if resp.EmailSent {
			text = emailDeliveredText
		}
		c.transcript = append(c.transcript, &domain.Message{
			ID:        c.newID(),
			Role:      domain.RoleAssistant,
			Text:      text,
			CreatedAt: c.now(),
			Risk:      domain.RiskLow,
		})
	}
}

// releaseGuard clears the in-flight flag. Deferred on every path that sets
// it, so a failed or slow call can never wedge the session.
func (c *Controller) releaseGuard() {
	c.mu.Lock()
	c.inFlight = false
	c.mu.Unlock()
}

func (c *Controller) Status() domain.SessionStatus {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

func (c *Controller) SessionID() domain.SessionID {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// Transcript returns a copy of the message list in exchange order.
func (c *Controller) Transcript() []*domain.Message {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]*domain.Message, len(c.transcript))
	copy(out, c.transcript)
	return out
}

func (c *Controller) Summary() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.summary
}

func (c *Controller) Decision() domain.DecisionType {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decision
}

// LatestRecommendations is the most recent non-empty recommendation list,
// kept for the side panel independently of individual messages.
func (c *Controller) LatestRecommendations() []domain.Recommendation {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]domain.Recommendation, len(c.latestRecs))
	copy(out, c.latestRecs)
	return out
}
