// Package httpadapter exposes the session orchestrator to the web front end.
package httpadapter

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mindwell/supportchat/internal/app/chatsession"
	"github.com/mindwell/supportchat/internal/app/recommend"
	"github.com/mindwell/supportchat/internal/app/summary"
	"github.com/mindwell/supportchat/internal/domain"
)

type Server struct {
	sessions *chatsession.Manager
}

func NewRouter(sessions *chatsession.Manager) *gin.Engine {
	s := &Server{sessions: sessions}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), requestLogger(), cors())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/sessions", s.handleStartSession)
	r.GET("/sessions/:id", s.handleGetSession)
	r.POST("/sessions/:id/messages", s.handleSendMessage)
	r.POST("/sessions/:id/end", s.handleEndSession)
	r.POST("/sessions/:id/reset", s.handleResetSession)
	r.POST("/sessions/:id/emotion", s.handleEmotion)
	r.POST("/recommendations/invoke", s.handleInvokeRecommendation)

	return r
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type startSessionRequest struct {
	Email        string `json:"email"`
	ConsentEmail bool   `json:"consent_email"`
}

type messageResponse struct {
	ID              string                      `json:"id"`
	Role            string                      `json:"role"`
	Text            string                      `json:"text"`
	Timestamp       time.Time                   `json:"timestamp"`
	Risk            string                      `json:"risk,omitempty"`
	FacialEmotion   *domain.FacialEmotionSample `json:"facial_emotion,omitempty"`
	Recommendations []domain.Recommendation     `json:"recommendations,omitempty"`
}

type startSessionResponse struct {
	SessionID string          `json:"session_id"`
	Status    string          `json:"status"`
	Greeting  messageResponse `json:"greeting"`
}

type sendMessageRequest struct {
	Text string `json:"text" binding:"required"`
}

type sendMessageResponse struct {
	UserMessage      *messageResponse `json:"user_message,omitempty"`
	AssistantMessage messageResponse  `json:"assistant_message"`
	Finished         bool             `json:"finished"`
}

type emotionRequest struct {
	Emotion    string  `json:"emotion" binding:"required"`
	Confidence float64 `json:"confidence" binding:"min=0,max=1"`
	Mood       float64 `json:"mood"`
}

type getSessionResponse struct {
	SessionID       string                  `json:"session_id"`
	Status          string                  `json:"status"`
	Messages        []messageResponse       `json:"messages"`
	DecisionType    string                  `json:"decision_type,omitempty"`
	SummaryLines    []summary.Line          `json:"summary_lines,omitempty"`
	Recommendations []domain.Recommendation `json:"recommendations,omitempty"`
}

// ─────────────────────────────────────────────
// Handlers
// ─────────────────────────────────────────────

func (s *Server) handleStartSession(c *gin.Context) {
	var req startSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid JSON body"})
		return
	}

	ctrl, greeting, err := s.sessions.StartSession(c.Request.Context(), domain.EmailPreference{
		Consent: req.ConsentEmail,
		Address: req.Email,
	})
	if err != nil {
		if errors.Is(err, domain.ErrEmailRequired) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to start chat session"})
		return
	}

	c.JSON(http.StatusCreated, startSessionResponse{
		SessionID: string(ctrl.SessionID()),
		Status:    string(ctrl.Status()),
		Greeting:  toMessageResponse(greeting),
	})
}

func (s *Server) handleGetSession(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}

	resp := getSessionResponse{
		SessionID:       string(ctrl.SessionID()),
		Status:          string(ctrl.Status()),
		Messages:        toMessagesResponse(ctrl.Transcript()),
		DecisionType:    string(ctrl.Decision()),
		SummaryLines:    summary.Render(ctrl.Summary()),
		Recommendations: recommend.ForDisplay(ctrl.LatestRecommendations()),
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleSendMessage(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}

	var req sendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}

	out, err := ctrl.SendMessage(c.Request.Context(), req.Text)
	s.writeExchange(c, out, err)
}

func (s *Server) handleEndSession(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}

	out, err := ctrl.EndSession(c.Request.Context())
	s.writeExchange(c, out, err)
}

func (s *Server) handleResetSession(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}

	if err := ctrl.Reset(); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	// The controller went back to idle without a session id; drop it from
	// the registry so the id cannot be reused.
	s.sessions.Remove(domain.SessionID(c.Param("id")))
	c.Status(http.StatusNoContent)
}

func (s *Server) handleEmotion(c *gin.Context) {
	ctrl, ok := s.controller(c)
	if !ok {
		return
	}

	var req emotionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid emotion sample"})
		return
	}

	ctrl.NoteFacialEmotion(domain.FacialEmotionSample{
		Emotion:    req.Emotion,
		Confidence: req.Confidence,
		Mood:       req.Mood,
	})
	c.Status(http.StatusAccepted)
}

// invokeResponse tells the front end what clicking a recommendation does.
type invokeResponse struct {
	Action    string `json:"action"` // navigate | open | none
	Route     string `json:"route,omitempty"`
	URL       string `json:"url,omitempty"`
	CloseView bool   `json:"close_view"`
}

// handleInvokeRecommendation resolves a recommendation payload to the single
// action the view layer should perform.
func (s *Server) handleInvokeRecommendation(c *gin.Context) {
	var rec domain.Recommendation
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recommendation"})
		return
	}

	var rr routeRecorder
	closeView := recommend.NewDispatcher(&rr, &rr).Dispatch(rec)

	resp := invokeResponse{Action: "none", CloseView: closeView}
	switch {
	case rr.route != "":
		resp.Action = "navigate"
		resp.Route = rr.route
	case rr.url != "":
		resp.Action = "open"
		resp.URL = rr.url
	}
	c.JSON(http.StatusOK, resp)
}

// routeRecorder captures the dispatcher's side effects for the response.
type routeRecorder struct {
	route string
	url   string
}

func (r *routeRecorder) Navigate(route string) { r.route = route }
func (r *routeRecorder) Open(url string)       { r.url = url }

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func (s *Server) controller(c *gin.Context) (*chatsession.Controller, bool) {
	ctrl, err := s.sessions.Get(domain.SessionID(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return ctrl, true
}

func (s *Server) writeExchange(c *gin.Context, out *chatsession.SendOutcome, err error) {
	if err != nil {
		if errors.Is(err, domain.ErrNotActive) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to reach the support backend"})
		return
	}
	if out == nil {
		// Dropped by the in-flight guard.
		c.JSON(http.StatusConflict, gin.H{"error": "another message is in flight"})
		return
	}

	resp := sendMessageResponse{
		AssistantMessage: toMessageResponse(out.AssistantMessage),
		Finished:         out.Finished,
	}
	if out.UserMessage != nil {
		m := toMessageResponse(out.UserMessage)
		resp.UserMessage = &m
	}
	c.JSON(http.StatusOK, resp)
}

func toMessageResponse(m *domain.Message) messageResponse {
	return messageResponse{
		ID:              string(m.ID),
		Role:            string(m.Role),
		Text:            m.Text,
		Timestamp:       m.CreatedAt,
		Risk:            string(m.Risk),
		FacialEmotion:   m.FacialEmotion,
		Recommendations: recommend.ForDisplay(m.Recommendations),
	}
}

func toMessagesResponse(msgs []*domain.Message) []messageResponse {
	out := make([]messageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, toMessageResponse(m))
	}
	return out
}
