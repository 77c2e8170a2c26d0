package httpadapter_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindwell/supportchat/internal/adapters/backend"
	httpadapter "github.com/mindwell/supportchat/internal/adapters/http"
	"github.com/mindwell/supportchat/internal/app/chatsession"
	"github.com/mindwell/supportchat/internal/domain"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mock := backend.NewMock()
	manager := chatsession.NewManager(func() *chatsession.Controller {
		return chatsession.NewController(mock)
	})
	return httpadapter.NewRouter(manager)
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSessionFlow(t *testing.T) {
	r := newTestRouter(t)

	// Start.
	w := doJSON(t, r, http.MethodPost, "/sessions", map[string]any{"consent_email": false})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var started struct {
		SessionID string `json:"session_id"`
		Status    string `json:"status"`
		Greeting  struct {
			Role string `json:"role"`
			Text string `json:"text"`
		} `json:"greeting"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))
	require.NotEmpty(t, started.SessionID)
	assert.Equal(t, "active", started.Status)
	assert.Equal(t, "assistant", started.Greeting.Role)
	assert.NotEmpty(t, started.Greeting.Text)

	base := "/sessions/" + started.SessionID

	// Buffer a facial emotion, then send: the sample rides the next message.
	w = doJSON(t, r, http.MethodPost, base+"/emotion", map[string]any{
		"emotion": "happy", "confidence": 0.9, "mood": 8,
	})
	require.Equal(t, http.StatusAccepted, w.Code)

	w = doJSON(t, r, http.MethodPost, base+"/messages", map[string]any{"text": "I feel okay"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sent struct {
		UserMessage *struct {
			Text string `json:"text"`
		} `json:"user_message"`
		AssistantMessage struct {
			Role string `json:"role"`
			Risk string `json:"risk"`
		} `json:"assistant_message"`
		Finished bool `json:"finished"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))
	require.NotNil(t, sent.UserMessage)
	assert.Equal(t, "I feel okay", sent.UserMessage.Text)
	assert.Equal(t, "assistant", sent.AssistantMessage.Role)
	assert.Equal(t, "low", sent.AssistantMessage.Risk)
	assert.False(t, sent.Finished)

	// End.
	w = doJSON(t, r, http.MethodPost, base+"/end", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))
	assert.True(t, sent.Finished)

	// Timeline shows the whole exchange plus the rendered summary.
	w = doJSON(t, r, http.MethodGet, base, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Status       string `json:"status"`
		Messages     []any  `json:"messages"`
		DecisionType string `json:"decision_type"`
		SummaryLines []struct {
			Kind string `json:"kind"`
			Text string `json:"text"`
		} `json:"summary_lines"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "ended", got.Status)
	assert.Equal(t, "user_ended", got.DecisionType)
	require.Len(t, got.Messages, 4) // greeting, user, assistant, goodbye
	require.NotEmpty(t, got.SummaryLines)
	assert.Equal(t, "heading", got.SummaryLines[0].Kind)

	// Reset drops the session id.
	w = doJSON(t, r, http.MethodPost, base+"/reset", nil)
	require.Equal(t, http.StatusNoContent, w.Code)

	w = doJSON(t, r, http.MethodGet, base, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestInvokeRecommendation(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/recommendations/invoke", map[string]any{
		"type": "feature", "title": "Journal", "route": "/journal", "url": "https://example.com",
	})
	require.Equal(t, http.StatusOK, w.Code)

	var got struct {
		Action    string `json:"action"`
		Route     string `json:"route"`
		URL       string `json:"url"`
		CloseView bool   `json:"close_view"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	// Route wins over url, and navigation closes the conversation view.
	assert.Equal(t, "navigate", got.Action)
	assert.Equal(t, "/journal", got.Route)
	assert.Empty(t, got.URL)
	assert.True(t, got.CloseView)

	w = doJSON(t, r, http.MethodPost, "/recommendations/invoke", map[string]any{
		"type": "activity", "title": "Take a walk",
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, "none", got.Action)
	assert.False(t, got.CloseView)
}

func TestSendToUnknownSession(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/sessions/nope/messages", map[string]any{"text": "hi"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestStartConsentWithoutEmail(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(t, r, http.MethodPost, "/sessions", map[string]any{"consent_email": true})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetBeforeEndedConflicts(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(t, r, http.MethodPost, "/sessions", map[string]any{})
	require.Equal(t, http.StatusCreated, w.Code)
	var started struct {
		SessionID string `json:"session_id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &started))

	w = doJSON(t, r, http.MethodPost, fmt.Sprintf("/sessions/%s/reset", started.SessionID), nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

// recBackend always replies with three recommendations.
type recBackend struct{}

func (recBackend) StartSession(ctx context.Context, req domain.StartRequest) (*domain.StartResponse, error) {
	return &domain.StartResponse{Success: true, SessionID: "rec-1", InitialMessage: "hi"}, nil
}

func (recBackend) Exchange(ctx context.Context, req domain.ExchangeRequest) (*domain.ExchangeResponse, error) {
	return &domain.ExchangeResponse{
		Success:        true,
		AssistantReply: "here are some ideas",
		Recommendations: []domain.Recommendation{
			{Type: domain.RecActivity, Title: "one"},
			{Type: domain.RecVideo, Title: "two", URL: "https://example.com"},
			{Type: domain.RecBlog, Title: "three", URL: "https://example.com"},
		},
	}, nil
}

func TestDisplayTruncationAtTheAPI(t *testing.T) {
	gin.SetMode(gin.TestMode)
	manager := chatsession.NewManager(func() *chatsession.Controller {
		return chatsession.NewController(recBackend{})
	})
	r := httpadapter.NewRouter(manager)

	w := doJSON(t, r, http.MethodPost, "/sessions", map[string]any{})
	require.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, r, http.MethodPost, "/sessions/rec-1/messages", map[string]any{"text": "help"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var sent struct {
		AssistantMessage struct {
			Recommendations []struct {
				Title string `json:"title"`
			} `json:"recommendations"`
		} `json:"assistant_message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sent))

	// Three on the wire from the backend, two shown.
	require.Len(t, sent.AssistantMessage.Recommendations, 2)
	assert.Equal(t, "one", sent.AssistantMessage.Recommendations[0].Title)

	w = doJSON(t, r, http.MethodGet, "/sessions/rec-1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got struct {
		Recommendations []any `json:"recommendations"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Len(t, got.Recommendations, 2)
}
