package backend_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mindwell/supportchat/internal/adapters/backend"
	"github.com/mindwell/supportchat/internal/domain"
)

func TestStartSession(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/session/start", r.URL.Path)

		var req domain.StartRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.True(t, req.ConsentEmail)
		assert.Equal(t, "user@example.com", req.Email)

		json.NewEncoder(w).Encode(domain.StartResponse{
			Success:        true,
			SessionID:      "s-1",
			InitialMessage: "Hello",
		})
	}))
	defer srv.Close()

	c := backend.NewClient(srv.URL, time.Second)
	resp, err := c.StartSession(context.Background(), domain.StartRequest{
		Email:        "user@example.com",
		ConsentEmail: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "s-1", resp.SessionID)
	assert.Equal(t, "Hello", resp.InitialMessage)
}

func TestExchangeOmitsAbsentFacialEmotion(t *testing.T) {
	var raw map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/session/respond", r.URL.Path)
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &raw))
		json.NewEncoder(w).Encode(domain.ExchangeResponse{Success: true, AssistantReply: "ok"})
	}))
	defer srv.Close()

	c := backend.NewClient(srv.URL, time.Second)
	_, err := c.Exchange(context.Background(), domain.ExchangeRequest{
		SessionID: "s-1",
		Message:   "hello",
	})
	require.NoError(t, err)

	// Absent sample means no facialEmotion key on the wire at all.
	_, present := raw["facialEmotion"]
	assert.False(t, present)
	assert.Equal(t, "hello", raw["message"])
	assert.Equal(t, false, raw["finished"])
}

func TestExchangeTolerantDecoding(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Bare-minimum reply: every optional field absent.
		w.Write([]byte(`{"success":true,"assistantReply":"hi"}`))
	}))
	defer srv.Close()

	c := backend.NewClient(srv.URL, time.Second)
	resp, err := c.Exchange(context.Background(), domain.ExchangeRequest{SessionID: "s", Message: "m"})
	require.NoError(t, err)

	assert.True(t, resp.Success)
	assert.Empty(t, resp.Risk)
	assert.Nil(t, resp.Recommendations)
	assert.False(t, resp.SessionFinished)
}

func TestNonOKStatusIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message":"model unavailable"}`))
	}))
	defer srv.Close()

	c := backend.NewClient(srv.URL, time.Second)
	_, err := c.Exchange(context.Background(), domain.ExchangeRequest{SessionID: "s", Message: "m"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
	assert.Contains(t, err.Error(), "model unavailable")
}

func TestMockFinishes(t *testing.T) {
	m := backend.NewMock()

	start, err := m.StartSession(context.Background(), domain.StartRequest{})
	require.NoError(t, err)
	assert.True(t, start.Success)
	assert.NotEmpty(t, start.SessionID)

	resp, err := m.Exchange(context.Background(), domain.ExchangeRequest{
		SessionID: start.SessionID,
		Message:   "bye",
		Finished:  true,
	})
	require.NoError(t, err)
	assert.True(t, resp.SessionFinished)
	assert.NotEmpty(t, resp.Summary)
}
