package domain

import "time"

type SessionID string
type MessageID string

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// RiskLevel is the backend-assigned severity of user distress on an assistant turn.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// SessionStatus is the lifecycle state of a support chat session.
// Only the session controller writes it.
type SessionStatus string

const (
	StatusIdle     SessionStatus = "idle"
	StatusStarting SessionStatus = "starting"
	StatusActive   SessionStatus = "active"
	StatusEnding   SessionStatus = "ending"
	StatusEnded    SessionStatus = "ended"
)

// DecisionType is the backend's classification of how/why a session concluded.
type DecisionType string

type Timestamp = time.Time
