package domain

// Message represents one turn in a session transcript (user or assistant).
// The transcript is append-only; a message is never mutated after insertion.
type Message struct {
	ID        MessageID
	Role      Role
	Text      string
	CreatedAt Timestamp

	// Assistant-turn metadata, absent on user turns.
	Risk            RiskLevel
	TextEmotion     *EmotionReading
	FacialEmotion   *FacialEmotionSample
	Recommendations []Recommendation
}

// EmotionReading is the backend's text-derived emotion estimate for a turn.
type EmotionReading struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence,omitempty"`
}

// FacialEmotionSample is a client-side detection from the external video
// analyzer. Confidence is in [0,1]; Mood is the derived mood score.
type FacialEmotionSample struct {
	Emotion    string  `json:"emotion"`
	Confidence float64 `json:"confidence"`
	Mood       float64 `json:"mood"`
}

// EmailPreference is supplied once at session start and never changes.
type EmailPreference struct {
	Consent bool
	Address string
}
