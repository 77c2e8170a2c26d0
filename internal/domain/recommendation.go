package domain

// RecommendationType is the variant tag of a recommendation.
type RecommendationType string

const (
	RecActivity  RecommendationType = "activity"
	RecResource  RecommendationType = "resource"
	RecExercise  RecommendationType = "exercise"
	RecContent   RecommendationType = "content"
	RecVideo     RecommendationType = "video"
	RecBlog      RecommendationType = "blog"
	RecFeature   RecommendationType = "feature"
	RecTherapist RecommendationType = "therapist"
)

// Recommendation is one suggested next action attached to an assistant turn.
// Which of URL/Route is meaningful depends on Type: feature/therapist carry an
// in-app route, video/blog carry an external URL, the informational kinds
// (activity/resource/exercise/content) usually carry neither. Target() is the
// tagged view; consumers should not read URL/Route directly.
type Recommendation struct {
	Type        RecommendationType `json:"type"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	URL         string             `json:"url,omitempty"`
	Route       string             `json:"route,omitempty"`
	Priority    int                `json:"priority"`
	Icon        string             `json:"icon,omitempty"`
}

// RecommendationTarget is what invoking a recommendation should do.
// Exactly one variant applies per recommendation.
type RecommendationTarget interface {
	isRecommendationTarget()
}

// NavigateTarget is an in-app navigation; the conversation view closes first.
type NavigateTarget struct {
	Route string
}

// OpenTarget is an external reference opened outside the app.
type OpenTarget struct {
	URL string
}

// InfoTarget marks a purely informational recommendation.
type InfoTarget struct{}

func (NavigateTarget) isRecommendationTarget() {}
func (OpenTarget) isRecommendationTarget()     {}
func (InfoTarget) isRecommendationTarget()     {}

// Target resolves the variant for this recommendation. An in-app route on a
// feature or therapist recommendation wins over any URL set on the same item.
func (r Recommendation) Target() RecommendationTarget {
	if (r.Type == RecFeature || r.Type == RecTherapist) && r.Route != "" {
		return NavigateTarget{Route: r.Route}
	}
	if r.URL != "" {
		return OpenTarget{URL: r.URL}
	}
	return InfoTarget{}
}
