// Package recommend maps recommendation payloads surfaced on assistant turns
// to exactly one client-side action.
package recommend

import (
	"github.com/mindwell/supportchat/internal/domain"
	"github.com/mindwell/supportchat/internal/observability"
)

// DisplayLimit caps how many recommendations a single assistant turn shows.
// The full list is kept upstream; truncation is purely a display concern.
const DisplayLimit = 2

// Dispatcher invokes recommendations against the app's navigation ports.
type Dispatcher struct {
	nav    domain.Navigator
	opener domain.ExternalOpener
}

func NewDispatcher(nav domain.Navigator, opener domain.ExternalOpener) *Dispatcher {
	return &Dispatcher{nav: nav, opener: opener}
}

// Dispatch performs the single action a recommendation calls for and reports
// whether the conversation view should close (in-app navigation only).
// Informational items do nothing. Never panics on absent url/route.
func (d *Dispatcher) Dispatch(rec domain.Recommendation) (closeView bool) {
	log := observability.WithFields("rec_type", string(rec.Type), "rec_title", rec.Title)

	switch target := rec.Target().(type) {
	case domain.NavigateTarget:
		log.Infow("dispatching in-app navigation", "route", target.Route)
		if d.nav != nil {
			d.nav.Navigate(target.Route)
		}
		return true
	case domain.OpenTarget:
		log.Infow("opening external reference", "url", target.URL)
		if d.opener != nil {
			d.opener.Open(target.URL)
		}
		return false
	default:
		// Informational only.
		return false
	}
}

// ForDisplay returns the slice a message bubble should render: the backend's
// order preserved, truncated to DisplayLimit. The input is not modified.
func ForDisplay(recs []domain.Recommendation) []domain.Recommendation {
	if len(recs) == 0 {
		return nil
	}

	n := len(recs)
	if n > DisplayLimit {
		n = DisplayLimit
	}
	out := make([]domain.Recommendation, n)
	copy(out, recs[:n])
	return out
}
