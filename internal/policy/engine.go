package policy

import (
	"context"
	"log"
	"math/rand"

	"TornPilot/internal/api"
	"TornPilot/internal/config"
	"TornPilot/internal/model"
)

// Engine turns a status snapshot into at most one decision per enabled
// category. It is pure apart from the per-category detail fetches; all
// cross-cycle state lives elsewhere.
type Engine struct {
	fetcher  api.Fetcher
	features config.Features
	rng      *rand.Rand
}

// New creates an Engine. The rand source is injected so gym stat selection is
// reproducible under test.
func New(fetcher api.Fetcher, features config.Features, rng *rand.Rand) *Engine {
	return &Engine{fetcher: fetcher, features: features, rng: rng}
}

// Evaluate applies the hard status gate, then runs every enabled category
// independently. A failed detail fetch or a resource shortfall silences that
// category only; the others still evaluate.
func (e *Engine) Evaluate(ctx context.Context, snap *model.Snapshot) []model.Decision {
	if !snap.CanAct() {
		state := snap.Status.State
		if state == "" {
			state = "unknown"
		}
		log.Printf("[INFO] cannot perform actions, current state: %s", state)
		return nil
	}

	var decisions []model.Decision
	if e.features.Crimes {
		if d := e.selectCrime(ctx, snap); d != nil {
			decisions = append(decisions, *d)
		}
	}
	if e.features.Gym {
		if d := e.selectGym(ctx, snap); d != nil {
			decisions = append(decisions, *d)
		}
	}
	if e.features.Items {
		if d := e.selectItem(ctx); d != nil {
			decisions = append(decisions, *d)
		}
	}
	if e.features.Education {
		if d := e.selectEducation(ctx, snap); d != nil {
			decisions = append(decisions, *d)
		}
	}
	return decisions
}
