package executor

import (
	"context"

	"TornPilot/internal/model"
)

// Executor performs decisions in the game world. The scheduler invokes Login
// lazily before the first Perform of the process and not again after it
// succeeds; implementations should treat repeated logins as idempotent.
// A Perform error is an ordinary per-action failure (e.g. the game rejected
// the attempt) and must not take the process down.
type Executor interface {
	Login(ctx context.Context) error
	Perform(ctx context.Context, category model.Category, targetID string) error
	Close() error
}
