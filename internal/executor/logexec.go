package executor

import (
	"context"
	"log"

	"TornPilot/internal/model"
)

// LogExecutor is the API-only mode: it logs what would have been done instead
// of driving a browser. The game API has no write endpoints for these
// actions, so without a browser-driven Executor wired in, decisions stop
// here.
type LogExecutor struct{}

func NewLogExecutor() *LogExecutor { return &LogExecutor{} }

func (l *LogExecutor) Login(_ context.Context) error {
	log.Println("[INFO] executor: login skipped (api-only mode)")
	return nil
}

func (l *LogExecutor) Perform(_ context.Context, category model.Category, targetID string) error {
	log.Printf("[INFO] executor: would perform %s action on %q (api-only mode, no browser attached)", category, targetID)
	return nil
}

func (l *LogExecutor) Close() error { return nil }
