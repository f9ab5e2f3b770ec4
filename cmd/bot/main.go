package main

import (
	"context"
	"encoding/json"
	"log"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"TornPilot/internal/api"
	"TornPilot/internal/config"
	"TornPilot/internal/executor"
	"TornPilot/internal/policy"
	"TornPilot/internal/recorder"
	"TornPilot/internal/scheduler"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] TornPilot starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init API client
	client := api.NewClient(cfg.API.BaseURL, cfg.API.Key, time.Duration(cfg.API.MinRequestInterval)*time.Second)

	// Initial profile fetch: identifies the player and proves the key works.
	// Failure here is fatal; the loop never starts on a dead credential.
	profile, err := client.Fetch(ctx, "user", []string{"profile"}, "")
	if err != nil {
		log.Fatalf("[FATAL] initial profile fetch: %v", err)
	}
	var name string
	var playerID int64
	if v, ok := profile["name"]; ok {
		_ = json.Unmarshal(v, &name)
	}
	if v, ok := profile["player_id"]; ok {
		_ = json.Unmarshal(v, &playerID)
	}
	log.Printf("[INFO] bot initialized for: %s [%d]", name, playerID)
	log.Printf("[INFO] features: crimes=%v gym=%v items=%v education=%v travel=%v",
		cfg.Features.Crimes, cfg.Features.Gym, cfg.Features.Items, cfg.Features.Education, cfg.Features.Travel)
	log.Printf("[INFO] browser mode: headless=%v (api-only executor active)", cfg.Browser.Headless)

	// Init executor. A browser-driven Executor would be wired here instead;
	// the headless flag is only passed through to it.
	exec := executor.NewLogExecutor()

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Init policy with a seeded random source for gym stat selection
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	pol := policy.New(client, cfg.Features, rng)

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, client, pol, exec, rec, cfg.Features.Education)
	if err := sched.Register(time.Duration(cfg.Schedule.PollInterval) * time.Second); err != nil {
		log.Fatalf("[FATAL] register poll cycle: %v", err)
	}

	// First cycle runs before the cron cadence takes over.
	sched.RunNow()
	sched.Start()
	defer sched.Stop()

	log.Printf("[INFO] TornPilot is running (poll every %ds). Press Ctrl+C to stop.", cfg.Schedule.PollInterval)

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	cancel()
	log.Println("[INFO] TornPilot stopped")
}
