package status

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"TornPilot/internal/api"
	"TornPilot/internal/model"
)

// Selections returns the batched field set for one poll cycle. Everything is
// requested in a single call so one request of rate-limit budget covers the
// whole snapshot.
func Selections(includeEducation bool) []string {
	sels := []string{"profile", "bars", "cooldowns", "notifications"}
	if includeEducation {
		sels = append(sels, "education")
	}
	return sels
}

// Build fetches and assembles a fresh snapshot. On any fetch error it returns
// nil and the error; the caller keeps whatever snapshot it already had.
// Missing or malformed sub-documents are treated as absent, never fatal.
func Build(ctx context.Context, fetcher api.Fetcher, includeEducation bool) (*model.Snapshot, error) {
	raw, err := fetcher.Fetch(ctx, "user", Selections(includeEducation), "")
	if err != nil {
		return nil, err
	}

	snap := &model.Snapshot{FetchedAt: time.Now()}

	if v, ok := raw["name"]; ok {
		_ = json.Unmarshal(v, &snap.Name)
	}
	if v, ok := raw["player_id"]; ok {
		_ = json.Unmarshal(v, &snap.PlayerID)
	}
	if v, ok := raw["status"]; ok {
		if err := json.Unmarshal(v, &snap.Status); err != nil {
			log.Printf("[WARN] malformed status field: %v", err)
		}
	}

	if v, ok := raw["bars"]; ok {
		var bars model.Bars
		if err := json.Unmarshal(v, &bars); err != nil {
			log.Printf("[WARN] malformed bars field: %v", err)
		} else {
			snap.Bars = &bars
		}
	}

	if v, ok := raw["cooldowns"]; ok {
		var cds map[string]int
		if err := json.Unmarshal(v, &cds); err != nil {
			log.Printf("[WARN] malformed cooldowns field: %v", err)
		} else {
			snap.Cooldowns = cds
		}
	}

	if v, ok := raw["notifications"]; ok {
		var notes map[string]int
		if err := json.Unmarshal(v, &notes); err != nil {
			log.Printf("[WARN] malformed notifications field: %v", err)
		} else {
			snap.Notifications = notes
		}
	}

	if includeEducation {
		snap.Education = parseEducation(raw)
	}

	return snap, nil
}

// parseEducation assembles the education state from the batched response.
// Courses stays nil when the catalogue wasn't in the response; the policy
// lazily fetches it on demand.
func parseEducation(raw map[string]json.RawMessage) *model.EducationState {
	ed := &model.EducationState{}

	if v, ok := raw["education_current"]; ok {
		var cur model.CurrentCourse
		if err := json.Unmarshal(v, &cur); err == nil && (cur.Name != "" || cur.TimeLeft > 0) {
			ed.Current = &cur
		}
	}
	if v, ok := raw["education"]; ok {
		var courses map[string]model.Course
		if err := json.Unmarshal(v, &courses); err != nil {
			log.Printf("[WARN] malformed education field: %v", err)
		} else {
			ed.Courses = courses
		}
	}
	return ed
}
