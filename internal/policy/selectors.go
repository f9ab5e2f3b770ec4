package policy

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strconv"
	"strings"

	"TornPilot/internal/model"
)

// selectCrime picks the affordable crime with the highest success rate.
// Strict comparison keeps the first-encountered crime among equals; ids are
// scanned in numeric order so "first" is stable across runs.
func (e *Engine) selectCrime(ctx context.Context, snap *model.Snapshot) *model.Decision {
	if snap.Bars == nil || snap.Bars.Nerve.Current <= 0 {
		log.Println("[INFO] not enough nerve to commit crimes")
		return nil
	}
	nerve := snap.Bars.Nerve.Current

	raw, err := e.fetcher.Fetch(ctx, "user", []string{"crimes"}, "")
	if err != nil {
		log.Printf("[WARN] fetch crime data: %v", err)
		return nil
	}
	crimes := decodeCrimes(raw["crimes"])

	var best *model.CrimeOption
	for i := range crimes {
		c := &crimes[i]
		if c.Nerve > nerve {
			continue
		}
		if best == nil || c.Success > best.Success {
			best = c
		}
	}
	if best == nil {
		log.Println("[INFO] no suitable crimes found")
		return nil
	}
	return &model.Decision{
		Category:  model.CategoryCrime,
		TargetID:  best.ID,
		Rationale: fmt.Sprintf("commit %s (success %d%%, nerve %d/%d)", best.Name, best.Success, best.Nerve, nerve),
	}
}

// selectGym trains one of the four stats, chosen uniformly at random. The
// gyms fetch is an availability check only; selection doesn't depend on it.
func (e *Engine) selectGym(ctx context.Context, snap *model.Snapshot) *model.Decision {
	if snap.Bars == nil || snap.Bars.Energy.Current <= 0 {
		log.Println("[INFO] not enough energy to train at the gym")
		return nil
	}
	if _, err := e.fetcher.Fetch(ctx, "user", []string{"gyms"}, ""); err != nil {
		log.Printf("[WARN] fetch gym data: %v", err)
		return nil
	}
	stat := model.GymStats[e.rng.Intn(len(model.GymStats))]
	return &model.Decision{
		Category:  model.CategoryGym,
		TargetID:  stat,
		Rationale: fmt.Sprintf("train %s (energy %d)", stat, snap.Bars.Energy.Current),
	}
}

// selectItem uses the first energy drink found in the inventory.
func (e *Engine) selectItem(ctx context.Context) *model.Decision {
	raw, err := e.fetcher.Fetch(ctx, "user", []string{"inventory"}, "")
	if err != nil {
		log.Printf("[WARN] fetch inventory data: %v", err)
		return nil
	}
	var items []model.InventoryItem
	if v, ok := raw["inventory"]; ok {
		if err := json.Unmarshal(v, &items); err != nil {
			log.Printf("[WARN] malformed inventory field: %v", err)
			return nil
		}
	}
	for _, it := range items {
		if strings.Contains(strings.ToLower(it.Name), "energy drink") {
			return &model.Decision{
				Category:  model.CategoryItem,
				TargetID:  strconv.FormatInt(it.ID, 10),
				Rationale: fmt.Sprintf("use %s", it.Name),
			}
		}
	}
	log.Println("[INFO] no usable items found in inventory")
	return nil
}

// selectEducation starts the first unfinished course, skipped entirely while
// a course is already in progress. The catalogue is taken from the snapshot
// when the batched fetch carried it, otherwise fetched once and cached on the
// snapshot for the rest of the cycle.
func (e *Engine) selectEducation(ctx context.Context, snap *model.Snapshot) *model.Decision {
	if snap.Studying() {
		log.Println("[INFO] already studying a course")
		return nil
	}

	var courses map[string]model.Course
	if snap.Education != nil {
		courses = snap.Education.Courses
	}
	if courses == nil {
		raw, err := e.fetcher.Fetch(ctx, "user", []string{"education"}, "")
		if err != nil {
			log.Printf("[WARN] fetch education data: %v", err)
			return nil
		}
		if v, ok := raw["education"]; ok {
			if err := json.Unmarshal(v, &courses); err != nil {
				log.Printf("[WARN] malformed education field: %v", err)
				return nil
			}
		}
		if snap.Education == nil {
			snap.Education = &model.EducationState{}
		}
		snap.Education.Courses = courses
	}

	for _, id := range sortedIDs(courses) {
		course := courses[id]
		if course.Completed > 0 {
			continue
		}
		return &model.Decision{
			Category:  model.CategoryEducation,
			TargetID:  id,
			Rationale: fmt.Sprintf("start course %s", course.Name),
		}
	}
	log.Println("[INFO] no suitable education courses found")
	return nil
}

// decodeCrimes flattens the id-keyed crimes object into a slice ordered by
// numeric id. A crime without a nerve cost is treated as unaffordable rather
// than free.
func decodeCrimes(v json.RawMessage) []model.CrimeOption {
	if v == nil {
		return nil
	}
	var byID map[string]struct {
		Name    string `json:"name"`
		Success int    `json:"success"`
		Nerve   *int   `json:"nerve"`
	}
	if err := json.Unmarshal(v, &byID); err != nil {
		log.Printf("[WARN] malformed crimes field: %v", err)
		return nil
	}

	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sortNumeric(ids)

	crimes := make([]model.CrimeOption, 0, len(byID))
	for _, id := range ids {
		c := byID[id]
		nerve := 100
		if c.Nerve != nil {
			nerve = *c.Nerve
		}
		crimes = append(crimes, model.CrimeOption{ID: id, Name: c.Name, Success: c.Success, Nerve: nerve})
	}
	return crimes
}

func sortedIDs(m map[string]model.Course) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sortNumeric(ids)
	return ids
}

// sortNumeric orders ids numerically where possible, so iteration over the
// API's id-keyed objects is deterministic.
func sortNumeric(ids []string) {
	sort.Slice(ids, func(i, j int) bool {
		a, aErr := strconv.Atoi(ids[i])
		b, bErr := strconv.Atoi(ids[j])
		if aErr == nil && bErr == nil {
			return a < b
		}
		if aErr == nil {
			return true
		}
		if bErr == nil {
			return false
		}
		return ids[i] < ids[j]
	})
}
