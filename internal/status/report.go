package status

import (
	"fmt"
	"sort"
	"strings"

	"TornPilot/internal/model"
)

// Report renders the per-cycle status block for the log. Zero cooldowns and
// empty notification categories are kept in the snapshot but filtered here.
func Report(s *model.Snapshot) string {
	var b strings.Builder

	b.WriteString(strings.Repeat("=", 50) + "\n")
	b.WriteString(fmt.Sprintf("Status update for %s at %s\n", s.Name, s.FetchedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(strings.Repeat("=", 50) + "\n")

	if s.Bars != nil {
		b.WriteString(fmt.Sprintf("Energy: %d/%d\n", s.Bars.Energy.Current, s.Bars.Energy.Maximum))
		b.WriteString(fmt.Sprintf("Nerve: %d/%d\n", s.Bars.Nerve.Current, s.Bars.Nerve.Maximum))
		b.WriteString(fmt.Sprintf("Happy: %d/%d\n", s.Bars.Happy.Current, s.Bars.Happy.Maximum))
		b.WriteString(fmt.Sprintf("Life: %d/%d\n", s.Bars.Life.Current, s.Bars.Life.Maximum))
	}

	for _, name := range sortedKeys(s.Cooldowns) {
		if s.Cooldowns[name] > 0 {
			b.WriteString(fmt.Sprintf("%s cooldown: %s\n", capitalize(name), formatSeconds(s.Cooldowns[name])))
		}
	}

	var pending []string
	for _, cat := range sortedKeys(s.Notifications) {
		if s.Notifications[cat] > 0 {
			pending = append(pending, fmt.Sprintf("  - %s: %d", cat, s.Notifications[cat]))
		}
	}
	if len(pending) > 0 {
		b.WriteString("Notifications:\n")
		b.WriteString(strings.Join(pending, "\n") + "\n")
	}

	if s.Studying() {
		cur := s.Education.Current
		b.WriteString(fmt.Sprintf("Currently studying: %s - %s remaining\n", cur.Name, formatSeconds(cur.TimeLeft)))
	}

	if !s.CanAct() {
		b.WriteString(fmt.Sprintf("Player state: %s (actions suspended)\n", s.Status.State))
	}

	b.WriteString(strings.Repeat("=", 50))
	return b.String()
}

func formatSeconds(seconds int) string {
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
