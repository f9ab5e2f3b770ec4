package scheduler

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"testing"
	"time"

	"TornPilot/internal/api"
	"TornPilot/internal/config"
	"TornPilot/internal/model"
	"TornPilot/internal/policy"
	"TornPilot/internal/recorder"
)

type captureRecorder struct {
	cycles  []*recorder.CycleRecord
	actions []*recorder.ActionRecord
}

func (c *captureRecorder) RecordCycle(rec *recorder.CycleRecord) error {
	c.cycles = append(c.cycles, rec)
	return nil
}

func (c *captureRecorder) RecordAction(rec *recorder.ActionRecord) error {
	c.actions = append(c.actions, rec)
	return nil
}

func (c *captureRecorder) Close() error { return nil }

type fakeExecutor struct {
	logins    int
	loginErr  error
	failOn    model.Category
	performed []string
	closed    bool
}

func (f *fakeExecutor) Login(_ context.Context) error {
	f.logins++
	return f.loginErr
}

func (f *fakeExecutor) Perform(_ context.Context, category model.Category, targetID string) error {
	f.performed = append(f.performed, string(category)+":"+targetID)
	if category == f.failOn && f.failOn != "" {
		return errors.New("action rejected in game")
	}
	return nil
}

func (f *fakeExecutor) Close() error {
	f.closed = true
	return nil
}

func statusResponse() map[string]json.RawMessage {
	return api.Raw(map[string]string{
		"name":      `"Duke"`,
		"player_id": `4`,
		"status":    `{"state": "okay"}`,
		"bars": `{
			"energy": {"current": 50, "maximum": 150},
			"nerve": {"current": 25, "maximum": 45},
			"happy": {"current": 4000, "maximum": 4025},
			"life": {"current": 700, "maximum": 700}
		}`,
		"cooldowns":     `{}`,
		"notifications": `{}`,
		"education":     `{"1": {"name": "Biology 101", "completed": 0}}`,
	})
}

func detailResponses() map[string]map[string]json.RawMessage {
	return map[string]map[string]json.RawMessage{
		"profile": statusResponse(),
		"crimes": api.Raw(map[string]string{"crimes": `{
			"1": {"name": "Search for cash", "success": 40, "nerve": 10},
			"2": {"name": "Bank robbery", "success": 75, "nerve": 30},
			"3": {"name": "Shoplift", "success": 60, "nerve": 20}
		}`}),
		"gyms":      api.Raw(map[string]string{"gyms": `{"1": {"name": "Premier Fitness"}}`}),
		"inventory": api.Raw(map[string]string{"inventory": `[{"ID": 5, "name": "Energy Drink"}]`}),
	}
}

func newTestScheduler(ctx context.Context, mock *api.MockFetcher, exec *fakeExecutor, rec *captureRecorder) *Scheduler {
	features := config.Features{Crimes: true, Gym: true, Items: true, Education: true}
	pol := policy.New(mock, features, rand.New(rand.NewSource(1)))
	return NewScheduler(ctx, mock, pol, exec, rec, true)
}

func TestRunCycle_FullPass(t *testing.T) {
	mock := &api.MockFetcher{Responses: detailResponses()}
	exec := &fakeExecutor{}
	rec := &captureRecorder{}
	s := newTestScheduler(context.Background(), mock, exec, rec)

	s.RunNow()

	snap := s.Snapshot()
	if snap == nil {
		t.Fatal("expected a snapshot after a successful cycle")
	}
	if len(rec.cycles) != 1 {
		t.Fatalf("expected one cycle record, got %d", len(rec.cycles))
	}
	// crime 3, one gym stat, item 5, course 1
	if rec.cycles[0].Decisions != 4 {
		t.Errorf("expected 4 decisions, got %d", rec.cycles[0].Decisions)
	}
	if rec.cycles[0].Nerve != 25 || rec.cycles[0].PlayerState != "okay" {
		t.Errorf("unexpected cycle record: %+v", rec.cycles[0])
	}
	if len(exec.performed) != 4 {
		t.Errorf("expected 4 performed actions, got %v", exec.performed)
	}
	if exec.performed[0] != "crime:3" {
		t.Errorf("expected crime 3 first, got %v", exec.performed)
	}
	if exec.logins != 1 {
		t.Errorf("expected exactly one login, got %d", exec.logins)
	}
	for _, a := range rec.actions {
		if !a.Success {
			t.Errorf("expected all actions to succeed, got %+v", a)
		}
	}
}

func TestRunCycle_SnapshotFailureLeavesPreviousUntouched(t *testing.T) {
	mock := &api.MockFetcher{Responses: detailResponses()}
	exec := &fakeExecutor{}
	rec := &captureRecorder{}
	s := newTestScheduler(context.Background(), mock, exec, rec)

	s.RunNow()
	first := s.Snapshot()
	if first == nil {
		t.Fatal("expected snapshot from first cycle")
	}
	actionsAfterFirst := len(rec.actions)

	mock.Errors = map[string]error{
		"profile": &api.Error{Kind: api.KindAPIRejected, Code: 9, Message: "api disabled"},
	}
	s.RunNow()

	if s.Snapshot() != first {
		t.Error("failed build must not replace the previous snapshot")
	}
	if len(rec.cycles) != 1 {
		t.Errorf("failed cycle should not be recorded, got %d", len(rec.cycles))
	}
	if len(rec.actions) != actionsAfterFirst {
		t.Errorf("failed cycle must produce zero decisions, got %d new actions", len(rec.actions)-actionsAfterFirst)
	}
}

func TestRunCycle_ExecutorFailureDoesNotBlockOtherDecisions(t *testing.T) {
	mock := &api.MockFetcher{Responses: detailResponses()}
	exec := &fakeExecutor{failOn: model.CategoryCrime}
	rec := &captureRecorder{}
	s := newTestScheduler(context.Background(), mock, exec, rec)

	s.RunNow()

	if len(rec.actions) != 4 {
		t.Fatalf("expected 4 action records, got %d", len(rec.actions))
	}
	var failed, succeeded int
	for _, a := range rec.actions {
		if a.Success {
			succeeded++
		} else {
			failed++
			if a.Category != string(model.CategoryCrime) {
				t.Errorf("only the crime action should fail, got %+v", a)
			}
			if a.Error == "" {
				t.Error("failed action should carry its error")
			}
		}
	}
	if failed != 1 || succeeded != 3 {
		t.Errorf("expected 1 failure and 3 successes, got %d/%d", failed, succeeded)
	}
}

func TestRunCycle_LoginOncePerProcess(t *testing.T) {
	mock := &api.MockFetcher{Responses: detailResponses()}
	exec := &fakeExecutor{}
	rec := &captureRecorder{}
	s := newTestScheduler(context.Background(), mock, exec, rec)

	s.RunNow()
	s.RunNow()

	if exec.logins != 1 {
		t.Errorf("login must not be re-invoked once authenticated, got %d", exec.logins)
	}
}

func TestRunCycle_LoginFailureIsPerDecision(t *testing.T) {
	mock := &api.MockFetcher{Responses: detailResponses()}
	exec := &fakeExecutor{loginErr: errors.New("captcha wall")}
	rec := &captureRecorder{}
	s := newTestScheduler(context.Background(), mock, exec, rec)

	s.RunNow()

	if len(rec.actions) != 4 {
		t.Fatalf("expected 4 action records, got %d", len(rec.actions))
	}
	for _, a := range rec.actions {
		if a.Success {
			t.Errorf("action should fail while login fails: %+v", a)
		}
	}
	if len(exec.performed) != 0 {
		t.Errorf("nothing should be performed without a login, got %v", exec.performed)
	}
}

func TestRunCycle_ObservesCancellation(t *testing.T) {
	mock := &api.MockFetcher{Responses: detailResponses()}
	exec := &fakeExecutor{}
	rec := &captureRecorder{}
	ctx, cancel := context.WithCancel(context.Background())
	s := newTestScheduler(ctx, mock, exec, rec)

	cancel()
	s.RunNow()

	if len(mock.Calls) != 0 {
		t.Errorf("cancelled cycle should not fetch, got %v", mock.Calls)
	}
	if s.Snapshot() != nil {
		t.Error("cancelled cycle should not build a snapshot")
	}
}

func TestStop_ReleasesExecutor(t *testing.T) {
	mock := &api.MockFetcher{Responses: detailResponses()}
	exec := &fakeExecutor{}
	rec := &captureRecorder{}
	s := newTestScheduler(context.Background(), mock, exec, rec)

	if err := s.Register(time.Minute); err != nil {
		t.Fatalf("register: %v", err)
	}
	s.Start()
	s.Stop()

	if !exec.closed {
		t.Error("Stop must close the executor")
	}
}
