package flow

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/corso/puplog/internal/model"
	"github.com/corso/puplog/internal/store"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.Local)

func newDeps(t *testing.T) (Deps, *store.SQLiteStore) {
	t.Helper()
	s, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"), store.Options{})
	if err != nil {
		t.Fatalf("create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return Deps{Events: s, Settings: s, Commands: s, Now: func() time.Time { return testNow }}, s
}

func step(t *testing.T, h Handler, text string) Reply {
	t.Helper()
	reply, err := h.Step(context.Background(), text)
	if err != nil {
		t.Fatalf("step %q: %v", text, err)
	}
	return reply
}

func countRecords(t *testing.T, s *store.SQLiteStore) int {
	t.Helper()
	recs, err := s.Since(context.Background(), time.Time{})
	if err != nil {
		t.Fatalf("since: %v", err)
	}
	return len(recs)
}

func TestPostfactSleep(t *testing.T) {
	deps, s := newDeps(t)
	h, _ := NewPostfact(deps, 1)

	step(t, h, "Sleep")
	step(t, h, "30.08.2026 22:00")
	reply := step(t, h, "31.08.2026 06:30")
	if !reply.Done {
		t.Fatal("expected flow to finish")
	}

	recs, _ := s.Since(context.Background(), time.Time{})
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if recs[0].Note != model.NoteStart || recs[1].Note != model.NoteEnd {
		t.Errorf("expected start/end pair, got %s/%s", recs[0].Note, recs[1].Note)
	}
}

func TestPostfactWalkDuration(t *testing.T) {
	deps, s := newDeps(t)
	h, _ := NewPostfact(deps, 1)

	step(t, h, "Walk")
	step(t, h, "31.08.2026 09:00")
	reply := step(t, h, "45")
	if !reply.Done {
		t.Fatal("expected flow to finish")
	}

	recs, _ := s.Since(context.Background(), time.Time{})
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if got := recs[1].Time.Sub(recs[0].Time); got != 45*time.Minute {
		t.Errorf("expected 45m span, got %v", got)
	}
}

func TestPostfactDurationColonForm(t *testing.T) {
	deps, s := newDeps(t)
	h, _ := NewPostfact(deps, 1)

	step(t, h, "Bio walk")
	step(t, h, "31.08.2026 09:00")
	step(t, h, "1:30")

	recs, _ := s.Since(context.Background(), time.Time{})
	if got := recs[1].Time.Sub(recs[0].Time); got != 90*time.Minute {
		t.Errorf("expected 1h30m span, got %v", got)
	}
}

func TestPostfactBadTimestampReprompts(t *testing.T) {
	deps, s := newDeps(t)
	h, _ := NewPostfact(deps, 1)

	step(t, h, "Feed")
	reply := step(t, h, "yesterday-ish")
	if reply.Done {
		t.Fatal("malformed timestamp must re-prompt, not abort")
	}
	reply = step(t, h, "31.08.2026 08:00")
	if !reply.Done {
		t.Fatal("expected valid timestamp to finish the flow")
	}
	if countRecords(t, s) != 1 {
		t.Error("expected one instantaneous record")
	}
}

func TestPostfactUnknownActionAborts(t *testing.T) {
	deps, s := newDeps(t)
	h, _ := NewPostfact(deps, 1)

	reply := step(t, h, "Juggling")
	if !reply.Done {
		t.Fatal("unknown action must abort the flow")
	}
	if countRecords(t, s) != 0 {
		t.Error("aborted flow must not write records")
	}
}

func seedWalkPair(t *testing.T, s *store.SQLiteStore) []model.Record {
	t.Helper()
	start := testNow.Add(-2 * time.Hour)
	recs, err := s.Append(context.Background(),
		model.Record{Action: model.Walk, Time: start, User: 1, Note: model.NoteStart},
		model.Record{Action: model.Walk, Time: start.Add(30 * time.Minute), User: 1, Note: model.NoteEnd},
	)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	return recs
}

func TestEditEndTouchesOnlyTarget(t *testing.T) {
	deps, s := newDeps(t)
	seeded := seedWalkPair(t, s)
	h, _ := NewEdit(deps, 1)

	step(t, h, "Walk")
	// Listing is newest first, so index 1 is the end record.
	step(t, h, "1")
	step(t, h, opEditEnd)
	reply := step(t, h, "31.08.2026 11:00")
	if !reply.Done {
		t.Fatal("expected flow to finish")
	}

	all, _ := s.Since(context.Background(), time.Time{})
	for _, r := range all {
		switch r.ID {
		case seeded[0].ID:
			if !r.Time.Equal(seeded[0].Time) {
				t.Error("paired start record was touched")
			}
		case seeded[1].ID:
			want := time.Date(2026, 8, 31, 11, 0, 0, 0, time.Local)
			if !r.Time.Equal(want) {
				t.Errorf("end record not moved: %v", r.Time)
			}
		}
	}
}

func TestEditDelete(t *testing.T) {
	deps, s := newDeps(t)
	seedWalkPair(t, s)
	h, _ := NewEdit(deps, 1)

	step(t, h, "Walk")
	step(t, h, "1")
	reply := step(t, h, opDelete)
	if !reply.Done {
		t.Fatal("expected flow to finish")
	}
	if countRecords(t, s) != 1 {
		t.Errorf("expected exactly one record deleted, %d left", countRecords(t, s))
	}
}

func TestEditInvalidIndexAborts(t *testing.T) {
	deps, s := newDeps(t)
	seedWalkPair(t, s)
	h, _ := NewEdit(deps, 1)

	step(t, h, "Walk")
	reply := step(t, h, "nope")
	if !reply.Done {
		t.Fatal("invalid index must abort")
	}
	if countRecords(t, s) != 2 {
		t.Error("aborted flow must not mutate the store")
	}
}

func TestEditNoRecordsAborts(t *testing.T) {
	deps, _ := newDeps(t)
	h, _ := NewEdit(deps, 1)

	reply := step(t, h, "Play")
	if !reply.Done {
		t.Fatal("expected abort when no records exist")
	}
}

func TestToiletOutside(t *testing.T) {
	deps, s := newDeps(t)
	h, _ := NewToilet(deps, 1)

	step(t, h, toiletSolidButton)
	reply := step(t, h, toiletOutside)
	if !reply.Done {
		t.Fatal("expected flow to finish")
	}

	recs, _ := s.Since(context.Background(), time.Time{})
	if len(recs) != 1 || recs[0].Action != model.ToiletSolid || recs[0].Note != model.NoteOutside {
		t.Errorf("unexpected record: %+v", recs)
	}
}

func TestToiletHomeMissed(t *testing.T) {
	deps, s := newDeps(t)
	h, _ := NewToilet(deps, 1)

	step(t, h, toiletLiquidButton)
	step(t, h, toiletAtHome)
	step(t, h, toiletMissed)

	recs, _ := s.Since(context.Background(), time.Time{})
	if len(recs) != 1 || recs[0].Note != model.NoteHomeMiss {
		t.Errorf("unexpected record: %+v", recs)
	}
}

func TestLastFlow(t *testing.T) {
	deps, s := newDeps(t)
	s.Append(context.Background(),
		model.Record{Action: model.Feed, Time: testNow.Add(-time.Hour), User: 1},
		model.Record{Action: model.Feed, Time: testNow.Add(-2 * time.Hour), User: 1},
	)
	h, _ := NewLast(deps, 1)

	step(t, h, "Feed")
	reply := step(t, h, "5")
	if !reply.Done {
		t.Fatal("expected flow to finish")
	}
	if !strings.Contains(reply.Text, "Last 2 × Feed") {
		t.Errorf("unexpected listing: %s", reply.Text)
	}
}

func TestLastUnofferedCountAborts(t *testing.T) {
	deps, _ := newDeps(t)
	h, _ := NewLast(deps, 1)

	step(t, h, "Feed")
	reply := step(t, h, "7")
	if !reply.Done {
		t.Fatal("expected abort on a count outside the offered set")
	}
}

func TestCommandsAddAndView(t *testing.T) {
	deps, _ := newDeps(t)

	h, _ := NewCommands(deps, 1)
	step(t, h, cmdAdd)
	step(t, h, "sit")
	reply := step(t, h, "sits on command")
	if !reply.Done {
		t.Fatal("expected add to finish")
	}

	h2, _ := NewCommands(deps, 1)
	reply = step(t, h2, cmdView)
	if !reply.Done || !strings.Contains(reply.Text, "sit — sits on command") {
		t.Errorf("unexpected view: %s", reply.Text)
	}
}

func TestCommandsEditUnknownAborts(t *testing.T) {
	deps, _ := newDeps(t)
	h, _ := NewCommands(deps, 1)

	step(t, h, cmdEditOp)
	reply := step(t, h, "ghost")
	if !reply.Done {
		t.Fatal("expected abort for unknown command")
	}
}

func TestScheduleFlow(t *testing.T) {
	deps, s := newDeps(t)
	h, _ := NewSchedule(context.Background(), deps, 1)

	step(t, h, "07:30")
	reply := step(t, h, "half past twelve")
	if reply.Done {
		t.Fatal("malformed time must re-prompt")
	}
	step(t, h, "12:30")
	step(t, h, "17:45")
	reply = step(t, h, "22:15")
	if !reply.Done {
		t.Fatal("expected the last slot to finish the flow")
	}

	set := s.Settings(context.Background())
	if set.MealAt(model.MealBreakfast) != "07:30" || set.MealAt(model.MealLateDinner) != "22:15" {
		t.Errorf("schedule not saved: %+v", set.Meals)
	}
}

func TestFeedingsFlow(t *testing.T) {
	deps, s := newDeps(t)
	h, _ := NewFeedings(context.Background(), deps, 1)

	reply := step(t, h, "three")
	if reply.Done {
		t.Fatal("non-integer must re-prompt")
	}
	reply = step(t, h, "3")
	if !reply.Done {
		t.Fatal("expected flow to finish")
	}
	if got := s.Settings(context.Background()).FeedingsPerDay; got != 3 {
		t.Errorf("expected 3 feedings, got %d", got)
	}
}

func TestManagerCancelLeavesStoresUntouched(t *testing.T) {
	deps, s := newDeps(t)
	m := NewManager()

	h, _ := NewPostfact(deps, 1)
	m.Start(1, h)
	step := func(text string) Reply {
		reply, _, err := m.Handle(context.Background(), 1, text)
		if err != nil {
			t.Fatalf("handle: %v", err)
		}
		return reply
	}

	step("Sleep")
	step("30.08.2026 22:00")
	reply := step(CancelButton)
	if !reply.Done || reply.Text != "Cancelled." {
		t.Fatalf("expected cancel reply, got %+v", reply)
	}
	if m.Active(1) {
		t.Error("cancel must release the flow state")
	}
	if countRecords(t, s) != 0 {
		t.Error("cancelled flow must leave the store unchanged")
	}

	cmds, _ := s.Commands(context.Background())
	if len(cmds) != 0 {
		t.Error("cancelled flow must not touch commands")
	}
	if got := s.Settings(context.Background()); got.FeedingsPerDay != 4 {
		t.Error("cancelled flow must not touch settings")
	}
}

func TestManagerNoFlow(t *testing.T) {
	m := NewManager()
	_, handled, _ := m.Handle(context.Background(), 1, "hello")
	if handled {
		t.Error("expected no active flow")
	}
}
