package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/corso/puplog/internal/model"
)

// Schedule walks the caller through every meal slot in order, one clock
// time per step. Malformed input re-prompts without advancing; nothing is
// persisted until the last slot is filled.
type Schedule struct {
	deps  Deps
	user  int64
	slots []model.Meal
	next  int
}

// NewSchedule starts the schedule editing flow.
func NewSchedule(ctx context.Context, deps Deps, user int64) (*Schedule, Reply) {
	current := deps.Settings.Settings(ctx)
	f := &Schedule{deps: deps, user: user, slots: append([]model.Meal(nil), current.Meals...)}
	return f, Reply{Text: f.prompt(), Keyboard: cancelRow()}
}

func (f *Schedule) prompt() string {
	slot := f.slots[f.next]
	return fmt.Sprintf("Time for %s? (HH:MM, currently %s)", slot.Name, slot.At)
}

// Step implements Handler.
func (f *Schedule) Step(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)

	minutes, err := model.ParseClock(text)
	if err != nil {
		return Reply{Text: "Bad time, use HH:MM.", Keyboard: cancelRow()}, nil
	}
	f.slots[f.next].At = model.FormatClock(minutes)
	f.next++

	if f.next < len(f.slots) {
		return Reply{Text: f.prompt(), Keyboard: cancelRow()}, nil
	}

	set := f.deps.Settings.Settings(ctx)
	set.Meals = f.slots
	if err := f.deps.Settings.SaveSettings(ctx, set); err != nil {
		return Reply{}, fmt.Errorf("save schedule: %w", err)
	}

	var b strings.Builder
	b.WriteString("✅ Schedule saved:\n")
	for _, m := range f.slots {
		fmt.Fprintf(&b, "• %s — %s\n", m.Name, m.At)
	}
	return Reply{Text: strings.TrimRight(b.String(), "\n"), Done: true}, nil
}

// Feedings is the single-step feedings-per-day flow.
type Feedings struct {
	deps Deps
	user int64
}

// NewFeedings starts the feedings-per-day flow.
func NewFeedings(ctx context.Context, deps Deps, user int64) (*Feedings, Reply) {
	current := deps.Settings.Settings(ctx)
	return &Feedings{deps: deps, user: user}, Reply{
		Text:     fmt.Sprintf("How many feedings per day? (currently %d)", current.FeedingsPerDay),
		Keyboard: cancelRow(),
	}
}

// Step implements Handler.
func (f *Feedings) Step(ctx context.Context, text string) (Reply, error) {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || n < 1 {
		return Reply{Text: "Give me a whole number.", Keyboard: cancelRow()}, nil
	}

	set := f.deps.Settings.Settings(ctx)
	set.FeedingsPerDay = n
	if err := f.deps.Settings.SaveSettings(ctx, set); err != nil {
		return Reply{}, fmt.Errorf("save feedings: %w", err)
	}
	return Reply{Text: fmt.Sprintf("✅ %d feedings per day.", n), Done: true}, nil
}
