package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/corso/puplog/internal/model"
)

type lastStep int

const (
	lastAction lastStep = iota
	lastCount
)

// lastCounts is the offered set of listing sizes.
var lastCounts = []int{2, 5, 10, 15}

// Last lists the most recent records of one action.
type Last struct {
	deps   Deps
	user   int64
	step   lastStep
	action model.Action
}

// NewLast starts the recent-records flow.
func NewLast(deps Deps, user int64) (*Last, Reply) {
	return &Last{deps: deps, user: user},
		Reply{Text: "Which action?", Keyboard: actionKeyboard()}
}

// Step implements Handler.
func (f *Last) Step(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)

	switch f.step {
	case lastAction:
		a := model.Action(text)
		if !model.Known(a) {
			return Reply{Text: "Unknown action.", Done: true}, nil
		}
		f.action = a
		f.step = lastCount
		var row []string
		for _, n := range lastCounts {
			row = append(row, strconv.Itoa(n))
		}
		return Reply{Text: "How many?", Keyboard: [][]string{row, {CancelButton}}}, nil

	case lastCount:
		n, err := strconv.Atoi(text)
		if err != nil || !offeredCount(n) {
			return Reply{Text: "Pick one of the offered counts.", Done: true}, nil
		}
		recs, err := f.deps.Events.Recent(ctx, f.action, n)
		if err != nil {
			return Reply{}, fmt.Errorf("list recent %s: %w", f.action, err)
		}
		return Reply{Text: FormatRecent(f.action, recs), Done: true}, nil
	}

	return Reply{Text: "Something went wrong.", Done: true}, nil
}

func offeredCount(n int) bool {
	for _, c := range lastCounts {
		if n == c {
			return true
		}
	}
	return false
}

// FormatRecent renders a newest-first record listing. Shared with the
// /last slash command.
func FormatRecent(action model.Action, recs []model.Record) string {
	if len(recs) == 0 {
		return fmt.Sprintf("No %s records yet.", action)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s Last %d × %s:\n", model.Emoji[action], len(recs), action)
	for _, r := range recs {
		fmt.Fprintf(&b, "• %s%s\n", model.FormatTime(r.Time), noteSuffix(r.Note))
	}
	return strings.TrimRight(b.String(), "\n")
}
