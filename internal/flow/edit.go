package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/corso/puplog/internal/model"
)

type editStep int

const (
	editAction editStep = iota
	editIndex
	editOp
	editNewTime
)

// Edit flow operation buttons.
const (
	opEditStart = "Edit start"
	opEditEnd   = "Edit end"
	opDelete    = "Delete"
)

// Edit lets the caller fix or remove one of the last ten records of an
// action. Mutations target the selected record's id, never a lookalike.
type Edit struct {
	deps   Deps
	user   int64
	step   editStep
	action model.Action
	listed []model.Record
	target model.Record
}

// NewEdit starts the edit/delete flow.
func NewEdit(deps Deps, user int64) (*Edit, Reply) {
	return &Edit{deps: deps, user: user},
		Reply{Text: "Which action do you want to edit?", Keyboard: actionKeyboard()}
}

// Step implements Handler.
func (f *Edit) Step(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)

	switch f.step {
	case editAction:
		a := model.Action(text)
		if !model.Known(a) {
			return Reply{Text: "Unknown action.", Done: true}, nil
		}
		recs, err := f.deps.Events.Recent(ctx, a, 10)
		if err != nil {
			return Reply{}, fmt.Errorf("list recent %s: %w", a, err)
		}
		if len(recs) == 0 {
			return Reply{Text: fmt.Sprintf("No %s records yet.", a), Done: true}, nil
		}
		f.action = a
		f.listed = recs
		f.step = editIndex

		var b strings.Builder
		b.WriteString("Pick a record by number:\n")
		for i, r := range recs {
			fmt.Fprintf(&b, "%d. %s%s\n", i+1, model.FormatTime(r.Time), noteSuffix(r.Note))
		}
		return Reply{Text: strings.TrimRight(b.String(), "\n"), Keyboard: cancelRow()}, nil

	case editIndex:
		idx, err := strconv.Atoi(text)
		if err != nil || idx < 1 || idx > len(f.listed) {
			return Reply{Text: "That's not one of the numbers.", Done: true}, nil
		}
		f.target = f.listed[idx-1]
		f.step = editOp
		return Reply{
			Text:     "What should I do with it?",
			Keyboard: [][]string{{opEditStart, opEditEnd}, {opDelete}, {CancelButton}},
		}, nil

	case editOp:
		switch text {
		case opDelete:
			if err := f.deps.Events.Delete(ctx, f.target.ID); err != nil {
				return Reply{}, fmt.Errorf("delete record: %w", err)
			}
			return Reply{Text: "🗑 Deleted.", Done: true}, nil
		case opEditStart:
			if f.target.Note == model.NoteEnd {
				return Reply{Text: "That record is an end mark.", Done: true}, nil
			}
		case opEditEnd:
			if f.target.Note != model.NoteEnd {
				return Reply{Text: "That record has no end mark.", Done: true}, nil
			}
		default:
			return Reply{Text: "Unknown operation.", Done: true}, nil
		}
		f.step = editNewTime
		return Reply{Text: "New time? (DD.MM.YYYY HH:MM)", Keyboard: cancelRow()}, nil

	case editNewTime:
		t, err := model.ParseInput(text)
		if err != nil {
			return Reply{Text: "Bad format, try again: DD.MM.YYYY HH:MM", Keyboard: cancelRow()}, nil
		}
		if err := f.deps.Events.SetTime(ctx, f.target.ID, t); err != nil {
			return Reply{}, fmt.Errorf("set record time: %w", err)
		}
		return Reply{
			Text: fmt.Sprintf("✏️ %s moved to %s", f.action, model.FormatTime(t)),
			Done: true,
		}, nil
	}

	return Reply{Text: "Something went wrong.", Done: true}, nil
}

func noteSuffix(n model.Note) string {
	if n == model.NoteNone {
		return ""
	}
	return " (" + string(n) + ")"
}
