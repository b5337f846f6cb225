package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/corso/puplog/internal/model"
)

type toiletStep int

const (
	toiletKind toiletStep = iota
	toiletLocation
	toiletHome
)

// Toilet sub-flow buttons.
const (
	toiletSolidButton  = "💩 Solid"
	toiletLiquidButton = "💧 Liquid"
	toiletOutside      = "Outside"
	toiletAtHome       = "Home"
	toiletOnPad        = "On the pad"
	toiletMissed       = "Missed"
)

// Toilet records an elimination event with its sub-location note.
type Toilet struct {
	deps   Deps
	user   int64
	step   toiletStep
	action model.Action
}

// NewToilet starts the toilet sub-flow.
func NewToilet(deps Deps, user int64) (*Toilet, Reply) {
	return &Toilet{deps: deps, user: user}, Reply{
		Text:     "Which kind?",
		Keyboard: [][]string{{toiletSolidButton, toiletLiquidButton}, {CancelButton}},
	}
}

// Step implements Handler.
func (f *Toilet) Step(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)

	switch f.step {
	case toiletKind:
		switch text {
		case toiletSolidButton:
			f.action = model.ToiletSolid
		case toiletLiquidButton:
			f.action = model.ToiletLiquid
		default:
			return Reply{Text: "Unknown choice.", Done: true}, nil
		}
		f.step = toiletLocation
		return Reply{
			Text:     "Where?",
			Keyboard: [][]string{{toiletOutside, toiletAtHome}, {CancelButton}},
		}, nil

	case toiletLocation:
		switch text {
		case toiletOutside:
			return f.record(ctx, model.NoteOutside)
		case toiletAtHome:
			f.step = toiletHome
			return Reply{
				Text:     "On the pad or missed?",
				Keyboard: [][]string{{toiletOnPad, toiletMissed}, {CancelButton}},
			}, nil
		default:
			return Reply{Text: "Unknown choice.", Done: true}, nil
		}

	case toiletHome:
		switch text {
		case toiletOnPad:
			return f.record(ctx, model.NoteHomePad)
		case toiletMissed:
			return f.record(ctx, model.NoteHomeMiss)
		default:
			return Reply{Text: "Unknown choice.", Done: true}, nil
		}
	}

	return Reply{Text: "Something went wrong.", Done: true}, nil
}

func (f *Toilet) record(ctx context.Context, note model.Note) (Reply, error) {
	now := f.deps.now()
	_, err := f.deps.Events.Append(ctx, model.Record{
		Action: f.action, Time: now, User: f.user, Note: note,
	})
	if err != nil {
		return Reply{}, fmt.Errorf("append toilet record: %w", err)
	}
	return Reply{
		Text: fmt.Sprintf("✅ %s %s at %s", model.Emoji[f.action], note, now.Format(model.ClockLayout)),
		Done: true,
	}, nil
}
