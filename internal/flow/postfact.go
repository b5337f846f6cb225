package flow

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/corso/puplog/internal/model"
)

type postfactStep int

const (
	postfactAction postfactStep = iota
	postfactStart
	postfactEnd
	postfactDuration
)

// Postfact is the manual backfill flow: record an activity that already
// happened, including interval actions with an explicit end or duration.
type Postfact struct {
	deps   Deps
	user   int64
	step   postfactStep
	action model.Action
	start  time.Time
}

// NewPostfact starts the backfill flow.
func NewPostfact(deps Deps, user int64) (*Postfact, Reply) {
	return &Postfact{deps: deps, user: user},
		Reply{Text: "What should I add?", Keyboard: actionKeyboard()}
}

// Step implements Handler.
func (f *Postfact) Step(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)

	switch f.step {
	case postfactAction:
		a := model.Action(text)
		if !model.Known(a) {
			return Reply{Text: "Unknown action.", Done: true}, nil
		}
		f.action = a
		f.step = postfactStart
		return Reply{Text: "When did it start? (DD.MM.YYYY HH:MM)", Keyboard: cancelRow()}, nil

	case postfactStart:
		t, err := model.ParseInput(text)
		if err != nil {
			return Reply{Text: "Bad format, try again: DD.MM.YYYY HH:MM", Keyboard: cancelRow()}, nil
		}
		f.start = t
		switch {
		case f.action == model.Sleep:
			f.step = postfactEnd
			return Reply{Text: "When did it end? (DD.MM.YYYY HH:MM)", Keyboard: cancelRow()}, nil
		case f.action == model.Walk || f.action == model.BioWalk:
			f.step = postfactDuration
			return Reply{Text: "How long? Minutes or H:MM", Keyboard: cancelRow()}, nil
		default:
			_, err := f.deps.Events.Append(ctx, model.Record{
				Action: f.action, Time: f.start, User: f.user,
			})
			if err != nil {
				return Reply{}, fmt.Errorf("append %s: %w", f.action, err)
			}
			return Reply{
				Text: fmt.Sprintf("✅ Recorded: %s at %s", f.action, model.FormatTime(f.start)),
				Done: true,
			}, nil
		}

	case postfactEnd:
		end, err := model.ParseInput(text)
		if err != nil {
			return Reply{Text: "Bad format, try again: DD.MM.YYYY HH:MM", Keyboard: cancelRow()}, nil
		}
		return f.finishInterval(ctx, end)

	case postfactDuration:
		mins, err := parseDuration(text)
		if err != nil {
			return Reply{Text: "Give me minutes (e.g. 45) or H:MM", Keyboard: cancelRow()}, nil
		}
		return f.finishInterval(ctx, f.start.Add(time.Duration(mins)*time.Minute))
	}

	return Reply{Text: "Something went wrong.", Done: true}, nil
}

func (f *Postfact) finishInterval(ctx context.Context, end time.Time) (Reply, error) {
	_, err := f.deps.Events.Append(ctx,
		model.Record{Action: f.action, Time: f.start, User: f.user, Note: model.NoteStart},
		model.Record{Action: f.action, Time: end, User: f.user, Note: model.NoteEnd},
	)
	if err != nil {
		return Reply{}, fmt.Errorf("append %s interval: %w", f.action, err)
	}
	return Reply{
		Text: fmt.Sprintf("✅ %s from %s to %s", f.action,
			f.start.Format(model.ClockLayout), end.Format(model.ClockLayout)),
		Done: true,
	}, nil
}

// parseDuration accepts plain minutes or "H:MM".
func parseDuration(s string) (int, error) {
	if h, m, ok := strings.Cut(s, ":"); ok {
		hours, err := strconv.Atoi(strings.TrimSpace(h))
		if err != nil {
			return 0, err
		}
		mins, err := strconv.Atoi(strings.TrimSpace(m))
		if err != nil {
			return 0, err
		}
		return hours*60 + mins, nil
	}
	return strconv.Atoi(strings.TrimSpace(s))
}
