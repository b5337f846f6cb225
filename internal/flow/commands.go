package flow

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/corso/puplog/internal/model"
	"github.com/corso/puplog/internal/store"
)

type cmdStep int

const (
	cmdOp cmdStep = iota
	cmdName
	cmdDescription
)

// Command CRUD buttons.
const (
	cmdView      = "View"
	cmdAdd       = "Add"
	cmdEditOp    = "Edit"
	cmdDeleteOp  = "Delete"
)

// Commands is the learned-command CRUD flow.
type Commands struct {
	deps Deps
	user int64
	step cmdStep
	op   string
	name string
}

// NewCommands starts the learned-command flow.
func NewCommands(deps Deps, user int64) (*Commands, Reply) {
	return &Commands{deps: deps, user: user}, Reply{
		Text:     "Commands: what do you want to do?",
		Keyboard: [][]string{{cmdView, cmdAdd}, {cmdEditOp, cmdDeleteOp}, {CancelButton}},
	}
}

// Step implements Handler.
func (f *Commands) Step(ctx context.Context, text string) (Reply, error) {
	text = strings.TrimSpace(text)

	switch f.step {
	case cmdOp:
		switch text {
		case cmdView:
			cmds, err := f.deps.Commands.Commands(ctx)
			if err != nil {
				return Reply{}, fmt.Errorf("list commands: %w", err)
			}
			if len(cmds) == 0 {
				return Reply{Text: "No commands yet.", Done: true}, nil
			}
			var b strings.Builder
			for _, c := range cmds {
				fmt.Fprintf(&b, "• %s — %s\n", c.Name, c.Description)
			}
			return Reply{Text: strings.TrimRight(b.String(), "\n"), Done: true}, nil
		case cmdAdd, cmdEditOp, cmdDeleteOp:
			f.op = text
			f.step = cmdName
			return Reply{Text: "Command name?", Keyboard: cancelRow()}, nil
		default:
			return Reply{Text: "Unknown choice.", Done: true}, nil
		}

	case cmdName:
		if text == "" {
			return Reply{Text: "Name can't be empty, try again.", Keyboard: cancelRow()}, nil
		}
		switch f.op {
		case cmdAdd:
			f.name = text
			f.step = cmdDescription
			return Reply{Text: "Description?", Keyboard: cancelRow()}, nil
		case cmdEditOp:
			if _, err := f.deps.Commands.GetCommand(ctx, text); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return Reply{Text: fmt.Sprintf("No command named %q.", text), Done: true}, nil
				}
				return Reply{}, fmt.Errorf("lookup command: %w", err)
			}
			f.name = text
			f.step = cmdDescription
			return Reply{Text: "New description?", Keyboard: cancelRow()}, nil
		case cmdDeleteOp:
			if err := f.deps.Commands.DeleteCommand(ctx, text); err != nil {
				if errors.Is(err, store.ErrNotFound) {
					return Reply{Text: fmt.Sprintf("No command named %q.", text), Done: true}, nil
				}
				return Reply{}, fmt.Errorf("delete command: %w", err)
			}
			return Reply{Text: "🗑 Command removed.", Done: true}, nil
		}

	case cmdDescription:
		err := f.deps.Commands.UpsertCommand(ctx, model.Command{Name: f.name, Description: text})
		if err != nil {
			return Reply{}, fmt.Errorf("save command: %w", err)
		}
		return Reply{Text: fmt.Sprintf("✅ Saved %q.", f.name), Done: true}, nil
	}

	return Reply{Text: "Something went wrong.", Done: true}, nil
}
