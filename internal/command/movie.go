package command

import (
	"context"
	"fmt"
	"strings"

	"github.com/kapu/cinefact-client-go/internal/editor"
	"go.uber.org/zap"
)

// MovieCommand drives the optimistic favorite-movie editor.
//
//	movie            show the current value and any pending edit
//	movie <title>    edit and submit the new title
//	movie cancel     discard a pending edit
type MovieCommand struct {
	deps *Dependencies
}

func NewMovieCommand(deps *Dependencies) *MovieCommand {
	return &MovieCommand{deps: deps}
}

func (c *MovieCommand) Name() string {
	return "movie"
}

func (c *MovieCommand) Description() string {
	return "Set your favorite movie (movie <title>)"
}

func (c *MovieCommand) Execute(ctx context.Context, args []string) error {
	if len(args) == 0 {
		c.printState()
		return nil
	}

	if len(args) == 1 && strings.EqualFold(args[0], "cancel") {
		if err := c.deps.Editor.Cancel(); err != nil {
			c.deps.PrintError(err.Error())
			return nil
		}
		c.deps.Print("Edit discarded.")
		return nil
	}

	title := strings.Join(args, " ")

	// A failed submit leaves the editor in editing mode with the draft
	// intact; a retry replaces the draft instead of starting over.
	if c.deps.Editor.Snapshot().Mode == editor.ModeDisplay {
		if err := c.deps.Editor.StartEdit(); err != nil {
			c.deps.PrintError(err.Error())
			return nil
		}
	}
	if err := c.deps.Editor.SetDraft(title); err != nil {
		c.deps.PrintError(err.Error())
		return nil
	}

	if err := c.deps.Editor.Submit(ctx); err != nil {
		c.deps.PrintError(err.Error())
		return nil
	}

	state := c.deps.Editor.Snapshot()
	if state.ErrorMessage != "" {
		c.deps.PrintError(state.ErrorMessage)
		if state.Mode == editor.ModeEditing && state.Draft != "" {
			c.deps.Print(fmt.Sprintf("Your entry %q is kept - run 'movie %s' to retry or 'movie cancel'.",
				state.Draft, state.Draft))
		}
		return nil
	}

	c.deps.Logger.Info("Favorite movie saved", zap.String("movie", state.Committed))
	c.deps.Print(fmt.Sprintf("Favorite movie saved: %s", state.Committed))
	return nil
}

func (c *MovieCommand) printState() {
	state := c.deps.Editor.Snapshot()

	if state.Committed == "" {
		c.deps.Print("No favorite movie yet - set one with 'movie <title>'.")
	} else {
		c.deps.Print(fmt.Sprintf("Favorite movie: %s", state.Committed))
	}

	if state.Mode == editor.ModeEditing {
		c.deps.Print(fmt.Sprintf("Pending edit: %q ('movie cancel' discards it)", state.Draft))
		if state.ErrorMessage != "" {
			c.deps.PrintError(state.ErrorMessage)
		}
	}
}
