package editor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/kapu/cinefact-client-go/internal/api"
	"go.uber.org/zap"
)

// Mode is the editor's state machine position.
type Mode int

const (
	ModeDisplay Mode = iota
	ModeEditing
	ModeSaving
)

func (m Mode) String() string {
	switch m {
	case ModeDisplay:
		return "display"
	case ModeEditing:
		return "editing"
	case ModeSaving:
		return "saving"
	default:
		return "unknown"
	}
}

const msgEmptyTitle = "Please enter a movie title"

// WriteFunc issues the favorite-movie write. api.Client.UpdateFavoriteMovie
// satisfies it; tests substitute canned results.
type WriteFunc func(ctx context.Context, title string) api.Result[api.FavoriteMovieUpdate]

// State is a point-in-time snapshot of the editor.
type State struct {
	Mode         Mode
	Draft        string
	Committed    string
	ErrorMessage string
}

// Editor edits one string-valued field optimistically: a submit shows the
// new value to the observer before the write resolves, then either commits
// the server's confirmed value or reverts to the previous one. The saving
// state is non-interruptible, which serializes writes per instance.
//
// Transitions:
//
//	display --StartEdit--> editing
//	editing --Cancel-----> display            (draft discarded)
//	editing --Submit-----> editing            (empty draft, validation message)
//	editing --Submit-----> display            (draft == committed, no write)
//	editing --Submit-----> saving --ok--> display
//	                              --!ok-> editing  (reverted, inline error)
type Editor struct {
	mu        sync.Mutex
	mode      Mode
	draft     string
	committed string
	errMsg    string

	write   WriteFunc
	onValue func(value string)
	onStale func(previous string)
	logger  *zap.Logger
}

type Config struct {
	Initial        string
	Write          WriteFunc
	OnValueChanged func(value string)    // observer; at most twice per submit
	OnStale        func(previous string) // once per successful save
	Logger         *zap.Logger
}

func New(cfg Config) *Editor {
	ed := &Editor{
		mode:      ModeDisplay,
		committed: cfg.Initial,
		write:     cfg.Write,
		onValue:   cfg.OnValueChanged,
		onStale:   cfg.OnStale,
		logger:    cfg.Logger,
	}
	if ed.onValue == nil {
		ed.onValue = func(string) {}
	}
	if ed.onStale == nil {
		ed.onStale = func(string) {}
	}
	if ed.logger == nil {
		ed.logger = zap.NewNop()
	}
	return ed
}

// StartEdit moves display → editing, seeding the draft from the committed
// value and clearing any previous error.
func (e *Editor) StartEdit() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeDisplay {
		return fmt.Errorf("cannot start editing while %s", e.mode)
	}
	e.mode = ModeEditing
	e.draft = e.committed
	e.errMsg = ""
	return nil
}

// SetDraft replaces the scratch input. Only meaningful while editing.
func (e *Editor) SetDraft(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeEditing {
		return fmt.Errorf("cannot edit draft while %s", e.mode)
	}
	e.draft = value
	return nil
}

// Cancel discards the draft and returns to display. Covers both the cancel
// affordance and the Escape key; no network call is made. Not available
// while saving.
func (e *Editor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeEditing {
		return fmt.Errorf("cannot cancel while %s", e.mode)
	}
	e.mode = ModeDisplay
	e.draft = ""
	return nil
}

// Submit resolves the current draft. Empty drafts fail validation locally,
// unchanged drafts commit without a write, and real changes go through the
// optimistic save path. Branches on the result's OK discriminant only.
func (e *Editor) Submit(ctx context.Context) error {
	e.mu.Lock()

	if e.mode != ModeEditing {
		e.mu.Unlock()
		return fmt.Errorf("cannot submit while %s", e.mode)
	}

	trimmed := strings.TrimSpace(e.draft)

	if trimmed == "" {
		e.errMsg = msgEmptyTitle
		e.mu.Unlock()
		return nil
	}

	if trimmed == e.committed {
		e.mode = ModeDisplay
		e.draft = ""
		e.errMsg = ""
		e.mu.Unlock()
		return nil
	}

	previous := e.committed
	e.mode = ModeSaving
	e.errMsg = ""
	e.mu.Unlock()

	// Optimistic commit: the observer sees the new value before the write
	// is even issued.
	e.onValue(trimmed)

	result := e.write(ctx, trimmed)

	e.mu.Lock()
	if !result.OK {
		e.mode = ModeEditing
		e.errMsg = result.Err
		// Draft keeps the attempted value so the user can retry without
		// retyping.
		e.mu.Unlock()

		e.logger.Warn("Save failed, reverting",
			zap.String("attempted", trimmed),
			zap.Int("status", result.Status),
		)
		e.onValue(previous)
		return nil
	}

	confirmed := result.Data.FavoriteMovie
	e.mode = ModeDisplay
	e.committed = confirmed
	e.draft = ""
	e.mu.Unlock()

	e.logger.Info("Save committed",
		zap.String("previous", previous),
		zap.String("confirmed", confirmed),
	)

	e.onStale(previous)
	if confirmed != trimmed {
		// Server normalized the title; correct the optimistic value.
		e.onValue(confirmed)
	}
	return nil
}

// Reset replaces the committed value from a fresh server snapshot. Only
// valid in display mode so an in-flight edit is never clobbered.
func (e *Editor) Reset(value string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.mode != ModeDisplay {
		return fmt.Errorf("cannot reset while %s", e.mode)
	}
	e.committed = value
	e.errMsg = ""
	return nil
}

// Snapshot returns the current state for rendering.
func (e *Editor) Snapshot() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return State{
		Mode:         e.mode,
		Draft:        e.draft,
		Committed:    e.committed,
		ErrorMessage: e.errMsg,
	}
}

// Committed returns the last value the editor believes is persisted.
func (e *Editor) Committed() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.committed
}
