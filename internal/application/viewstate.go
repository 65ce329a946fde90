package application

import (
	"errors"
	"sync"
)

type ViewMode int

const (
	ModeNoSession ViewMode = iota
	ModeBrowsing
	ModeViewing
	ModeCreating
	ModeEditing
)

func (m ViewMode) String() string {
	switch m {
	case ModeNoSession:
		return "no-session"
	case ModeBrowsing:
		return "browsing"
	case ModeViewing:
		return "viewing"
	case ModeCreating:
		return "creating"
	case ModeEditing:
		return "editing"
	default:
		return "unknown"
	}
}

var (
	ErrEditInProgress = errors.New("finish or cancel the current edit first")
	ErrNoSelection    = errors.New("no note selected")
)

// ViewState tracks which note is selected and whether the client is
// creating, editing, or viewing. Exactly one mode holds at a time, and the
// selection never outlives the user action or save outcome that set it.
type ViewState struct {
	mu       sync.Mutex
	mode     ViewMode
	selected uint64
}

func NewViewState() *ViewState {
	return &ViewState{mode: ModeNoSession}
}

// Snapshot returns the current mode and, for Viewing/Editing, the selection.
func (v *ViewState) Snapshot() (ViewMode, uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.mode, v.selected
}

// OnSessionChange moves to Browsing on authentication and to NoSession on
// session loss, dropping any selection or unsaved mode. Wire it to
// SessionService.OnSessionChange.
func (v *ViewState) OnSessionChange(authenticated bool) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if authenticated {
		if v.mode == ModeNoSession {
			v.mode = ModeBrowsing
			v.selected = 0
		}
		return
	}
	v.mode = ModeNoSession
	v.selected = 0
}

// Select moves to Viewing(id). Selecting while an edit or creation is open
// is refused; the user cancels or saves first.
func (v *ViewState) Select(id uint64) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch v.mode {
	case ModeNoSession:
		return errors.New("connect first")
	case ModeCreating, ModeEditing:
		return ErrEditInProgress
	}
	v.mode = ModeViewing
	v.selected = id
	return nil
}

// StartCreate opens a new-note form from Browsing or Viewing. Without a
// session it is a no-op.
func (v *ViewState) StartCreate() {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mode == ModeBrowsing || v.mode == ModeViewing {
		v.mode = ModeCreating
		v.selected = 0
	}
}

// StartEdit opens the editor for the currently viewed note.
func (v *ViewState) StartEdit() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.mode != ModeViewing {
		return ErrNoSelection
	}
	v.mode = ModeEditing
	return nil
}

// Cancel abandons the open form. Creation has no prior selection to return
// to, so it falls back to Browsing; an edit returns to viewing the same
// note.
func (v *ViewState) Cancel() {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch v.mode {
	case ModeCreating:
		v.mode = ModeBrowsing
		v.selected = 0
	case ModeEditing:
		v.mode = ModeViewing
	}
}

// SaveSucceeded applies a confirmed save outcome. A create moves to viewing
// the new note when its id was recovered and to Browsing otherwise; an edit
// returns to viewing the same note. Failed saves must not call this: the
// form stays open.
func (v *ViewState) SaveSucceeded(newID *uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	switch v.mode {
	case ModeCreating:
		if newID != nil {
			v.mode = ModeViewing
			v.selected = *newID
		} else {
			v.mode = ModeBrowsing
			v.selected = 0
		}
	case ModeEditing:
		v.mode = ModeViewing
	}
}

// NoteDeleted clears the selection after a confirmed delete of the note it
// pointed at.
func (v *ViewState) NoteDeleted(id uint64) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if (v.mode == ModeViewing || v.mode == ModeEditing) && v.selected == id {
		v.mode = ModeBrowsing
		v.selected = 0
	}
}
