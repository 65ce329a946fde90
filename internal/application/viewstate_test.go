package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestViewStateStartsWithoutSession(t *testing.T) {
	view := NewViewState()

	mode, _ := view.Snapshot()
	assert.Equal(t, ModeNoSession, mode)

	require.Error(t, view.Select(1))
	require.ErrorIs(t, view.StartEdit(), ErrNoSelection)

	view.StartCreate()
	mode, _ = view.Snapshot()
	assert.Equal(t, ModeNoSession, mode)
}

func TestViewStateSelectAndEdit(t *testing.T) {
	view := NewViewState()
	view.OnSessionChange(true)

	mode, _ := view.Snapshot()
	require.Equal(t, ModeBrowsing, mode)

	require.NoError(t, view.Select(3))
	mode, selected := view.Snapshot()
	assert.Equal(t, ModeViewing, mode)
	assert.Equal(t, uint64(3), selected)

	require.NoError(t, view.StartEdit())
	mode, selected = view.Snapshot()
	assert.Equal(t, ModeEditing, mode)
	assert.Equal(t, uint64(3), selected)

	// Switching notes mid-edit is refused.
	require.ErrorIs(t, view.Select(4), ErrEditInProgress)

	view.Cancel()
	mode, selected = view.Snapshot()
	assert.Equal(t, ModeViewing, mode)
	assert.Equal(t, uint64(3), selected)
}

func TestViewStateCreateFlow(t *testing.T) {
	view := NewViewState()
	view.OnSessionChange(true)

	view.StartCreate()
	mode, _ := view.Snapshot()
	require.Equal(t, ModeCreating, mode)

	// A creation has no selection, so edit cannot start from it.
	require.ErrorIs(t, view.StartEdit(), ErrNoSelection)
	mode, _ = view.Snapshot()
	assert.Equal(t, ModeCreating, mode)

	newID := uint64(7)
	view.SaveSucceeded(&newID)
	mode, selected := view.Snapshot()
	assert.Equal(t, ModeViewing, mode)
	assert.Equal(t, uint64(7), selected)

	// Without a recovered id there is nothing to view.
	view.StartCreate()
	view.SaveSucceeded(nil)
	mode, selected = view.Snapshot()
	assert.Equal(t, ModeBrowsing, mode)
	assert.Equal(t, uint64(0), selected)
}

func TestViewStateCancelCreateReturnsToBrowsing(t *testing.T) {
	view := NewViewState()
	view.OnSessionChange(true)

	require.NoError(t, view.Select(2))
	view.StartCreate()
	view.Cancel()

	mode, selected := view.Snapshot()
	assert.Equal(t, ModeBrowsing, mode)
	assert.Equal(t, uint64(0), selected)
}

func TestViewStateEditSaveReturnsToViewing(t *testing.T) {
	view := NewViewState()
	view.OnSessionChange(true)

	require.NoError(t, view.Select(5))
	require.NoError(t, view.StartEdit())

	view.SaveSucceeded(nil)
	mode, selected := view.Snapshot()
	assert.Equal(t, ModeViewing, mode)
	assert.Equal(t, uint64(5), selected)
}

func TestViewStateSessionLossDropsEverything(t *testing.T) {
	view := NewViewState()
	view.OnSessionChange(true)

	require.NoError(t, view.Select(5))
	require.NoError(t, view.StartEdit())

	view.OnSessionChange(false)
	mode, selected := view.Snapshot()
	assert.Equal(t, ModeNoSession, mode)
	assert.Equal(t, uint64(0), selected)

	// Reconnecting starts over in Browsing, not back in the abandoned edit.
	view.OnSessionChange(true)
	mode, selected = view.Snapshot()
	assert.Equal(t, ModeBrowsing, mode)
	assert.Equal(t, uint64(0), selected)
}

func TestViewStateReauthKeepsCurrentMode(t *testing.T) {
	view := NewViewState()
	view.OnSessionChange(true)
	require.NoError(t, view.Select(9))

	// A repeated authenticated notification must not reset the selection.
	view.OnSessionChange(true)
	mode, selected := view.Snapshot()
	assert.Equal(t, ModeViewing, mode)
	assert.Equal(t, uint64(9), selected)
}

func TestViewStateNoteDeleted(t *testing.T) {
	view := NewViewState()
	view.OnSessionChange(true)

	require.NoError(t, view.Select(5))
	view.NoteDeleted(6)
	mode, selected := view.Snapshot()
	assert.Equal(t, ModeViewing, mode)
	assert.Equal(t, uint64(5), selected)

	view.NoteDeleted(5)
	mode, selected = view.Snapshot()
	assert.Equal(t, ModeBrowsing, mode)
	assert.Equal(t, uint64(0), selected)
}

func TestViewModeString(t *testing.T) {
	assert.Equal(t, "no-session", ModeNoSession.String())
	assert.Equal(t, "browsing", ModeBrowsing.String())
	assert.Equal(t, "viewing", ModeViewing.String())
	assert.Equal(t, "creating", ModeCreating.String())
	assert.Equal(t, "editing", ModeEditing.String())
}
