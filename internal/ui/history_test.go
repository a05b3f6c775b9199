package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SheetGang/internal/gang"
)

func inputs(frameW string) gang.Inputs {
	return gang.Inputs{
		Folder:      "/cards",
		PageWidth:   "297",
		PageHeight:  "420",
		FrameWidth:  frameW,
		FrameHeight: "50",
	}
}

func TestNewHistory(t *testing.T) {
	h := NewHistory()
	assert.Equal(t, defaultMaxDepth, h.maxDepth)
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}

func TestUndoRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(inputs("90"), false, "initial"))
	h.Push(MakeSnapshot(inputs("85"), true, "frame 85"))

	current := MakeSnapshot(inputs("80"), true, "current")

	restored, ok := h.Undo(current)
	require.True(t, ok)
	assert.Equal(t, "85", restored.Inputs.FrameWidth)
	assert.True(t, restored.CutContour)
	require.True(t, h.CanRedo())

	redone, ok := h.Redo(restored)
	require.True(t, ok)
	assert.Equal(t, "80", redone.Inputs.FrameWidth)

	restored, ok = h.Undo(redone)
	require.True(t, ok)
	restored, ok = h.Undo(restored)
	require.True(t, ok)
	assert.Equal(t, "initial", restored.Label)
	assert.False(t, restored.CutContour)
	assert.False(t, h.CanUndo())
}

func TestPushClearsRedo(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(inputs("90"), false, "a"))

	_, ok := h.Undo(MakeSnapshot(inputs("80"), false, "b"))
	require.True(t, ok)
	require.True(t, h.CanRedo())

	h.Push(MakeSnapshot(inputs("70"), false, "c"))
	assert.False(t, h.CanRedo())
}

func TestMaxDepth(t *testing.T) {
	h := &History{maxDepth: 3}
	for i := 0; i < 5; i++ {
		h.Push(MakeSnapshot(gang.Inputs{}, false, ""))
	}
	assert.Len(t, h.undoStack, 3)
}

func TestEmptyHistory(t *testing.T) {
	h := NewHistory()
	current := MakeSnapshot(inputs("90"), false, "current")

	_, ok := h.Undo(current)
	assert.False(t, ok)
	_, ok = h.Redo(current)
	assert.False(t, ok)
}

func TestClear(t *testing.T) {
	h := NewHistory()
	h.Push(MakeSnapshot(inputs("90"), false, "a"))
	h.Push(MakeSnapshot(inputs("80"), false, "b"))
	h.Undo(MakeSnapshot(inputs("70"), false, "current"))

	h.Clear()
	assert.False(t, h.CanUndo())
	assert.False(t, h.CanRedo())
}
