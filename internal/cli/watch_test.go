package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SheetGang/internal/model"
	"github.com/piwi3910/SheetGang/internal/project"
)

func testWatcher(t *testing.T, folder, pdf string) *folderWatcher {
	job := model.DefaultJobSettings()
	job.Folder = folder
	job.Page = model.PageSpec{Width: 210, Height: 297}
	job.Frame = model.FrameSpec{Width: 50, Height: 75}
	return &folderWatcher{
		job:    job,
		out:    project.Outputs{PDF: pdf},
		settle: 50 * time.Millisecond,
		logger: newLogger(&bytes.Buffer{}, log.InfoLevel),
		p:      printer{w: &bytes.Buffer{}},
	}
}

func (w *folderWatcher) runCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

func TestWatcher_ReimposesOnChange(t *testing.T) {
	dir := t.TempDir()
	folder := writePNGs(t, dir, 2)
	pdf := filepath.Join(dir, "watch.pdf")
	w := testWatcher(t, folder, pdf)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return w.runCount() == 1 }, 5*time.Second, 10*time.Millisecond)
	assert.FileExists(t, pdf)

	// A burst of files settles into one more run.
	writePNG(t, filepath.Join(folder, "card_03.png"))
	writePNG(t, filepath.Join(folder, "card_04.png"))
	require.Eventually(t, func() bool { return w.runCount() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestWatcher_MissingFolder(t *testing.T) {
	w := testWatcher(t, filepath.Join(t.TempDir(), "missing"), "out.pdf")
	err := w.Run(context.Background())
	require.Error(t, err)
	assert.Equal(t, 0, w.runCount())
}

func TestWatcher_Relevant(t *testing.T) {
	w := testWatcher(t, "/x", "out.pdf")
	assert.True(t, w.relevant(fsnotify.Event{Name: "/x/a.PNG", Op: fsnotify.Create}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/x/a.jpg", Op: fsnotify.Remove}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/x/notes.txt", Op: fsnotify.Write}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/x/a.jpg", Op: fsnotify.Chmod}))
}
