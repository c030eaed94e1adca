package serve

import (
	"testing"

	"github.com/fsnotify/fsnotify"
)

func TestRelevantEvent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{
			name:  "markdown write",
			event: fsnotify.Event{Name: "/book/chapter.md", Op: fsnotify.Write},
			want:  true,
		},
		{
			name:  "new file",
			event: fsnotify.Event{Name: "/book/new.md", Op: fsnotify.Create},
			want:  true,
		},
		{
			name:  "removal",
			event: fsnotify.Event{Name: "/book/old.md", Op: fsnotify.Remove},
			want:  true,
		},
		{
			name:  "chmod only",
			event: fsnotify.Event{Name: "/book/chapter.md", Op: fsnotify.Chmod},
			want:  false,
		},
		{
			name:  "hidden file",
			event: fsnotify.Event{Name: "/book/.chapter.md.tmp", Op: fsnotify.Write},
			want:  false,
		},
		{
			name:  "editor backup",
			event: fsnotify.Event{Name: "/book/chapter.md~", Op: fsnotify.Write},
			want:  false,
		},
		{
			name:  "vim swap",
			event: fsnotify.Event{Name: "/book/.chapter.md.swp", Op: fsnotify.Write},
			want:  false,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := relevantEvent(tt.event); got != tt.want {
				t.Errorf("relevantEvent(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatchRecursive(t *testing.T) {
	t.Parallel()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		t.Fatalf("NewWatcher() unexpected error: %v", err)
	}
	defer watcher.Close()

	if err := watchRecursive(watcher, t.TempDir()); err != nil {
		t.Errorf("watchRecursive() unexpected error: %v", err)
	}
}
