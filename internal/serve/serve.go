// Package serve runs the preview server: it serves a built book over HTTP
// and rebuilds it when the sources change.
package serve

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceInterval batches bursts of file events (editors often write
// several times per save) into one rebuild.
const debounceInterval = 300 * time.Millisecond

// Options configures the preview server.
type Options struct {
	// SourceDir is the book directory watched for changes.
	SourceDir string

	// ServeDir is the built output served over HTTP.
	ServeDir string

	// Addr is the listen address, e.g. "localhost:4000".
	Addr string

	// Rebuild runs a fresh build. Called once before serving and after
	// every change burst. A failing rebuild is logged and the previous
	// output stays up.
	Rebuild func() error

	// Log receives serve-loop messages. Defaults to stderr.
	Log func(msg string)
}

// Server is the preview server.
type Server struct {
	opts Options
}

// New creates a Server.
func New(opts Options) *Server {
	if opts.Log == nil {
		opts.Log = func(msg string) { fmt.Fprintln(os.Stderr, msg) }
	}
	return &Server{opts: opts}
}

// Run builds once, then serves and rebuilds on changes until ctx ends.
func (s *Server) Run(ctx context.Context) error {
	if err := s.opts.Rebuild(); err != nil {
		return fmt.Errorf("initial build: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watchRecursive(watcher, s.opts.SourceDir); err != nil {
		return err
	}

	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.opts.Addr, err)
	}

	srv := &http.Server{
		Handler:           http.FileServer(http.Dir(s.opts.ServeDir)),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.opts.Log(fmt.Sprintf("Serving book on http://%s", s.opts.Addr))
		errCh <- srv.Serve(ln)
	}()

	go s.watchLoop(ctx, watcher)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// watchLoop debounces change events into rebuilds.
func (s *Server) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if !relevantEvent(event) {
				continue
			}
			// New directories need their own watch.
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = watchRecursive(watcher, event.Name)
				}
			}
			if timer == nil {
				timer = time.NewTimer(debounceInterval)
				timerC = timer.C
			} else {
				timer.Reset(debounceInterval)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			s.opts.Log(fmt.Sprintf("watch error: %v", err))
		case <-timerC:
			timer = nil
			timerC = nil
			s.opts.Log("Change detected, rebuilding...")
			if err := s.opts.Rebuild(); err != nil {
				s.opts.Log(fmt.Sprintf("rebuild failed: %v", err))
			}
		}
	}
}

// relevantEvent filters events that should trigger a rebuild.
func relevantEvent(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) &&
		!event.Op.Has(fsnotify.Remove) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(event.Name)
	// Editor temp files and VCS noise.
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".swp") {
		return false
	}
	return true
}

// watchRecursive adds the directory and every subdirectory to the watcher,
// skipping hidden directories.
func watchRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if name := filepath.Base(path); path != root && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
}
