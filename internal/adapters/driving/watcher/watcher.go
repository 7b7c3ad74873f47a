// Package watcher processes paper URLs dropped into an inbox directory.
//
// Any *.url or *.txt file in the inbox is read as a list of URLs, one per
// line; blank lines and lines starting with # are skipped. Each URL is run
// through the paper pipeline in order. Once handled, the file is moved to
// done/ when every URL succeeded, or to failed/ otherwise.
package watcher

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/christopherbholland/PaperBoi/internal/core/ports/driving"
	"github.com/christopherbholland/PaperBoi/internal/logger"
)

// Subdirectories of the inbox that receive handled files.
const (
	DoneDirName   = "done"
	FailedDirName = "failed"
)

// DefaultDebounce is how long a file must be quiet before it is read.
const DefaultDebounce = 500 * time.Millisecond

// Config holds watcher configuration.
type Config struct {
	// Dir is the inbox directory. It is created if missing.
	Dir string

	// Debounce delays processing until writes to a file settle.
	Debounce time.Duration
}

// Result summarises one processed inbox file.
type Result struct {
	File      string
	Processed int
	Failed    int
}

// Watcher feeds inbox files to the paper service one at a time.
type Watcher struct {
	config Config
	papers driving.PaperService
	log    *logger.Logger

	mu      sync.Mutex
	pending map[string]*time.Timer
	queue   chan string

	// OnResult, when set, is called after each file is handled.
	OnResult func(Result)
}

// New creates a watcher. l may be nil.
func New(config Config, papers driving.PaperService, l *logger.Logger) (*Watcher, error) {
	if papers == nil {
		return nil, errors.New("watcher: paper service is required")
	}
	if config.Dir == "" {
		return nil, errors.New("watcher: inbox directory is required")
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if l == nil {
		l = logger.Nop()
	}

	return &Watcher{
		config:  config,
		papers:  papers,
		log:     l,
		pending: make(map[string]*time.Timer),
		queue:   make(chan string, 64),
	}, nil
}

// Run processes files already in the inbox, then watches for new ones
// until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	for _, dir := range []string{w.config.Dir, w.doneDir(), w.failedDir()} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating %s: %w", dir, err)
		}
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer fsWatcher.Close()

	if err := fsWatcher.Add(w.config.Dir); err != nil {
		return fmt.Errorf("watching %s: %w", w.config.Dir, err)
	}

	return w.serve(ctx, fsWatcher.Events, fsWatcher.Errors)
}

// serve drains the inbox and reacts to filesystem events until ctx is
// cancelled or either channel closes. The worker is stopped before it
// returns.
func (w *Watcher) serve(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) error {
	ctx, cancel := context.WithCancel(ctx)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		w.work(ctx)
	}()
	defer func() {
		cancel()
		w.stopTimers()
		wg.Wait()
	}()

	if err := w.enqueueExisting(ctx); err != nil {
		w.log.Warn("Failed to scan inbox %s: %v", w.config.Dir, err)
	}
	w.log.Info("Watching %s for paper URLs", w.config.Dir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-events:
			if !ok {
				return errors.New("watcher events channel closed")
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 && isInboxFile(event.Name) {
				w.debounce(ctx, event.Name)
			}

		case err, ok := <-errs:
			if !ok {
				return errors.New("watcher errors channel closed")
			}
			w.log.Warn("Watcher error: %v", err)
		}
	}
}

// ProcessFile runs every URL in path through the pipeline and moves the
// file to done/ or failed/.
func (w *Watcher) ProcessFile(ctx context.Context, path string) (Result, error) {
	res := Result{File: filepath.Base(path)}

	urls, err := readURLs(path)
	if err != nil {
		return res, err
	}

	for _, u := range urls {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		if _, err := w.papers.Process(ctx, u); err != nil {
			w.log.Error("Inbox %s: %s failed: %v", res.File, u, err)
			res.Failed++
			continue
		}
		res.Processed++
	}

	dest := w.doneDir()
	if res.Failed > 0 {
		dest = w.failedDir()
	}
	if err := os.Rename(path, filepath.Join(dest, res.File)); err != nil {
		return res, fmt.Errorf("moving %s: %w", res.File, err)
	}
	return res, nil
}

func (w *Watcher) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case path := <-w.queue:
			if _, err := os.Stat(path); err != nil {
				continue
			}
			res, err := w.ProcessFile(ctx, path)
			if err != nil {
				w.log.Error("Inbox %s: %v", filepath.Base(path), err)
				continue
			}
			w.log.Info("Inbox %s: %d processed, %d failed", res.File, res.Processed, res.Failed)
			if w.OnResult != nil {
				w.OnResult(res)
			}
		}
	}
}

func (w *Watcher) debounce(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if timer, exists := w.pending[path]; exists {
		timer.Stop()
	}

	w.pending[path] = time.AfterFunc(w.config.Debounce, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		select {
		case w.queue <- path:
		case <-ctx.Done():
		}
	})
}

func (w *Watcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()
	for path, timer := range w.pending {
		timer.Stop()
		delete(w.pending, path)
	}
}

func (w *Watcher) enqueueExisting(ctx context.Context) error {
	entries, err := os.ReadDir(w.config.Dir)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		if entry.IsDir() || !isInboxFile(entry.Name()) {
			continue
		}
		w.debounce(ctx, filepath.Join(w.config.Dir, entry.Name()))
	}
	return nil
}

func (w *Watcher) doneDir() string   { return filepath.Join(w.config.Dir, DoneDirName) }
func (w *Watcher) failedDir() string { return filepath.Join(w.config.Dir, FailedDirName) }

func isInboxFile(name string) bool {
	base := filepath.Base(name)
	if strings.HasPrefix(base, ".") {
		return false
	}
	ext := strings.ToLower(filepath.Ext(base))
	return ext == ".url" || ext == ".txt"
}

func readURLs(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var urls []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	return urls, scanner.Err()
}
