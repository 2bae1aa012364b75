package cmd

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

const (
	// WatchDebounceDelay is the debounce delay for file watch events
	WatchDebounceDelay = 300 * time.Millisecond
)

// watch converts files again when they are written. Only the files of the
// first pass are tracked, so outputs written here never trigger a conversion.
func watch(cmd *cobra.Command, files []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	for _, dir := range watchDirs(files) {
		if err := watcher.Add(dir); err != nil {
			console.FormatError(fmt.Errorf("failed to watch %s: %w", dir, err))
		}
	}

	tracked := make(map[string]string, len(files))
	for _, file := range files {
		tracked[absPath(file)] = file
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nWatching for changes... (press Ctrl+C to stop)\n\n")

	var (
		mu            sync.Mutex
		pending       = make(map[string]bool)
		debounceTimer *time.Timer
	)
	flush := func() {
		mu.Lock()
		batch := pending
		pending = make(map[string]bool)
		mu.Unlock()

		for _, file := range files {
			if !batch[absPath(file)] {
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "\nFile changed: %s\n", file)
			if err := convertFile(file); err != nil {
				console.FormatError(err)
			}
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			abs := absPath(event.Name)
			if _, ok := tracked[abs]; !ok {
				continue
			}

			// Debounce: reset timer on each event
			mu.Lock()
			pending[abs] = true
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(WatchDebounceDelay, flush)
			mu.Unlock()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			console.FormatError(fmt.Errorf("watcher error: %w", err))
		}
	}
}

// watchDirs returns the directories holding files, each once, in order.
func watchDirs(files []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, file := range files {
		dir := filepath.Dir(absPath(file))
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	return dirs
}

func absPath(path string) string {
	abs, err := filepath.Abs(path)
	if err != nil {
		return filepath.Clean(path)
	}
	return abs
}
