package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/funvibe/lumen/internal/config"
)

// watchLoop re-runs the check whenever a watched file changes. Events are
// debounced: a burst of writes triggers one re-check after the configured
// quiet period.
func watchLoop(paths []string, cfg *config.Config, useColor bool) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}
	defer watcher.Close()

	dirs := make(map[string]bool)
	for _, path := range paths {
		dirs[filepath.Dir(path)] = true
	}
	for _, extra := range cfg.Watch.Paths {
		dirs[extra] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}

	watched := make(map[string]bool, len(paths))
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return err
		}
		watched[abs] = true
	}

	check := func() {
		fmt.Printf("checking %d file(s)...\n", len(paths))
		if _, err := runCheck(paths, cfg, useColor); err != nil {
			fmt.Fprintln(os.Stderr, err)
		}
	}
	check()

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	debounce := cfg.Debounce()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !watched[abs] {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			check()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "watch error: %v\n", err)
		}
	}
}
