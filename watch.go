package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/lexandro/linegrep/ignore"
	"github.com/lexandro/linegrep/match"
	"github.com/lexandro/linegrep/resolve"
	"github.com/lexandro/linegrep/watcher"
)

// checkWatchFlags guards the flag combination up front: watch mode
// re-searches directory trees, so it is meaningless without recursion.
func checkWatchFlags(watch bool, recursive bool) error {
	if watch && !recursive {
		return errors.New("-watch requires -recursive")
	}
	return nil
}

// runWatch keeps the search alive: after the initial pass, any file
// created or written under the watched directories is re-searched and
// its current matches printed. Runs until interrupted.
func runWatch(out io.Writer, errOut io.Writer, paths []string, pattern *match.Pattern, opts searchOptions, matcher *ignore.Matcher, includes []string, logger *slog.Logger) error {
	var roots []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if err == nil && info.IsDir() {
			roots = append(roots, path)
		}
	}
	if len(roots) == 0 {
		return errors.New("watch mode needs at least one directory argument")
	}

	var skip watcher.SkipChecker
	if matcher != nil {
		skip = matcher
	}

	w, err := watcher.New(roots, skip, logger)
	if err != nil {
		return err
	}
	defer w.Close()
	go w.Start()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	logger.Info("watching for changes", "roots", roots)

	for {
		select {
		case <-interrupt:
			logger.Info("watch stopped")
			return nil

		case events := <-w.Events():
			for _, event := range events {
				handleWatchEvent(out, errOut, event, pattern, opts, matcher, includes)
			}
		}
	}
}

// handleWatchEvent re-searches one changed file. Removals and renames
// need no output; a .gitignore change reloads the skip rules instead.
func handleWatchEvent(out io.Writer, errOut io.Writer, event watcher.Event, pattern *match.Pattern, opts searchOptions, matcher *ignore.Matcher, includes []string) {
	if event.Op != watcher.OpCreate && event.Op != watcher.OpWrite {
		return
	}

	if filepath.Base(event.Path) == ".gitignore" && matcher != nil {
		matcher.Reload()
		return
	}

	info, err := os.Stat(event.Path)
	if err != nil || !info.Mode().IsRegular() {
		return
	}
	if !watchIncluded(event.Path, includes) {
		return
	}

	// Any number of files may report over the run, so the prefix is
	// always on in watch mode.
	target := resolve.Target{Kind: resolve.TargetFile, Path: event.Path}
	searchTarget(out, errOut, target, pattern, opts, true)
}

// watchIncluded mirrors the resolver's include filter for event paths,
// matching each glob against the slash path and the basename.
func watchIncluded(path string, globs []string) bool {
	if len(globs) == 0 {
		return true
	}
	slashPath := filepath.ToSlash(path)
	baseName := filepath.Base(path)
	for _, glob := range globs {
		if matched, err := doublestar.Match(glob, slashPath); err == nil && matched {
			return true
		}
		if matched, err := doublestar.Match(glob, baseName); err == nil && matched {
			return true
		}
	}
	return false
}
