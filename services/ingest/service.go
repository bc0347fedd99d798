// Package ingest feeds the reconciliation engine from a drop directory
// of saved course pages. Dropping a snapshot into the directory is the
// delivery mechanism: the watcher parses it, picks the matching
// extractor and hands the batch to the engine.
package ingest

import (
	"bytes"
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"dueboard/lib/deadline"
	"dueboard/lib/scrapers/gradescope"
	"dueboard/lib/scrapers/prairielearn"
	"dueboard/lib/timezone"

	"github.com/PuerkitoBio/goquery"
	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("services/ingest")

// Engine is the slice of the reconciliation engine ingestion needs.
type Engine interface {
	Ingest(ctx context.Context, items []deadline.Record) error
}

type Options struct {
	// DropDir is the watched snapshot directory.
	DropDir string
	// RemoveAfterIngest deletes snapshots that produced records.
	RemoveAfterIngest bool
}

type Service struct {
	engine Engine
	opts   Options
}

func NewService(engine Engine, opts Options) *Service {
	return &Service{engine: engine, opts: opts}
}

func isSnapshot(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".html" || ext == ".htm"
}

// IngestFile parses one snapshot and delivers its batch to the engine.
// Returns how many records were extracted. A snapshot that matches no
// site or yields nothing is not an error.
func (s *Service) IngestFile(ctx context.Context, path string) (int, error) {
	ctx, span := tracer.Start(ctx, "IngestFile")
	defer span.End()
	span.SetAttributes(attribute.String("path", path))

	raw, err := os.ReadFile(path)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("read snapshot: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(raw))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, fmt.Errorf("parse snapshot: %w", err)
	}

	source, ok := DetectSite(doc, filepath.Base(path))
	if !ok {
		slog.InfoContext(ctx, "snapshot matches no known site, skipping", "path", path)
		return 0, nil
	}
	span.SetAttributes(attribute.String("source", string(source)))

	pageURL := PageURL(raw, doc)
	now := timezone.Now()

	var items []deadline.Record
	switch source {
	case deadline.SourceGradescope:
		items = gradescope.Extract(ctx, doc, pageURL, now)
	case deadline.SourcePrairieLearn:
		items = prairielearn.Extract(ctx, doc, pageURL, now)
	}

	if len(items) == 0 {
		slog.InfoContext(ctx, "snapshot yielded no records", "path", path, "source", source)
		return 0, nil
	}

	err = s.engine.Ingest(ctx, items)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	slog.InfoContext(ctx, "snapshot ingested",
		"path", path, "source", source, "records", len(items))

	if s.opts.RemoveAfterIngest {
		err = os.Remove(path)
		if err != nil {
			slog.WarnContext(ctx, "could not remove ingested snapshot", "path", path, "err", err)
		}
	}
	return len(items), nil
}

// ScanAll walks the drop directory once and ingests every snapshot
// already present. Per-file failures are logged and the walk continues.
func (s *Service) ScanAll(ctx context.Context) error {
	return filepath.WalkDir(s.opts.DropDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !isSnapshot(path) {
			return nil
		}
		_, ingestErr := s.IngestFile(ctx, path)
		if ingestErr != nil {
			slog.WarnContext(ctx, "snapshot ingest failed", "path", path, "err", ingestErr)
		}
		return nil
	})
}

// Watch runs the drop-directory watcher until the context ends. It does
// an initial full scan, then reacts to creates and writes. Directories
// created at runtime are added to the watch list.
func (s *Service) Watch(ctx context.Context) error {
	err := os.MkdirAll(s.opts.DropDir, 0o755)
	if err != nil {
		return fmt.Errorf("create drop dir: %w", err)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	err = addDirsRecursive(w, s.opts.DropDir)
	if err != nil {
		return fmt.Errorf("watch drop dir: %w", err)
	}

	err = s.ScanAll(ctx)
	if err != nil {
		slog.WarnContext(ctx, "initial drop dir scan failed", "err", err)
	}

	slog.InfoContext(ctx, "watching drop dir", "dir", s.opts.DropDir)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						slog.WarnContext(ctx, "could not watch new dir", "path", ev.Name, "err", addErr)
					}
					continue
				}
			}

			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 || !isSnapshot(ev.Name) {
				continue
			}
			_, ingestErr := s.IngestFile(ctx, ev.Name)
			if ingestErr != nil {
				slog.WarnContext(ctx, "snapshot ingest failed", "path", ev.Name, "err", ingestErr)
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			slog.ErrorContext(ctx, "drop dir watcher error", "err", watchErr)
		}
	}
}

func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
