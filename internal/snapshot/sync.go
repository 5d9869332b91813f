// Package snapshot mirrors the relational store to flat JSON files and back.
// Collections are processed in a fixed order so that references resolve on
// import: users, exercises, workouts, planned workouts.
package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/templui/gymapp/internal/observability"
	"github.com/templui/gymapp/internal/repository"
	"github.com/templui/gymapp/internal/service"
	"github.com/templui/gymapp/internal/storage"
)

const (
	Users           = "users"
	Exercises       = "exercises"
	Workouts        = "workouts"
	PlannedWorkouts = "planned_workouts"
)

// Collections lists every collection in import order.
var Collections = []string{Users, Exercises, Workouts, PlannedWorkouts}

var (
	ErrUnknownCollection = errors.New("unknown collection")

	// errSkip marks a record that is deliberately not imported.
	errSkip = errors.New("record skipped")
)

type Repositories struct {
	Users           repository.UserRepository
	Exercises       repository.ExerciseRepository
	Workouts        repository.WorkoutRepository
	PlannedWorkouts repository.PlannedWorkoutRepository
}

type Syncer struct {
	dir          string
	repos        Repositories
	mirror       storage.Storage
	mirrorPrefix string
	hash         func(string) (string, error)
	now          func() time.Time
	log          *slog.Logger
}

type Option func(*Syncer)

// WithMirror uploads every export to m under prefix and fetches missing
// files from it on import.
func WithMirror(m storage.Storage, prefix string) Option {
	return func(s *Syncer) {
		s.mirror = m
		s.mirrorPrefix = prefix
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Syncer) {
		s.now = now
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Syncer) {
		s.log = l
	}
}

// WithPasswordHasher sets how plain passwords found in user records are hashed.
func WithPasswordHasher(hash func(string) (string, error)) Option {
	return func(s *Syncer) {
		s.hash = hash
	}
}

// New returns a Syncer reading and writing snapshot files under dir.
func New(dir string, repos Repositories, opts ...Option) *Syncer {
	s := &Syncer{
		dir:   dir,
		repos: repos,
		hash:  service.HashPassword,
		now:   time.Now,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Syncer) Dir() string {
	return s.dir
}

// Path returns the default file of a collection.
func (s *Syncer) Path(collection string) string {
	return filepath.Join(s.dir, collection+".json")
}

// Result is the outcome of importing or exporting one collection.
type Result struct {
	Collection string `json:"collection"`
	Path       string `json:"path"`
	Count      int    `json:"count"`
	Skipped    int    `json:"skipped,omitempty"`
	Failed     int    `json:"failed,omitempty"`
	Err        error  `json:"-"`
}

type Report struct {
	Results []Result `json:"results"`
}

// Total is the number of records imported or exported across collections.
func (r Report) Total() int {
	n := 0
	for _, res := range r.Results {
		n += res.Count
	}
	return n
}

// Err joins the collection-level errors, nil when every collection ran.
func (r Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", res.Collection, res.Err))
		}
	}
	return errors.Join(errs...)
}

type collection struct {
	export    func(ctx context.Context) ([]any, error)
	importOne func(ctx context.Context, raw json.RawMessage) error
}

func (s *Syncer) collection(name string) (collection, error) {
	switch name {
	case Users:
		return collection{export: s.exportUsers, importOne: s.importUser}, nil
	case Exercises:
		return collection{export: s.exportExercises, importOne: s.importExercise}, nil
	case Workouts:
		return collection{export: s.exportWorkouts, importOne: s.importWorkout}, nil
	case PlannedWorkouts:
		return collection{export: s.exportPlannedWorkouts, importOne: s.importPlannedWorkout}, nil
	}
	return collection{}, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
}

// Import loads one collection from path and returns how many records were
// inserted. A missing file imports nothing. Records whose natural key
// already exists are skipped; records that fail are logged and skipped.
func (s *Syncer) Import(ctx context.Context, name, path string) (int, error) {
	res := s.importCollection(ctx, name, path)
	return res.Count, res.Err
}

// Export writes every record of one collection to path, replacing the file.
func (s *Syncer) Export(ctx context.Context, name, path string) (int, error) {
	res := s.exportCollection(ctx, name, path)
	return res.Count, res.Err
}

// ImportAll imports every collection in order from the snapshot directory.
// A collection that fails is logged and does not stop the others.
func (s *Syncer) ImportAll(ctx context.Context) Report {
	s.log.Info("snapshot import started", "dir", s.dir)
	var report Report
	for _, name := range Collections {
		res := s.importCollection(ctx, name, s.Path(name))
		if res.Err != nil {
			s.log.Error("snapshot import failed", "collection", name, "error", res.Err)
		}
		report.Results = append(report.Results, res)
	}
	s.log.Info("snapshot import completed", "records", report.Total())
	return report
}

// ExportAll exports every collection in order to the snapshot directory.
func (s *Syncer) ExportAll(ctx context.Context) Report {
	s.log.Info("snapshot export started", "dir", s.dir)
	var report Report
	for _, name := range Collections {
		res := s.exportCollection(ctx, name, s.Path(name))
		if res.Err != nil {
			s.log.Error("snapshot export failed", "collection", name, "error", res.Err)
		}
		report.Results = append(report.Results, res)
	}
	if report.Err() == nil {
		observability.MarkExported(s.now())
	}
	s.log.Info("snapshot export completed", "records", report.Total())
	return report
}

func (s *Syncer) importCollection(ctx context.Context, name, path string) Result {
	res := Result{Collection: name, Path: path}
	started := time.Now()
	defer observability.ObserveSnapshot(name, "import", started)

	c, err := s.collection(name)
	if err != nil {
		res.Err = err
		return res
	}

	data, found, err := s.read(path, name)
	if err != nil {
		res.Err = err
		return res
	}
	if !found {
		s.log.Info("no snapshot file found", "collection", name, "path", path)
		return res
	}

	var elems []json.RawMessage
	err = json.Unmarshal(data, &elems)
	if err != nil {
		res.Err = fmt.Errorf("failed to decode %s: %w", path, err)
		return res
	}

	for i, raw := range elems {
		if err := ctx.Err(); err != nil {
			res.Err = err
			break
		}

		err := c.importOne(ctx, raw)
		switch {
		case err == nil:
			res.Count++
		case errors.Is(err, errExists):
			res.Skipped++
		case errors.Is(err, errSkip):
			res.Skipped++
			s.log.Warn("snapshot record skipped", "collection", name, "index", i, "reason", err)
		default:
			res.Failed++
			s.log.Warn("snapshot record failed", "collection", name, "index", i, "error", err)
		}
	}

	observability.RecordSnapshot(name, "import", "imported", res.Count)
	observability.RecordSnapshot(name, "import", "skipped", res.Skipped)
	observability.RecordSnapshot(name, "import", "failed", res.Failed)
	s.log.Info("snapshot collection imported",
		"collection", name,
		"imported", res.Count,
		"skipped", res.Skipped,
		"failed", res.Failed,
	)
	return res
}

func (s *Syncer) exportCollection(ctx context.Context, name, path string) Result {
	res := Result{Collection: name, Path: path}
	started := time.Now()
	defer observability.ObserveSnapshot(name, "export", started)

	c, err := s.collection(name)
	if err != nil {
		res.Err = err
		return res
	}

	records, err := c.export(ctx)
	if err != nil {
		res.Err = fmt.Errorf("failed to load %s: %w", name, err)
		return res
	}

	data, err := encode(records)
	if err != nil {
		res.Err = err
		return res
	}

	err = writeFile(path, data)
	if err != nil {
		res.Err = err
		return res
	}
	res.Count = len(records)
	observability.RecordSnapshot(name, "export", "exported", res.Count)
	s.log.Info("snapshot collection exported", "collection", name, "records", res.Count, "path", path)

	s.upload(path, data)
	return res
}
