package model

import (
	"math"
	"time"

	"github.com/google/uuid"
)

type Workout struct {
	ID           string       `db:"id"`
	Name         *string      `db:"name"`
	Date         time.Time    `db:"date"`
	StartTime    *time.Time   `db:"start_time"`
	EndTime      *time.Time   `db:"end_time"`
	Duration     *int         `db:"duration"` // minutes
	Notes        string       `db:"notes"`
	Performances Performances `db:"exercise_performances"`
	UserID       string       `db:"user_id"`
	CreatedAt    time.Time    `db:"created_at"`
	ModifiedAt   time.Time    `db:"modified_at"`
}

var WorkoutColumns = []string{
	"id", "name", "date", "start_time", "end_time", "duration", "notes",
	"exercise_performances", "user_id", "created_at", "modified_at",
}

// ExerciseIDs is the exercise list derived from the performances, so
// position i always names the exercise of performance i.
func (w *Workout) ExerciseIDs() []string {
	return w.Performances.ExerciseIDs()
}

// WorkoutDraft holds the caller-supplied fields of a new workout.
type WorkoutDraft struct {
	Name      *string
	Date      *time.Time
	StartTime *time.Time
	EndTime   *time.Time
	Duration  *int
	Notes     string
}

// NewWorkout assembles a workout for userID. Date defaults to now and the
// duration is derived from start and end when a start time is known.
func NewWorkout(userID string, d WorkoutDraft, perfs Performances, now time.Time) *Workout {
	now = now.UTC()
	w := &Workout{
		ID:           uuid.New().String(),
		Name:         d.Name,
		Date:         now,
		StartTime:    utcPtr(d.StartTime),
		EndTime:      utcPtr(d.EndTime),
		Duration:     d.Duration,
		Notes:        d.Notes,
		Performances: perfs,
		UserID:       userID,
		CreatedAt:    now,
		ModifiedAt:   now,
	}
	if d.Date != nil {
		w.Date = d.Date.UTC()
	}
	if w.Performances == nil {
		w.Performances = Performances{}
	}
	if w.StartTime != nil {
		w.EndTime, w.Duration = DeriveDuration(w.StartTime, w.EndTime, now)
	}
	return w
}

// DeriveDuration returns the end time and the duration in whole minutes,
// rounded to nearest. A missing end is taken to be now. Without a start
// nothing can be derived and end is returned unchanged with a nil duration.
func DeriveDuration(start, end *time.Time, now time.Time) (*time.Time, *int) {
	if start == nil {
		return end, nil
	}
	if end == nil {
		n := now.UTC()
		end = &n
	}
	minutes := int(math.Round(end.Sub(*start).Minutes()))
	return end, &minutes
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

type WorkoutPatch struct {
	Name      *string
	Date      *time.Time
	StartTime *time.Time
	EndTime   *time.Time
	Duration  *int
	Notes     *string
	Items     *[]WorkoutItem
}

func (p WorkoutPatch) Columns() map[string]any {
	cols := map[string]any{}
	if p.Name != nil {
		cols["name"] = *p.Name
	}
	if p.Date != nil {
		cols["date"] = p.Date.UTC()
	}
	if p.StartTime != nil {
		cols["start_time"] = p.StartTime.UTC()
	}
	if p.EndTime != nil {
		cols["end_time"] = p.EndTime.UTC()
	}
	if p.Duration != nil {
		cols["duration"] = *p.Duration
	}
	if p.Notes != nil {
		cols["notes"] = *p.Notes
	}
	return cols
}

// ExercisePerformance is a performance with its exercise record resolved.
type ExercisePerformance struct {
	Exercise *Exercise
	Sets     []Set
}

type WorkoutDetail struct {
	Workout   *Workout
	Exercises []ExercisePerformance
}

type WorkoutSummary struct {
	TotalExercises  int
	TotalSets       int
	TotalWeight     float64
	TotalReps       float64
	AvgWeightPerSet float64
	AvgRepsPerSet   float64
}

// Summary totals the workout's sets. Weight and reps that are not numeric
// count as zero.
func (w *Workout) Summary() WorkoutSummary {
	s := WorkoutSummary{TotalExercises: len(w.Performances)}
	for _, perf := range w.Performances {
		for _, set := range perf.Sets {
			s.TotalSets++
			s.TotalWeight += set.WeightValue()
			s.TotalReps += set.RepsValue()
		}
	}
	if s.TotalSets > 0 {
		s.AvgWeightPerSet = s.TotalWeight / float64(s.TotalSets)
		s.AvgRepsPerSet = s.TotalReps / float64(s.TotalSets)
	}
	return s
}
