package snapshot

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/templui/gymapp/internal/model"
	"github.com/templui/gymapp/internal/service"
)

// Wire shapes of the snapshot files. Timestamps are kept as strings so that
// both RFC 3339 and zone-less ISO-8601 values written by older exports parse.

type envelope struct {
	ItemID       string `json:"item_id,omitempty"`
	ItemCreated  string `json:"item_created,omitempty"`
	ItemModified string `json:"item_modified,omitempty"`
}

type userRecord struct {
	envelope
	Username       string   `json:"username"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	Age            int      `json:"age"`
	Height         int      `json:"height"`
	Weight         int      `json:"weight"`
	Sex            string   `json:"sex"`
	Experience     int      `json:"experience"`
	LastUse        string   `json:"last_use,omitempty"`
	Goal           []string `json:"goal"`
	HashedPassword string   `json:"hashed_password,omitempty"`
	Password       string   `json:"password,omitempty"`
}

type exerciseRecord struct {
	envelope
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Equipment   string   `json:"equipment"`
	Muscles     []string `json:"muscles"`
	SubMuscles  []string `json:"sub_muscles"`
}

type workoutRecord struct {
	envelope
	Name                 *string             `json:"name"`
	Date                 string              `json:"date"`
	StartTime            *string             `json:"start_time"`
	EndTime              *string             `json:"end_time"`
	Duration             *int                `json:"duration"`
	Notes                *string             `json:"notes"`
	Exercises            []string            `json:"exercises"`
	ExercisePerformances []model.Performance `json:"exercise_performances"`
	UserID               string              `json:"user_id"`
}

type plannedWorkoutRecord struct {
	envelope
	Name                 *string             `json:"name"`
	Notes                *string             `json:"notes"`
	Exercises            []string            `json:"exercises"`
	ExercisePerformances []model.Performance `json:"exercise_performances"`
	UserID               string              `json:"user_id"`
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTime accepts RFC 3339 and zone-less ISO-8601. Values without a zone
// are taken as UTC.
func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

func parseOptionalTime(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := parseTime(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatTime(*t)
	return &s
}

// stamps resolves the envelope into id and timestamps, synthesizing any
// that are absent.
func (e envelope) stamps(now time.Time) (id string, created, modified time.Time, err error) {
	id = e.ItemID
	if id == "" {
		id = uuid.New().String()
	} else {
		parsed, perr := uuid.Parse(id)
		if perr != nil {
			return "", created, modified, fmt.Errorf("invalid item_id %q: %w", id, perr)
		}
		id = parsed.String()
	}

	created = now.UTC()
	if e.ItemCreated != "" {
		created, err = parseTime(e.ItemCreated)
		if err != nil {
			return "", created, modified, fmt.Errorf("item_created: %w", err)
		}
	}

	modified = created
	if e.ItemModified != "" {
		modified, err = parseTime(e.ItemModified)
		if err != nil {
			return "", created, modified, fmt.Errorf("item_modified: %w", err)
		}
	}
	if modified.Before(created) {
		modified = created
	}
	return id, created, modified, nil
}

func envelopeOf(id string, created, modified time.Time) envelope {
	return envelope{
		ItemID:       id,
		ItemCreated:  formatTime(created),
		ItemModified: formatTime(modified),
	}
}

func fromUser(u *model.User) userRecord {
	return userRecord{
		envelope:       envelopeOf(u.ID, u.CreatedAt, u.ModifiedAt),
		Username:       u.Username,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Age:            u.Age,
		Height:         u.Height,
		Weight:         u.Weight,
		Sex:            u.Sex,
		Experience:     u.Experience,
		LastUse:        formatTime(u.LastUse),
		Goal:           nonNil([]string(u.Goal)),
		HashedPassword: u.PasswordHash,
	}
}

// toUser converts the record. hash turns a plain password into a stored
// hash and is only called when the record carries no hashed_password.
func (r userRecord) toUser(now time.Time, hash func(string) (string, error)) (*model.User, error) {
	id, created, modified, err := r.stamps(now)
	if err != nil {
		return nil, err
	}

	passwordHash := r.HashedPassword
	if passwordHash == "" {
		if r.Password == "" {
			return nil, fmt.Errorf("%w: user %q has no password", errSkip, r.Username)
		}
		passwordHash, err = hash(r.Password)
		if err != nil {
			return nil, err
		}
	}

	lastUse := created
	if r.LastUse != "" {
		lastUse, err = parseTime(r.LastUse)
		if err != nil {
			return nil, fmt.Errorf("last_use: %w", err)
		}
	}

	return &model.User{
		ID:           id,
		Username:     r.Username,
		FirstName:    r.FirstName,
		LastName:     r.LastName,
		Age:          r.Age,
		Height:       r.Height,
		Weight:       r.Weight,
		Sex:          r.Sex,
		Experience:   r.Experience,
		LastUse:      lastUse,
		Goal:         model.StringList(nonNil(r.Goal)),
		PasswordHash: passwordHash,
		CreatedAt:    created,
		ModifiedAt:   modified,
	}, nil
}

func fromExercise(e *model.Exercise) exerciseRecord {
	return exerciseRecord{
		envelope:    envelopeOf(e.ID, e.CreatedAt, e.ModifiedAt),
		Name:        e.Name,
		Description: e.Description,
		Category:    e.Category,
		Equipment:   e.Equipment,
		Muscles:     nonNil([]string(e.Muscles)),
		SubMuscles:  nonNil([]string(e.SubMuscles)),
	}
}

func (r exerciseRecord) toExercise(now time.Time) (*model.Exercise, error) {
	id, created, modified, err := r.stamps(now)
	if err != nil {
		return nil, err
	}

	e := model.NewExercise(model.ExerciseDescriptor{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		Equipment:   r.Equipment,
		Muscles:     r.Muscles,
		SubMuscles:  r.SubMuscles,
	}, created)
	e.ID = id
	e.CreatedAt = created
	e.ModifiedAt = modified
	return e, nil
}

func fromWorkout(w *model.Workout) workoutRecord {
	notes := w.Notes
	return workoutRecord{
		envelope:             envelopeOf(w.ID, w.CreatedAt, w.ModifiedAt),
		Name:                 w.Name,
		Date:                 formatTime(w.Date),
		StartTime:            formatOptionalTime(w.StartTime),
		EndTime:              formatOptionalTime(w.EndTime),
		Duration:             w.Duration,
		Notes:                &notes,
		Exercises:            w.ExerciseIDs(),
		ExercisePerformances: nonNil([]model.Performance(w.Performances)),
		UserID:               w.UserID,
	}
}

func (r workoutRecord) toWorkout(now time.Time) (*model.Workout, error) {
	id, created, modified, err := r.stamps(now)
	if err != nil {
		return nil, err
	}
	if r.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	if r.Date == "" {
		return nil, fmt.Errorf("date is required")
	}
	date, err := parseTime(r.Date)
	if err != nil {
		return nil, fmt.Errorf("date: %w", err)
	}
	start, err := parseOptionalTime(r.StartTime)
	if err != nil {
		return nil, fmt.Errorf("start_time: %w", err)
	}
	end, err := parseOptionalTime(r.EndTime)
	if err != nil {
		return nil, fmt.Errorf("end_time: %w", err)
	}
	perfs, err := performances(r.Exercises, r.ExercisePerformances)
	if err != nil {
		return nil, err
	}

	return &model.Workout{
		ID:           id,
		Name:         r.Name,
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		Duration:     r.Duration,
		Notes:        deref(r.Notes),
		Performances: perfs,
		UserID:       r.UserID,
		CreatedAt:    created,
		ModifiedAt:   modified,
	}, nil
}

func fromPlannedWorkout(p *model.PlannedWorkout) plannedWorkoutRecord {
	notes := p.Notes
	return plannedWorkoutRecord{
		envelope:             envelopeOf(p.ID, p.CreatedAt, p.ModifiedAt),
		Name:                 p.Name,
		Notes:                &notes,
		Exercises:            p.ExerciseIDs(),
		ExercisePerformances: nonNil([]model.Performance(p.Performances)),
		UserID:               p.UserID,
	}
}

func (r plannedWorkoutRecord) toPlannedWorkout(now time.Time) (*model.PlannedWorkout, error) {
	id, created, modified, err := r.stamps(now)
	if err != nil {
		return nil, err
	}
	if r.UserID == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	perfs, err := performances(r.Exercises, r.ExercisePerformances)
	if err != nil {
		return nil, err
	}

	return &model.PlannedWorkout{
		ID:           id,
		Name:         r.Name,
		Notes:        deref(r.Notes),
		Performances: perfs,
		UserID:       r.UserID,
		CreatedAt:    created,
		ModifiedAt:   modified,
	}, nil
}

// performances reconciles the two list fields of a workout record.
// exercise_performances wins; snapshots that only carry exercises get
// performances with no sets. Lists that disagree are rejected.
func performances(exercises []string, perfs []model.Performance) (model.Performances, error) {
	if len(perfs) == 0 {
		out := make(model.Performances, len(exercises))
		for i, id := range exercises {
			out[i] = model.Performance{ExerciseID: id, Sets: []model.Set{}}
		}
		return out, nil
	}

	out := model.Performances(perfs)
	if len(exercises) > 0 && !slices.Equal(exercises, out.ExerciseIDs()) {
		return nil, fmt.Errorf("%w: exercises and exercise_performances disagree", service.ErrValidation)
	}
	for i := range out {
		if out[i].ExerciseID == "" {
			return nil, fmt.Errorf("%w: exercise_performances[%d] has no exercise_id", service.ErrValidation, i)
		}
	}
	return out, nil
}

func decodeRecord[T any](raw json.RawMessage) (T, error) {
	var rec T
	err := json.Unmarshal(raw, &rec)
	if err != nil {
		return rec, fmt.Errorf("%w: %v", service.ErrValidation, err)
	}
	return rec, nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
