package seed

import "github.com/templui/gymapp/internal/model"

type poolEntry struct {
	name       string
	equipment  string
	muscles    []string
	subMuscles []string
}

func (e poolEntry) descriptor() model.ExerciseDescriptor {
	return model.ExerciseDescriptor{
		Name:        e.name,
		Description: e.name + " exercise",
		Category:    model.DefaultExerciseCategory,
		Equipment:   e.equipment,
		Muscles:     e.muscles,
		SubMuscles:  e.subMuscles,
	}
}

var muscleGroups = []string{"chest", "back", "shoulders", "legs", "arms", "core", "full_body"}

var exercisePool = map[string][]poolEntry{
	"chest": {
		{"Barbell Bench Press", "Barbell", []string{"Chest"}, []string{"Triceps", "Shoulders"}},
		{"Incline Dumbbell Press", "Dumbbells", []string{"Chest"}, []string{"Shoulders", "Triceps"}},
		{"Cable Chest Fly", "Cable Machine", []string{"Chest"}, []string{"Shoulders"}},
		{"Push-ups", "None", []string{"Chest"}, []string{"Triceps", "Shoulders", "Core"}},
		{"Dips", "Dip Bar", []string{"Chest", "Triceps"}, []string{"Shoulders"}},
	},
	"back": {
		{"Pull-ups", "Pull-up Bar", []string{"Back", "Lats"}, []string{"Biceps", "Core"}},
		{"Bent Over Row", "Barbell", []string{"Back"}, []string{"Biceps", "Rear Delts"}},
		{"Lat Pulldown", "Cable Machine", []string{"Lats", "Back"}, []string{"Biceps"}},
		{"Cable Row", "Cable Machine", []string{"Back"}, []string{"Biceps", "Rear Delts"}},
		{"T-Bar Row", "Barbell", []string{"Back"}, []string{"Biceps"}},
	},
	"shoulders": {
		{"Overhead Press", "Barbell", []string{"Shoulders"}, []string{"Triceps", "Core"}},
		{"Lateral Raises", "Dumbbells", []string{"Shoulders"}, []string{"Traps"}},
		{"Front Raises", "Dumbbells", []string{"Shoulders"}, nil},
		{"Rear Delt Fly", "Dumbbells", []string{"Rear Delts"}, []string{"Upper Back"}},
		{"Upright Row", "Barbell", []string{"Shoulders", "Traps"}, []string{"Biceps"}},
	},
	"legs": {
		{"Barbell Squat", "Barbell", []string{"Quads", "Glutes"}, []string{"Hamstrings", "Core"}},
		{"Leg Press", "Machine", []string{"Quads", "Glutes"}, []string{"Hamstrings"}},
		{"Romanian Deadlift", "Barbell", []string{"Hamstrings", "Glutes"}, []string{"Back", "Core"}},
		{"Leg Curls", "Machine", []string{"Hamstrings"}, []string{"Calves"}},
		{"Leg Extensions", "Machine", []string{"Quads"}, nil},
		{"Calf Raises", "Machine", []string{"Calves"}, nil},
	},
	"arms": {
		{"Barbell Curl", "Barbell", []string{"Biceps"}, []string{"Forearms"}},
		{"Hammer Curl", "Dumbbells", []string{"Biceps"}, []string{"Forearms"}},
		{"Tricep Pushdown", "Cable Machine", []string{"Triceps"}, nil},
		{"Overhead Tricep Extension", "Dumbbell", []string{"Triceps"}, nil},
		{"Cable Curl", "Cable Machine", []string{"Biceps"}, []string{"Forearms"}},
	},
	"core": {
		{"Plank", "None", []string{"Core"}, []string{"Shoulders", "Glutes"}},
		{"Russian Twists", "Weight Plate", []string{"Core", "Obliques"}, nil},
		{"Leg Raises", "None", []string{"Core", "Hip Flexors"}, nil},
		{"Cable Crunches", "Cable Machine", []string{"Core"}, nil},
		{"Ab Wheel", "Ab Wheel", []string{"Core"}, []string{"Shoulders", "Back"}},
	},
	"full_body": {
		{"Deadlift", "Barbell", []string{"Back", "Glutes", "Hamstrings"}, []string{"Core", "Traps"}},
		{"Clean and Press", "Barbell", []string{"Shoulders", "Legs"}, []string{"Core", "Triceps"}},
		{"Thrusters", "Barbell", []string{"Legs", "Shoulders"}, []string{"Core", "Triceps"}},
		{"Burpees", "None", []string{"Full Body"}, []string{"Core"}},
		{"Battle Ropes", "Battle Ropes", []string{"Shoulders", "Core"}, []string{"Arms", "Back"}},
	},
}

type template struct {
	name   string
	groups []string
}

var workoutTemplates = []template{
	{"Push Day", []string{"chest", "shoulders", "arms"}},
	{"Pull Day", []string{"back", "arms"}},
	{"Leg Day", []string{"legs", "core"}},
	{"Upper Body", []string{"chest", "back", "shoulders", "arms"}},
	{"Lower Body", []string{"legs", "core"}},
	{"Full Body", []string{"full_body", "core"}},
	{"Chest & Triceps", []string{"chest", "arms"}},
	{"Back & Biceps", []string{"back", "arms"}},
	{"Shoulders & Abs", []string{"shoulders", "core"}},
	{"HIIT Circuit", []string{"full_body", "core"}},
}

type profile struct {
	sets      int
	minReps   int
	maxReps   int
	minWeight int
	maxWeight int
}

type seedUser struct {
	input   signup
	profile profile
}

type signup struct {
	username   string
	password   string
	lastName   string
	sex        string
	age        int
	height     int
	weight     int
	experience int
	goal       string
}

var seedUsers = []seedUser{
	{
		input:   signup{username: "test1", password: "testuser1", lastName: "User One", sex: "Male", age: 25, height: 70, weight: 180, experience: 2, goal: "strength and lean muscle gain"},
		profile: profile{sets: 3, minReps: 20, maxReps: 25, minWeight: 20, maxWeight: 70},
	},
	{
		input:   signup{username: "test2", password: "testuser2", lastName: "User Two", sex: "Male", age: 30, height: 72, weight: 200, experience: 5, goal: "strength and lean muscle gain"},
		profile: profile{sets: 4, minReps: 3, maxReps: 6, minWeight: 100, maxWeight: 200},
	},
	{
		input:   signup{username: "test3", password: "testuser3", lastName: "User Three", sex: "Female", age: 28, height: 68, weight: 165, experience: 3, goal: "cutting"},
		profile: profile{sets: 4, minReps: 12, maxReps: 15, minWeight: 30, maxWeight: 80},
	},
}
