// Package model defines the core activity tracking data types.
package model

import "time"

// Action is the category of a tracked activity.
type Action string

// Known actions.
const (
	Sleep        Action = "Sleep"
	Feed         Action = "Feed"
	Play         Action = "Play"
	Walk         Action = "Walk"
	BioWalk      Action = "Bio walk"
	ToiletSolid  Action = "Toilet (solid)"
	ToiletLiquid Action = "Toilet (liquid)"
)

// Note qualifies a record: interval endpoints or toilet sub-location.
type Note string

// Known notes. Empty means an instantaneous record.
const (
	NoteNone     Note = ""
	NoteStart    Note = "start"
	NoteEnd      Note = "end"
	NoteOutside  Note = "outside"
	NoteHomePad  Note = "home-pad"
	NoteHomeMiss Note = "home-miss"
)

// Record is a single timestamped activity entry.
type Record struct {
	ID     string    `json:"id"`
	Action Action    `json:"action"`
	Time   time.Time `json:"time"`
	User   int64     `json:"user"`
	Note   Note      `json:"note,omitempty"`
}

// Behavior describes how an action is tracked and reported.
type Behavior struct {
	// Interval actions are recorded as start/end record pairs.
	Interval bool
	// Bucketed actions participate in meal-period statistics.
	Bucketed bool
}

// Actions is the fixed enumeration order used by menus and reports.
var Actions = []Action{Sleep, Feed, Play, Walk, BioWalk, ToiletSolid, ToiletLiquid}

// Behaviors maps each action to its tracking behavior. The mapping is
// configuration rather than logic: swapping Play to an interval action
// changes nothing outside this table.
var Behaviors = map[Action]Behavior{
	Sleep:        {Interval: true, Bucketed: true},
	Feed:         {Interval: false, Bucketed: true},
	Play:         {Interval: false, Bucketed: true},
	Walk:         {Interval: true, Bucketed: true},
	BioWalk:      {Interval: true, Bucketed: true},
	ToiletSolid:  {Interval: false, Bucketed: true},
	ToiletLiquid: {Interval: false, Bucketed: true},
}

// Emoji maps actions to their menu emoji.
var Emoji = map[Action]string{
	Sleep:        "🛌",
	Feed:         "🍽️",
	Play:         "🌿",
	Walk:         "🌳",
	BioWalk:      "🧻",
	ToiletSolid:  "💩",
	ToiletLiquid: "💧",
}

// Known reports whether a is part of the tracked vocabulary.
func Known(a Action) bool {
	_, ok := Behaviors[a]
	return ok
}

// Meal is one named slot of the feeding schedule.
type Meal struct {
	Name string `json:"name"`
	At   string `json:"at"` // "HH:MM"
}

// Settings holds the operator-editable feeding configuration.
type Settings struct {
	FeedingsPerDay int    `json:"feedings_per_day"`
	Meals          []Meal `json:"meals"`
}

// Meal slot names used by the default schedule.
const (
	MealBreakfast  = "breakfast"
	MealLunch      = "lunch"
	MealDinner     = "dinner"
	MealLateDinner = "late_dinner"
)

// DefaultSettings returns the schedule used until the operator edits it.
func DefaultSettings() Settings {
	return Settings{
		FeedingsPerDay: 4,
		Meals: []Meal{
			{Name: MealBreakfast, At: "08:00"},
			{Name: MealLunch, At: "13:00"},
			{Name: MealDinner, At: "18:00"},
			{Name: MealLateDinner, At: "23:00"},
		},
	}
}

// MealAt returns the configured time for a named meal slot, falling back
// to the default schedule when the slot is missing.
func (s Settings) MealAt(name string) string {
	for _, m := range s.Meals {
		if m.Name == name {
			return m.At
		}
	}
	for _, m := range DefaultSettings().Meals {
		if m.Name == name {
			return m.At
		}
	}
	return "00:00"
}

// Command is a learned command: a name with a free-form description.
type Command struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}
