package training

import (
	"fmt"
	"time"
)

const maxNotesLength = 500

// ActivityType is the closed set of supported training activity kinds.
type ActivityType string

const (
	ActivityRun           ActivityType = "run"
	ActivityWalk          ActivityType = "walk"
	ActivityCrossTraining ActivityType = "cross_training"
	ActivityRest          ActivityType = "rest"
)

func (t ActivityType) Valid() bool {
	switch t {
	case ActivityRun, ActivityWalk, ActivityCrossTraining, ActivityRest:
		return true
	}
	return false
}

// Weather describes the conditions of a training session. Optional,
// the empty value means "not reported".
type Weather string

const (
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherSnowy  Weather = "snowy"
	WeatherHot    Weather = "hot"
	WeatherCold   Weather = "cold"
)

func (w Weather) Valid() bool {
	switch w {
	case "", WeatherSunny, WeatherCloudy, WeatherRainy, WeatherSnowy, WeatherHot, WeatherCold:
		return true
	}
	return false
}

// Mood describes how the session felt. Optional, empty means "not reported".
type Mood string

const (
	MoodExcellent Mood = "excellent"
	MoodGood      Mood = "good"
	MoodOkay      Mood = "okay"
	MoodTough     Mood = "tough"
	MoodDifficult Mood = "difficult"
)

func (m Mood) Valid() bool {
	switch m {
	case "", MoodExcellent, MoodGood, MoodOkay, MoodTough, MoodDifficult:
		return true
	}
	return false
}

// ValidationError marks caller-correctable input problems and names the
// offending field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Entry is one logged training activity. Distance is in kilometers,
// duration in minutes, pace in minutes per kilometer.
type Entry struct {
	ID         string       `json:"id"`
	UserID     string       `json:"userId"`
	Date       time.Time    `json:"date"`
	Type       ActivityType `json:"type"`
	Distance   float64      `json:"distance"`
	Duration   float64      `json:"duration"`
	Pace       *float64     `json:"pace,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	Weather    Weather      `json:"weather,omitempty"`
	Difficulty *int         `json:"difficulty,omitempty"`
	Mood       Mood         `json:"mood,omitempty"`
	IsRestDay  bool         `json:"isRestDay"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

func (e *Entry) Validate() error {
	if !e.Type.Valid() {
		return &ValidationError{Field: "type", Reason: fmt.Sprintf("unknown activity type %q", string(e.Type))}
	}
	if e.Distance < 0 {
		return &ValidationError{Field: "distance", Reason: "must not be negative"}
	}
	if e.Duration < 0 {
		return &ValidationError{Field: "duration", Reason: "must not be negative"}
	}
	if len(e.Notes) > maxNotesLength {
		return &ValidationError{Field: "notes", Reason: fmt.Sprintf("longer than %d characters", maxNotesLength)}
	}
	if !e.Weather.Valid() {
		return &ValidationError{Field: "weather", Reason: fmt.Sprintf("unknown weather %q", string(e.Weather))}
	}
	if e.Difficulty != nil && (*e.Difficulty < 1 || *e.Difficulty > 10) {
		return &ValidationError{Field: "difficulty", Reason: "must be between 1 and 10"}
	}
	if !e.Mood.Valid() {
		return &ValidationError{Field: "mood", Reason: fmt.Sprintf("unknown mood %q", string(e.Mood))}
	}
	return nil
}

// DerivePace is the pre-write pace policy, applied identically on create
// and update: an explicitly supplied pace always wins (even zero), otherwise
// the pace is computed from the effective distance and duration when both
// are strictly positive. Idempotent for fixed inputs.
func DerivePace(explicit *float64, distance, duration float64) *float64 {
	if explicit != nil {
		return explicit
	}
	if distance > 0 && duration > 0 {
		pace := duration / distance
		return &pace
	}
	return nil
}

// NewEntryRequest carries the client-supplied fields for a new entry.
// The owner is never part of it, it comes from the authenticated request.
type NewEntryRequest struct {
	Date       *time.Time   `json:"date,omitempty"`
	Type       ActivityType `json:"type"`
	Distance   float64      `json:"distance"`
	Duration   float64      `json:"duration"`
	Pace       *float64     `json:"pace,omitempty"`
	Notes      string       `json:"notes,omitempty"`
	Weather    Weather      `json:"weather,omitempty"`
	Difficulty *int         `json:"difficulty,omitempty"`
	Mood       Mood         `json:"mood,omitempty"`
	IsRestDay  bool         `json:"isRestDay"`
}

// ToEntry builds a validated Entry owned by ownerID. The entry ID is left
// for the repo to assign.
func (r NewEntryRequest) ToEntry(ownerID string, now time.Time) (*Entry, error) {
	date := now
	if r.Date != nil {
		date = *r.Date
	}

	e := &Entry{
		UserID:     ownerID,
		Date:       date,
		Type:       r.Type,
		Distance:   r.Distance,
		Duration:   r.Duration,
		Pace:       DerivePace(r.Pace, r.Distance, r.Duration),
		Notes:      r.Notes,
		Weather:    r.Weather,
		Difficulty: r.Difficulty,
		Mood:       r.Mood,
		IsRestDay:  r.IsRestDay,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}

// UpdateEntryRequest carries a partial update. Nil means "field untouched".
type UpdateEntryRequest struct {
	Date       *time.Time    `json:"date,omitempty"`
	Type       *ActivityType `json:"type,omitempty"`
	Distance   *float64      `json:"distance,omitempty"`
	Duration   *float64      `json:"duration,omitempty"`
	Pace       *float64      `json:"pace,omitempty"`
	Notes      *string       `json:"notes,omitempty"`
	Weather    *Weather      `json:"weather,omitempty"`
	Difficulty *int          `json:"difficulty,omitempty"`
	Mood       *Mood         `json:"mood,omitempty"`
	IsRestDay  *bool         `json:"isRestDay,omitempty"`
}

// Apply merges the partial update into a copy of e, re-derives the pace from
// the effective distance and duration, bumps UpdatedAt and validates the
// result. ID, UserID and CreatedAt are immutable.
func (r UpdateEntryRequest) Apply(e Entry, now time.Time) (*Entry, error) {
	if r.Date != nil {
		e.Date = *r.Date
	}
	if r.Type != nil {
		e.Type = *r.Type
	}
	if r.Distance != nil {
		e.Distance = *r.Distance
	}
	if r.Duration != nil {
		e.Duration = *r.Duration
	}
	if r.Notes != nil {
		e.Notes = *r.Notes
	}
	if r.Weather != nil {
		e.Weather = *r.Weather
	}
	if r.Difficulty != nil {
		e.Difficulty = r.Difficulty
	}
	if r.Mood != nil {
		e.Mood = *r.Mood
	}
	if r.IsRestDay != nil {
		e.IsRestDay = *r.IsRestDay
	}

	// an update that supplies no pace and leaves distance or duration at
	// zero keeps whatever pace was already stored
	if derived := DerivePace(r.Pace, e.Distance, e.Duration); derived != nil {
		e.Pace = derived
	}

	e.UpdatedAt = now

	if err := e.Validate(); err != nil {
		return nil, err
	}
	return &e, nil
}
