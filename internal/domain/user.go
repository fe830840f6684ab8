// Package domain contains core domain types for the tutor backend.
package domain

import (
	"time"
)

// DefaultEducationLevel is used when a learner's level is unknown, matching
// the default the front end sends for new profiles.
const DefaultEducationLevel = "Beginner"

// EducationLevels enumerates the levels the front end offers at signup.
var EducationLevels = []string{"High School", "Undergraduate", "Graduate", "Professional"}

// ProgressCounter tallies interactions with a single (subject, topic) pair.
// The count never decreases and the timestamp only moves forward.
type ProgressCounter struct {
	Interactions    int        `json:"interactions"`
	LastInteraction *time.Time `json:"last_interaction"`
}

// User represents a learner profile with cumulative per-topic progress.
type User struct {
	UserID         string                                 `json:"user_id"`
	Name           string                                 `json:"name"`
	EducationLevel string                                 `json:"education_level"`
	CreatedAt      time.Time                              `json:"created_at"`
	Progress       map[string]map[string]*ProgressCounter `json:"progress"`
	SessionCount   int                                    `json:"session_count"`
}

// ProgressReport is the derived progress view returned to the front end.
// The percentages are fixed linear-saturating formulas: 5% per interaction
// per subject and 2% per interaction overall, both capped at 100. Kept
// exactly as-is for front-end compatibility.
type ProgressReport struct {
	UserID            string         `json:"user_id"`
	TotalInteractions int            `json:"total_interactions"`
	TopicsTouched     int            `json:"topics_touched"`
	SubjectProgress   map[string]int `json:"subject_progress"`
	OverallProgress   int            `json:"overall_progress"`
}
