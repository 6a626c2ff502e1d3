package entity

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// SearchState is the stage a lesson search session has reached.
// States only move forward, in declaration order.
type SearchState string

const (
	SearchResolvingOrigin    SearchState = "resolving_origin"
	SearchResolvingRegion    SearchState = "resolving_region"
	SearchResolvingAdjacency SearchState = "resolving_adjacency"
	SearchSearchingLessons   SearchState = "searching_lessons"
	SearchReady              SearchState = "ready"
	SearchFailed             SearchState = "failed"
)

// IsTerminal reports whether no further transitions will happen.
func (s SearchState) IsTerminal() bool {
	return s == SearchReady || s == SearchFailed
}

// LessonQuery is what the category screen hands to the lesson search.
type LessonQuery struct {
	Address  string   `json:"address"`
	Category Category `json:"category"`
}

// SearchSession is one lesson search and its derived data.
type SearchSession struct {
	ID      uuid.UUID   `json:"id"`
	OwnerID uuid.UUID   `json:"owner_id"`
	Query   LessonQuery `json:"query"`
	State   SearchState `json:"state"`

	FailureCode    string `json:"failure_code,omitempty"`
	FailureMessage string `json:"failure_message,omitempty"`

	Origin          *Coordinate `json:"origin,omitempty"`
	Region          string      `json:"region"`
	AdjacentRegions []string    `json:"adjacent_regions"`
	Lessons         []Lesson    `json:"lessons"`
	LessonsReady    bool        `json:"lessons_ready"`
	Fallback        bool        `json:"fallback"` // Lessons are the placeholder set.
	Warnings        []string    `json:"warnings,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Clone returns a deep copy safe to hand out while the search is still running.
func (s *SearchSession) Clone() *SearchSession {
	out := *s
	if s.Origin != nil {
		origin := *s.Origin
		out.Origin = &origin
	}
	out.AdjacentRegions = slices.Clone(s.AdjacentRegions)
	out.Lessons = CloneLessons(s.Lessons)
	out.Warnings = slices.Clone(s.Warnings)

	return &out
}

// FindLesson returns the lesson with id. Numeric and string ids never match each other.
func (s *SearchSession) FindLesson(id LessonID) (Lesson, bool) {
	for _, lesson := range s.Lessons {
		if lesson.ID == id {
			return lesson.Clone(), true
		}
	}

	return Lesson{}, false
}
