package impl

import (
	"testing"

	"lessonradar/internal/domain/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlacesKeyword(t *testing.T) {
	assert.Equal(t, "초보자 골프 레슨", placesKeyword(entity.CategoryBeginner, "골프 레슨"))
	assert.Equal(t, "자격증 golf", placesKeyword(entity.CategoryCertification, "golf"))
}

func TestSortNearest(t *testing.T) {
	t.Run("by distance value", func(t *testing.T) {
		lessons := []entity.Lesson{
			{ID: entity.NumericLessonID(1), DistanceValue: ptr(3.2)},
			{ID: entity.NumericLessonID(2), DistanceValue: ptr(1.8)},
		}

		sortNearest(lessons)

		assert.Equal(t, []string{"2", "1"}, lessonIDStrings(lessons))
	})

	t.Run("falls back to display string then sentinel", func(t *testing.T) {
		lessons := []entity.Lesson{
			{ID: entity.NumericLessonID(1)},
			{ID: entity.NumericLessonID(2), Distance: "4.0km"},
			{ID: entity.NumericLessonID(3), Distance: "n/a"},
			{ID: entity.NumericLessonID(4), DistanceValue: ptr(2.5), Distance: "9.9km"},
		}

		sortNearest(lessons)

		assert.Equal(t, []string{"4", "2", "1", "3"}, lessonIDStrings(lessons))
	})

	t.Run("zero distance value sorts first", func(t *testing.T) {
		lessons := []entity.Lesson{
			{ID: entity.NumericLessonID(1), DistanceValue: ptr(0.4)},
			{ID: entity.NumericLessonID(2), DistanceValue: ptr(0.0)},
		}

		sortNearest(lessons)

		assert.Equal(t, []string{"2", "1"}, lessonIDStrings(lessons))
	})

	t.Run("stable and idempotent", func(t *testing.T) {
		lessons := []entity.Lesson{
			{ID: entity.StringLessonID("a"), DistanceValue: ptr(2.0)},
			{ID: entity.StringLessonID("b"), DistanceValue: ptr(1.0)},
			{ID: entity.StringLessonID("c"), DistanceValue: ptr(2.0)},
			{ID: entity.StringLessonID("d"), Distance: "1.0km"},
			{ID: entity.StringLessonID("e")},
			{ID: entity.StringLessonID("f")},
		}

		sortNearest(lessons)
		once := lessonIDStrings(lessons)
		sortNearest(lessons)

		assert.Equal(t, []string{"b", "d", "a", "c", "e", "f"}, once)
		assert.Equal(t, once, lessonIDStrings(lessons))
	})
}

func TestWithDistances(t *testing.T) {
	origin := entity.Coordinate{Lat: 37.5665, Lng: 126.9780}
	places := []entity.Lesson{
		{ID: entity.StringLessonID("1"), PlaceName: "Same spot", X: "126.9780", Y: "37.5665"},
		{ID: entity.StringLessonID("2"), PlaceName: "Bad coords", X: "east", Y: "north"},
	}

	annotated := withDistances(origin, places)

	require.Len(t, annotated, 2)
	require.NotNil(t, annotated[0].DistanceValue)
	assert.InDelta(t, 0, *annotated[0].DistanceValue, 1e-9)
	assert.Equal(t, "0.0km", annotated[0].Distance)
	assert.Nil(t, annotated[1].DistanceValue)
	assert.Empty(t, annotated[1].Distance)
	assert.Nil(t, places[0].DistanceValue, "input must not be modified")
}

func TestPlaceholderLessons(t *testing.T) {
	lessons := placeholderLessons()

	require.Len(t, lessons, 5)
	for i, lesson := range lessons {
		require.NoError(t, lesson.Validate())
		assert.True(t, lesson.ID.IsNumeric())
		assert.Equal(t, entity.NumericLessonID(float64(i+1)), lesson.ID)
		assert.NotNil(t, lesson.StarRating)
		assert.NotNil(t, lesson.Reviews)
	}
	assert.Equal(t, "2.5km", lessons[0].Distance)
	assert.InDelta(t, 1.8, *lessons[2].DistanceValue, 1e-9)
	assert.NotSame(t, lessons[0].DistanceValue, lessons[1].DistanceValue)
}
