package impl

import (
	"math"
	"slices"
	"strconv"

	"lessonradar/internal/domain/entity"
	"lessonradar/internal/util"
)

// unknownDistanceKm sorts lessons without any distance after every real one.
const unknownDistanceKm = 999999

// placesKeyword joins the category label and the domain term, e.g. "초보자 골프 레슨".
func placesKeyword(category entity.Category, domainTerm string) string {
	return category.Label() + " " + domainTerm
}

// nearestKey is the sort key of the nearest-first order.
func nearestKey(lesson *entity.Lesson) float64 {
	distance, ok := lesson.SortDistance()
	if !ok || math.IsNaN(distance) {
		return unknownDistanceKm
	}

	return distance
}

// sortNearest orders lessons ascending by distance, keeping the relative order of ties.
func sortNearest(lessons []entity.Lesson) {
	slices.SortStableFunc(lessons, func(a, b entity.Lesson) int {
		ka, kb := nearestKey(&a), nearestKey(&b)
		switch {
		case ka < kb:
			return -1
		case ka > kb:
			return 1
		default:
			return 0
		}
	})
}

// withDistances annotates each place with its distance from origin. Places
// whose coordinates do not parse are left without a distance.
func withDistances(origin entity.Coordinate, places []entity.Lesson) []entity.Lesson {
	out := entity.CloneLessons(places)
	for i := range out {
		lat, errLat := strconv.ParseFloat(out[i].Y, 64)
		lng, errLng := strconv.ParseFloat(out[i].X, 64)
		if errLat != nil || errLng != nil {
			continue
		}

		km := origin.DistanceKm(entity.Coordinate{Lat: lat, Lng: lng})
		out[i].DistanceValue = &km
		out[i].Distance = util.FormatKm(km)
	}

	return out
}

// placeholderLessons is the fixed list shown when the places search fails or finds nothing.
func placeholderLessons() []entity.Lesson {
	samples := []struct {
		distance   float64
		rating     float64
		reviews    int
		instructor string
		price      string
		day        string
	}{
		{2.5, 4.5, 100, "A", "50,000원", "월요일"},
		{3.2, 4.2, 80, "B", "55,000원", "화요일"},
		{1.8, 4.8, 150, "C", "60,000원", "수요일"},
		{4.0, 4.0, 60, "D", "45,000원", "목요일"},
		{2.0, 4.7, 120, "E", "70,000원", "금요일"},
	}

	lessons := make([]entity.Lesson, 0, len(samples))
	for i, sample := range samples {
		n := strconv.Itoa(i + 1)
		lessons = append(lessons, entity.Lesson{
			ID:              entity.NumericLessonID(float64(i + 1)),
			PlaceName:       "레슨명 샘플" + n,
			Distance:        util.FormatKm(sample.distance),
			DistanceValue:   &sample.distance,
			StarRating:      &sample.rating,
			Reviews:         &sample.reviews,
			Instructor:      "샘플강사 " + sample.instructor,
			RoadAddressName: "샘플" + n + " 골프장 도로명 주소",
			AddressName:     "샘플" + n + " 골프장 지번 주소",
			Price:           sample.price,
			Day:             sample.day,
		})
	}

	return lessons
}
