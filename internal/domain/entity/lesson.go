package entity

import (
	"bytes"
	"encoding/json"
	"maps"
	"reflect"
	"strconv"
	"strings"

	"lessonradar/internal/errors"
	"lessonradar/internal/util"
)

// ErrInvalidLessonID is returned when a lesson id is neither a JSON string nor a number.
var ErrInvalidLessonID = errors.New("lesson id must be a string or a number")

// LessonID is the canonical JSON token of a lesson id. Places return string ids
// while fallback records use numbers, and the two never compare equal: 1 != "1".
type LessonID string

// NumericLessonID builds an id from a number.
func NumericLessonID(n float64) LessonID {
	return LessonID(strconv.FormatFloat(n, 'f', -1, 64))
}

// StringLessonID builds an id from a string.
func StringLessonID(s string) LessonID {
	b, _ := json.Marshal(s)

	return LessonID(b)
}

// ParseLessonID reads an id from loose text such as a URL segment.
// Valid JSON tokens keep their type, anything else is a string id.
func ParseLessonID(text string) LessonID {
	var id LessonID
	if err := id.UnmarshalJSON([]byte(text)); err == nil {
		return id
	}

	return StringLessonID(text)
}

// IsZero reports whether the id is unset.
func (id LessonID) IsZero() bool {
	return id == ""
}

// IsNumeric reports whether the id was a JSON number.
func (id LessonID) IsNumeric() bool {
	return id != "" && id[0] != '"'
}

// String returns the id without JSON quoting.
func (id LessonID) String() string {
	if id.IsNumeric() || id == "" {
		return string(id)
	}

	var s string
	if err := json.Unmarshal([]byte(id), &s); err != nil {
		return string(id)
	}

	return s
}

// MarshalJSON implements json.Marshaler.
func (id LessonID) MarshalJSON() ([]byte, error) {
	if id == "" {
		return []byte("null"), nil
	}

	return []byte(id), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (id *LessonID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""

		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return errors.Wrap(ErrInvalidLessonID, err.Error())
		}
		*id = StringLessonID(s)

		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return ErrInvalidLessonID
	}
	*id = NumericLessonID(n)

	return nil
}

// Lesson is one discoverable lesson place. Records are produced by a search and
// only ever copied afterwards. Fields the service does not know are kept in
// Extra so a record survives a round trip through the cart untouched.
type Lesson struct {
	ID               LessonID `json:"id"`
	PlaceName        string   `json:"place_name"`
	Distance         string   `json:"distance,omitempty"`      // Display string, e.g. "2.5km".
	DistanceValue    *float64 `json:"distanceValue,omitempty"` // Kilometres, for sorting only.
	StarRating       *float64 `json:"star_rating,omitempty"`
	Reviews          *int     `json:"reviews,omitempty"`
	Instructor       string   `json:"instructor,omitempty"`
	RoadAddressName  string   `json:"road_address_name,omitempty"`
	AddressName      string   `json:"address_name,omitempty"`
	Price            string   `json:"price,omitempty"`
	Day              string   `json:"day,omitempty"`
	Description      string   `json:"description,omitempty"`
	InstructorCareer string   `json:"instructor_career,omitempty"`
	X                string   `json:"x,omitempty"` // Longitude as reported by the places service.
	Y                string   `json:"y,omitempty"` // Latitude as reported by the places service.
	PlaceURL         string   `json:"place_url,omitempty"`
	Phone            string   `json:"phone,omitempty"`
	CategoryName     string   `json:"category_name,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

type lessonAlias Lesson

var lessonKnownFields = func() []string {
	t := reflect.TypeFor[lessonAlias]()
	names := make([]string, 0, t.NumField())
	for i := range t.NumField() {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name != "" && name != "-" {
			names = append(names, name)
		}
	}

	return names
}()

// UnmarshalJSON implements json.Unmarshaler.
func (l *Lesson) UnmarshalJSON(data []byte) error {
	var alias lessonAlias
	if err := json.Unmarshal(data, &alias); err != nil {
		return err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	for _, name := range lessonKnownFields {
		delete(fields, name)
	}
	if len(fields) > 0 {
		alias.Extra = fields
	}

	*l = Lesson(alias)

	return nil
}

// MarshalJSON implements json.Marshaler.
func (l Lesson) MarshalJSON() ([]byte, error) {
	known, err := json.Marshal(lessonAlias(l))
	if err != nil || len(l.Extra) == 0 {
		return known, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(known, &fields); err != nil {
		return nil, err
	}
	for name, value := range l.Extra {
		if _, ok := fields[name]; !ok {
			fields[name] = value
		}
	}

	return json.Marshal(fields)
}

// Validate checks the fields every lesson record must carry.
func (l *Lesson) Validate() error {
	if l.ID.IsZero() {
		return errors.New("lesson id is required")
	}
	if strings.TrimSpace(l.PlaceName) == "" {
		return errors.New("lesson place_name is required")
	}

	return nil
}

// Clone returns a deep copy.
func (l Lesson) Clone() Lesson {
	if l.DistanceValue != nil {
		v := *l.DistanceValue
		l.DistanceValue = &v
	}
	if l.StarRating != nil {
		v := *l.StarRating
		l.StarRating = &v
	}
	if l.Reviews != nil {
		v := *l.Reviews
		l.Reviews = &v
	}
	l.Extra = maps.Clone(l.Extra)

	return l
}

// SortDistance is the value used by the nearest-first sort: distanceValue,
// else the number the distance string starts with.
func (l *Lesson) SortDistance() (float64, bool) {
	if l.DistanceValue != nil {
		return *l.DistanceValue, true
	}

	return util.ParseLeadingFloat(l.Distance)
}

// CloneLessons deep-copies a slice of lessons.
func CloneLessons(lessons []Lesson) []Lesson {
	if lessons == nil {
		return nil
	}

	out := make([]Lesson, len(lessons))
	for i := range lessons {
		out[i] = lessons[i].Clone()
	}

	return out
}
