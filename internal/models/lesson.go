package models

import (
	"strings"
	"time"

	"github.com/lib/pq"
)

// Lesson is one sc_rasp18 row with its day and relations flattened.
type Lesson struct {
	ID        int64          `db:"id"`
	Day       time.Time      `db:"day"`
	Week      int            `db:"week"`
	Pair      int            `db:"pair"`
	WorkType  int            `db:"worktype"`
	TimeStart string         `db:"timestart"`
	TimeEnd   string         `db:"timeend"`
	Subject   string         `db:"subject"`
	Groups    pq.StringArray `db:"groups"`
	Preps     pq.StringArray `db:"preps"`
	Rooms     pq.StringArray `db:"rooms"`
}

// SemesterDay is a teaching day of the semester calendar.
type SemesterDay struct {
	Day     time.Time `db:"day"`
	Weekday int       `db:"weekday"`
	Week    int       `db:"week"`
}

var lessonTypeCodes = map[int]string{
	1: "ЛК",
	2: "ПР",
	3: "ЛАБ",
	4: "ЭКЗ",
	5: "ЗАЧ",
	6: "КР",
}

// LessonTypeCode maps a worktype to its short code, "" when unknown.
func LessonTypeCode(workType int) string {
	return lessonTypeCodes[workType]
}

// Entry converts the lesson into the schedule entry shown for an occupied slot.
func (l Lesson) Entry() ScheduleEntry {
	id := l.ID
	workType := l.WorkType
	return ScheduleEntry{
		Subject:      l.Subject,
		Teacher:      strings.Join(l.Preps, ", "),
		Teachers:     append([]string(nil), l.Preps...),
		Room:         strings.Join(l.Rooms, ", "),
		LessonType:   LessonTypeCode(l.WorkType),
		LessonTypeID: &workType,
		Groups:       append([]string(nil), l.Groups...),
		TimeStart:    l.TimeStart,
		TimeEnd:      l.TimeEnd,
		ID:           &id,
	}
}
