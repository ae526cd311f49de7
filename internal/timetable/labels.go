package timetable

import (
	"fmt"
	"time"

	"github.com/noah-isme/timetable-view/internal/models"
)

// Placeholder stands in for a missing value.
const Placeholder = "—"

var weekdayLabels = map[time.Weekday]string{
	time.Monday:    "Понедельник",
	time.Tuesday:   "Вторник",
	time.Wednesday: "Среда",
	time.Thursday:  "Четверг",
	time.Friday:    "Пятница",
	time.Saturday:  "Суббота",
	time.Sunday:    "Воскресенье",
}

// WeekdayLabel returns the localized weekday name.
func WeekdayLabel(wd time.Weekday) string {
	return weekdayLabels[wd]
}

// Field names used by comparison results.
const (
	FieldSubject    = "subject"
	FieldTeacher    = "teacher"
	FieldRoom       = "room"
	FieldCampus     = "campus"
	FieldDates      = "dates"
	FieldLessonType = "lesson_type"
)

var fieldLabels = map[string]string{
	FieldSubject:    "Предмет",
	FieldTeacher:    "Преподаватель",
	FieldRoom:       "Аудитория",
	FieldCampus:     "Кампус",
	FieldDates:      "Даты проведения",
	FieldLessonType: "Тип занятия",
}

// FieldLabel translates a changed field name. Unknown names pass through.
func FieldLabel(field string) string {
	if label, ok := fieldLabels[field]; ok {
		return label
	}
	return field
}

// summary badge labels, in display order
var summaryFields = []struct {
	key   string
	label string
	count func(models.ChangeSummary) int
}{
	{FieldSubject, "предметы", func(s models.ChangeSummary) int { return s.Subject }},
	{FieldTeacher, "преподаватели", func(s models.ChangeSummary) int { return s.Teacher }},
	{FieldRoom, "аудитории", func(s models.ChangeSummary) int { return s.Room }},
	{FieldCampus, "кампусы", func(s models.ChangeSummary) int { return s.Campus }},
}

var itemLabels = map[models.ChangeKind]string{
	models.ChangeAdded:    "добавлено",
	models.ChangeRemoved:  "удалено",
	models.ChangeModified: "изменено",
}

var sectionTitles = map[models.ChangeKind]string{
	models.ChangeAdded:    "Добавленные пары",
	models.ChangeRemoved:  "Удаленные пары",
	models.ChangeModified: "Измененные пары",
}

var weekStatusText = map[models.ChangeKind]string{
	models.ChangeAdded:     "Добавлено",
	models.ChangeRemoved:   "Удалено",
	models.ChangeModified:  "Изменено",
	models.ChangeUnchanged: "Без изменений",
}

const noDetailsLabel = "Нет подробностей"

func groupStatus(total int) string {
	if total > 0 {
		return fmt.Sprintf("%d изменений", total)
	}
	return "Нет изменений"
}

func weeksTitle(section models.ChangeKind, week int) string {
	lead := "Информация"
	if section == models.ChangeModified {
		lead = "Изменения"
	}
	if week <= 0 {
		return lead + " по неделям:"
	}
	return fmt.Sprintf("%s по %s неделям:", lead, WeekParityOf(week).dative())
}
