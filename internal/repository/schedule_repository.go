package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/timetable-view/internal/models"
)

const lessonSelect = `SELECT r.id, d.day, d.week, r.pair, r.worktype, r.timestart, r.timeend, disc.title AS subject,
	COALESCE((SELECT array_agg(g.title ORDER BY g.title) FROM sc_rasp18_groups rg JOIN sc_group g ON g.id = rg.group_id WHERE rg.rasp18_id = r.id), '{}') AS groups,
	COALESCE((SELECT array_agg(p.fio ORDER BY p.fio) FROM sc_rasp18_preps rp JOIN sc_prep p ON p.id = rp.prep_id WHERE rp.rasp18_id = r.id), '{}') AS preps,
	COALESCE((SELECT array_agg(rr.room ORDER BY rr.room) FROM sc_rasp18_rooms rr WHERE rr.rasp18_id = r.id), '{}') AS rooms
FROM sc_rasp18 r
JOIN sc_rasp18_days d ON d.id = r.day_id
JOIN sc_disc disc ON disc.id = r.disc_id
WHERE d.semcode = $1 AND d.day BETWEEN $2 AND $3 AND r.id IN (%s)
ORDER BY d.day, r.pair, r.id`

var entityLessonFilters = map[models.EntityCategory]string{
	models.EntityCategoryGroup:   `SELECT rg.rasp18_id FROM sc_rasp18_groups rg JOIN sc_group g ON g.id = rg.group_id WHERE g.title = $4`,
	models.EntityCategoryTeacher: `SELECT rp.rasp18_id FROM sc_rasp18_preps rp JOIN sc_prep p ON p.id = rp.prep_id WHERE p.fio = $4`,
	models.EntityCategoryRoom:    `SELECT rr.rasp18_id FROM sc_rasp18_rooms rr WHERE rr.room = $4`,
}

// ScheduleRepository reads the 18-week timetable tables.
type ScheduleRepository struct {
	db *sqlx.DB
}

// NewScheduleRepository constructs a ScheduleRepository.
func NewScheduleRepository(db *sqlx.DB) *ScheduleRepository {
	return &ScheduleRepository{db: db}
}

// ListLessons returns the lessons of one entity between from and to inclusive.
// An unknown entity simply yields no rows.
func (r *ScheduleRepository) ListLessons(ctx context.Context, semcode int, from, to time.Time, ref models.EntityRef) ([]models.Lesson, error) {
	filter, ok := entityLessonFilters[ref.Category]
	if !ok {
		return nil, fmt.Errorf("unsupported entity type %q", ref.Category)
	}
	query := fmt.Sprintf(lessonSelect, filter)

	var rows []models.Lesson
	if err := r.db.SelectContext(ctx, &rows, query, semcode, from, to, ref.Name); err != nil {
		return nil, fmt.Errorf("list lessons for %s %q: %w", ref.Category, ref.Name, err)
	}
	return rows, nil
}

// ListDays returns the teaching days of a semester in a date window.
func (r *ScheduleRepository) ListDays(ctx context.Context, semcode int, from, to time.Time) ([]models.SemesterDay, error) {
	const query = `SELECT day, weekday, week FROM sc_rasp18_days WHERE semcode = $1 AND day BETWEEN $2 AND $3 ORDER BY day`
	var days []models.SemesterDay
	if err := r.db.SelectContext(ctx, &days, query, semcode, from, to); err != nil {
		return nil, fmt.Errorf("list semester days: %w", err)
	}
	return days, nil
}

// Semcodes lists the semesters that have a timetable.
func (r *ScheduleRepository) Semcodes(ctx context.Context) ([]int, error) {
	const query = `SELECT DISTINCT semcode FROM sc_rasp18_days ORDER BY semcode`
	var codes []int
	if err := r.db.SelectContext(ctx, &codes, query); err != nil {
		return nil, fmt.Errorf("list semcodes: %w", err)
	}
	return codes, nil
}

// Ping checks database connectivity.
func (r *ScheduleRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
