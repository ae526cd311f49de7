package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-view/internal/models"
)

func newScheduleRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

var lessonColumns = []string{"id", "day", "week", "pair", "worktype", "timestart", "timeend", "subject", "groups", "preps", "rooms"}

func TestScheduleRepositoryListLessonsByGroup(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	from := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 6)
	rows := sqlmock.NewRows(lessonColumns).
		AddRow(int64(11), from, 4, 2, 1, "10:40", "12:10", "Математика", "{ИВТ-21,ИВТ-22}", "{\"Иванов И.И.\"}", "{301}")
	mock.ExpectQuery(regexp.QuoteMeta("WHERE g.title = $4")).
		WithArgs(20242, from, to, "ИВТ-21").
		WillReturnRows(rows)

	lessons, err := repo.ListLessons(context.Background(), 20242, from, to, models.EntityRef{Category: models.EntityCategoryGroup, Name: "ИВТ-21"})
	require.NoError(t, err)
	require.Len(t, lessons, 1)

	entry := lessons[0].Entry()
	assert.Equal(t, "Математика", entry.Subject)
	assert.Equal(t, "Иванов И.И.", entry.Teacher)
	assert.Equal(t, []string{"ИВТ-21", "ИВТ-22"}, entry.Groups)
	assert.Equal(t, "301", entry.Room)
	assert.Equal(t, "ЛК", entry.LessonType)
	id, ok := entry.Identity()
	require.True(t, ok)
	assert.Equal(t, int64(11), id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListLessonsByRoomAndTeacher(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)
	from := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE rr.room = $4")).
		WithArgs(20242, from, from, "301").
		WillReturnRows(sqlmock.NewRows(lessonColumns))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE p.fio = $4")).
		WithArgs(20242, from, from, "Иванов И.И.").
		WillReturnRows(sqlmock.NewRows(lessonColumns))

	lessons, err := repo.ListLessons(context.Background(), 20242, from, from, models.EntityRef{Category: models.EntityCategoryRoom, Name: "301"})
	require.NoError(t, err)
	assert.Empty(t, lessons)

	_, err = repo.ListLessons(context.Background(), 20242, from, from, models.EntityRef{Category: models.EntityCategoryTeacher, Name: "Иванов И.И."})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScheduleRepositoryListLessonsRejectsUnknownCategory(t *testing.T) {
	db, _, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)

	_, err := repo.ListLessons(context.Background(), 20242, time.Now(), time.Now(), models.EntityRef{Category: "building", Name: "A"})
	assert.Error(t, err)
}

func TestScheduleRepositoryListLessonsWrapsErrors(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)
	boom := errors.New("connection reset")

	mock.ExpectQuery("FROM sc_rasp18 r").WillReturnError(boom)
	_, err := repo.ListLessons(context.Background(), 20242, time.Now(), time.Now(), models.EntityRef{Category: models.EntityCategoryGroup, Name: "A"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
}

func TestScheduleRepositoryListDaysAndSemcodes(t *testing.T) {
	db, mock, cleanup := newScheduleRepoMock(t)
	defer cleanup()
	repo := NewScheduleRepository(db)
	day := time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT day, weekday, week FROM sc_rasp18_days WHERE semcode = $1")).
		WithArgs(20242, day, day).
		WillReturnRows(sqlmock.NewRows([]string{"day", "weekday", "week"}).AddRow(day, 1, 4))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT DISTINCT semcode FROM sc_rasp18_days")).
		WillReturnRows(sqlmock.NewRows([]string{"semcode"}).AddRow(20242).AddRow(20241))

	days, err := repo.ListDays(context.Background(), 20242, day, day)
	require.NoError(t, err)
	require.Len(t, days, 1)
	assert.Equal(t, 4, days[0].Week)

	codes, err := repo.Semcodes(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int{20242, 20241}, codes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLessonTypeCode(t *testing.T) {
	assert.Equal(t, "ЛАБ", models.LessonTypeCode(3))
	assert.Equal(t, "КР", models.LessonTypeCode(6))
	assert.Empty(t, models.LessonTypeCode(42))
}
