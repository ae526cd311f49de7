package service

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-view/internal/dto"
	"github.com/noah-isme/timetable-view/internal/models"
	"github.com/noah-isme/timetable-view/internal/timetable"
	appErrors "github.com/noah-isme/timetable-view/pkg/errors"
	"github.com/noah-isme/timetable-view/pkg/export"
)

type lessonSource interface {
	ListLessons(ctx context.Context, semcode int, from, to time.Time, ref models.EntityRef) ([]models.Lesson, error)
	ListDays(ctx context.Context, semcode int, from, to time.Time) ([]models.SemesterDay, error)
	Semcodes(ctx context.Context) ([]int, error)
}

// TimetableConfig tunes the timetable service.
type TimetableConfig struct {
	DefaultPairs timetable.PairRange
	ScheduleTTL  time.Duration
	ExportTitle  string
	FontPath     string
}

// TimetableService loads schedules for selected entities and runs the grid
// and free-slot computations over them.
type TimetableService struct {
	source    lessonSource
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       TimetableConfig
	renderers map[export.Format]export.Renderer
}

// NewTimetableService constructs a TimetableService.
func NewTimetableService(source lessonSource, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, cfg TimetableConfig) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.DefaultPairs == (timetable.PairRange{}) {
		cfg.DefaultPairs = timetable.FullDay()
	}
	if cfg.ExportTitle == "" {
		cfg.ExportTitle = "Общие свободные пары"
	}
	return &TimetableService{
		source:    source,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		renderers: exportRenderers(cfg.FontPath),
	}
}

// exportRenderers registers PDF only when a UTF-8 font is configured; the
// built-in PDF fonts cannot draw the Cyrillic column titles.
func exportRenderers(fontPath string) map[export.Format]export.Renderer {
	renderers := map[export.Format]export.Renderer{
		export.FormatCSV:  export.NewCSVExporter(),
		export.FormatXLSX: export.NewXLSXExporter(),
	}
	if fontPath != "" {
		renderers[export.FormatPDF] = export.NewPDFExporter(fontPath)
	}
	return renderers
}

// Grid builds the busy/free matrix of the selected entities.
func (s *TimetableService) Grid(ctx context.Context, req dto.GridRequest) (*dto.GridResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid grid request")
	}
	rng, err := timetable.ParseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	semester, err := s.resolveSemester(req.Semcode, rng.From)
	if err != nil {
		return nil, err
	}

	schedules, err := s.loadSchedules(ctx, int(semester.Code), rng, req.Entities)
	if err != nil {
		return nil, err
	}

	filters := timetable.FilterSetFromRefs(req.Entities)
	start := time.Now()
	grid := timetable.BuildGrid(filters.Entities(), rng, schedules, filters, timetable.WithSemester(semester))
	busy := grid.BusyCells()
	unidentified := len(grid.Unidentified())
	s.metrics.ObserveComputation("grid", time.Since(start), busy)

	if unidentified > 0 {
		s.logger.Warn("busy cells without lesson identity", zap.Int("count", unidentified), zap.Int("semcode", int(semester.Code)))
	}

	return &dto.GridResponse{
		Semcode:           int(semester.Code),
		Range:             rng,
		Grid:              grid,
		BusyCells:         busy,
		UnidentifiedCells: unidentified,
	}, nil
}

// FreeSlots returns every (date, pair) at which all selected entities are free,
// in the requested order.
func (s *TimetableService) FreeSlots(ctx context.Context, req dto.FreeSlotsRequest) (*dto.FreeSlotsResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid free slots request")
	}
	rng, err := timetable.ParseDateRange(req.From, req.To)
	if err != nil {
		return nil, err
	}
	pairs, err := s.pairRange(req.MinPair, req.MaxPair)
	if err != nil {
		return nil, err
	}
	state, err := sortState(req.Sort, req.Order, req.Toggle)
	if err != nil {
		return nil, err
	}

	selected := timetable.FilterSetFromRefs(req.Entities).Entities()
	resp := &dto.FreeSlotsResponse{
		Range:    rng,
		Pairs:    pairs,
		Entities: selected,
		Sort:     state,
	}
	if resp.Entities == nil {
		resp.Entities = []string{}
	}

	free := req.FreeSlots
	if free == nil && len(selected) > 0 {
		semester, err := s.resolveSemester(req.Semcode, rng.From)
		if err != nil {
			return nil, err
		}
		resp.Semcode = int(semester.Code)
		free, err = s.loadFreeSlots(ctx, resp.Semcode, rng, req.Entities)
		if err != nil {
			return nil, err
		}
	}

	start := time.Now()
	slots := state.Apply(timetable.IntersectFreeSlots(free, selected, pairs, rng))
	s.metrics.ObserveComputation("free_slots", time.Since(start), len(slots))

	s.logger.Debug("free slots computed",
		zap.Int("entities", len(selected)),
		zap.String("from", rng.From.String()),
		zap.String("to", rng.To.String()),
		zap.Int("slots", len(slots)),
	)

	resp.Slots = slots
	return resp, nil
}

// ExportFreeSlots renders the free-slot table as a CSV, PDF or XLSX download.
// PDF is available only with a configured UTF-8 font.
func (s *TimetableService) ExportFreeSlots(ctx context.Context, req dto.FreeSlotsRequest, format string) (*dto.ExportFile, error) {
	f, err := export.ParseFormat(format)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export format")
	}
	renderer, ok := s.renderers[f]
	if !ok {
		if f == export.FormatPDF {
			return nil, appErrors.Clone(appErrors.ErrValidation, "pdf export requires EXPORT_FONT_PATH")
		}
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}

	result, err := s.FreeSlots(ctx, req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	body, err := renderer.Render(freeSlotsDataset(s.cfg.ExportTitle, result))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.metrics.ObserveComputation("export_"+string(f), time.Since(start), len(result.Slots))

	return &dto.ExportFile{
		Filename:    fmt.Sprintf("free-slots_%s_%s.%s", result.Range.From, result.Range.To, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}

// Semesters lists the semesters with a timetable, latest start first, marking
// the one in force on today.
func (s *TimetableService) Semesters(ctx context.Context, today timetable.Date) ([]dto.SemesterSummary, error) {
	start := time.Now()
	codes, err := s.source.Semcodes(ctx)
	s.metrics.ObserveDBQuery("timetable_semcodes", time.Since(start))
	if err != nil {
		s.logger.Error("failed to list semesters", zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list semesters")
	}

	current := timetable.CurrentSemcode(today)
	out := make([]dto.SemesterSummary, 0, len(codes))
	for _, code := range codes {
		semester, err := timetable.NewSemester(timetable.Semcode(code))
		if err != nil {
			s.logger.Warn("skipping malformed semcode", zap.Int("semcode", code))
			continue
		}
		out = append(out, dto.SemesterSummary{
			Semcode: code,
			Start:   semester.Start,
			End:     semester.End,
			Current: semester.Code == current,
		})
	}
	slices.SortFunc(out, func(a, b dto.SemesterSummary) int { return b.Start.Compare(a.Start) })
	return out, nil
}

// ForgetSemester drops every cached schedule load of a semester, e.g. after
// a new timetable version was imported.
func (s *TimetableService) ForgetSemester(ctx context.Context, semcode int) error {
	if _, err := timetable.NewSemester(timetable.Semcode(semcode)); err != nil {
		return err
	}
	if err := s.cache.Invalidate(ctx, SchedulePattern(semcode)); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to purge schedule cache")
	}
	s.logger.Info("schedule cache purged", zap.Int("semcode", semcode))
	return nil
}

const (
	columnDate     = "Дата"
	columnWeekday  = "День"
	columnPair     = "Пара"
	columnTime     = "Время"
	columnEntities = "Свободны"
)

func freeSlotsDataset(title string, result *dto.FreeSlotsResponse) export.Dataset {
	rows := make([]map[string]string, 0, len(result.Slots))
	for _, slot := range result.Slots {
		weekday := ""
		if d, err := timetable.ParseDate(slot.Date); err == nil {
			weekday = timetable.WeekdayLabel(d.Weekday())
		}
		rows = append(rows, map[string]string{
			columnDate:     slot.Date,
			columnWeekday:  weekday,
			columnPair:     fmt.Sprintf("%d", slot.Pair),
			columnTime:     slot.PairTime,
			columnEntities: strings.Join(slot.Entities, ", "),
		})
	}
	return export.Dataset{
		Title:   fmt.Sprintf("%s: %s – %s", title, result.Range.From, result.Range.To),
		Headers: []string{columnDate, columnWeekday, columnPair, columnTime, columnEntities},
		Rows:    rows,
	}
}

func (s *TimetableService) resolveSemester(code int, from timetable.Date) (timetable.Semester, error) {
	semcode := timetable.Semcode(code)
	if code == 0 {
		semcode = timetable.CurrentSemcode(from)
	}
	semester, err := timetable.NewSemester(semcode)
	if err != nil {
		return timetable.Semester{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid semcode")
	}
	return semester, nil
}

func (s *TimetableService) pairRange(min, max int) (timetable.PairRange, error) {
	if min == 0 {
		min = s.cfg.DefaultPairs.Min
	}
	if max == 0 {
		max = s.cfg.DefaultPairs.Max
	}
	return timetable.NewPairRange(min, max)
}

func sortState(column, order, toggle string) (timetable.SortState, error) {
	col, err := timetable.ParseSortColumn(column)
	if err != nil {
		return timetable.SortState{}, err
	}
	dir, err := timetable.ParseSortDirection(order)
	if err != nil {
		return timetable.SortState{}, err
	}
	state := timetable.SortState{Column: col, Direction: dir}
	if toggle == "" {
		return state, nil
	}
	next, err := timetable.ParseSortColumn(toggle)
	if err != nil {
		return timetable.SortState{}, err
	}
	return state.Toggle(next), nil
}

// loadFreeSlots derives availability from lessons, restricted to the teaching
// days of the semester calendar. Dates outside it carry no data.
func (s *TimetableService) loadFreeSlots(ctx context.Context, semcode int, rng timetable.DateRange, refs []models.EntityRef) (models.FreeSlotMap, error) {
	start := time.Now()
	days, err := s.source.ListDays(ctx, semcode, rng.From.Time(), rng.To.Time())
	s.metrics.ObserveDBQuery("timetable_days", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load semester days")
	}

	schedules, err := s.loadSchedules(ctx, semcode, rng, refs)
	if err != nil {
		return nil, err
	}
	return timetable.FreePairsFromSchedule(schedules, teachingDays(days)), nil
}

func teachingDays(days []models.SemesterDay) iter.Seq[timetable.Date] {
	return func(yield func(timetable.Date) bool) {
		for _, d := range days {
			if !yield(timetable.DateOf(d.Day)) {
				return
			}
		}
	}
}

// loadSchedules fetches each selected entity once. Every requested name gets
// an entry, possibly empty, so an entity without lessons reads as free.
// loadSchedules keys schedules by entity name, so a name may belong to only
// one category per request.
func (s *TimetableService) loadSchedules(ctx context.Context, semcode int, rng timetable.DateRange, refs []models.EntityRef) (models.EntitySchedule, error) {
	if err := checkDistinctNames(refs); err != nil {
		return nil, err
	}
	schedules := make(models.EntitySchedule, len(refs))
	seen := make(map[models.EntityRef]bool, len(refs))
	for _, ref := range refs {
		if seen[ref] {
			continue
		}
		seen[ref] = true

		lessons, err := s.lessonsFor(ctx, semcode, rng, ref)
		if err != nil {
			return nil, err
		}
		days, ok := schedules[ref.Name]
		if !ok {
			days = make(map[string]models.PairSchedule)
			schedules[ref.Name] = days
		}
		s.placeLessons(ref, days, lessons)
	}
	return schedules, nil
}

func checkDistinctNames(refs []models.EntityRef) error {
	categories := make(map[string]models.EntityCategory, len(refs))
	for _, ref := range refs {
		if c, ok := categories[ref.Name]; ok && c != ref.Category {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("entity name %q is used by more than one category", ref.Name))
		}
		categories[ref.Name] = ref.Category
	}
	return nil
}

func (s *TimetableService) lessonsFor(ctx context.Context, semcode int, rng timetable.DateRange, ref models.EntityRef) ([]models.Lesson, error) {
	key := ScheduleKey(semcode, ref, rng.From.String(), rng.To.String())
	var lessons []models.Lesson
	if hit, err := s.cache.Get(ctx, key, &lessons); err == nil && hit {
		return lessons, nil
	}

	start := time.Now()
	lessons, err := s.source.ListLessons(ctx, semcode, rng.From.Time(), rng.To.Time(), ref)
	s.metrics.ObserveDBQuery("timetable_lessons", time.Since(start))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load schedule")
	}
	_ = s.cache.Set(ctx, key, lessons, s.cfg.ScheduleTTL)
	return lessons, nil
}

// placeLessons keeps the first lesson seen for a (date, pair); the source
// orders rows by id so the choice is stable.
func (s *TimetableService) placeLessons(ref models.EntityRef, days map[string]models.PairSchedule, lessons []models.Lesson) {
	for _, lesson := range lessons {
		if !timetable.ValidPair(lesson.Pair) {
			s.logger.Warn("lesson outside pair grid", zap.String("entity", ref.Name), zap.Int64("lesson_id", lesson.ID), zap.Int("pair", lesson.Pair))
			continue
		}
		iso := timetable.DateOf(lesson.Day).String()
		pairs, ok := days[iso]
		if !ok {
			pairs = make(models.PairSchedule)
			days[iso] = pairs
		}
		if existing, taken := pairs[lesson.Pair]; taken {
			s.logger.Debug("overlapping lessons in one pair",
				zap.String("entity", ref.Name),
				zap.String("date", iso),
				zap.Int("pair", lesson.Pair),
				zap.String("kept", existing.Subject),
				zap.Int64("dropped_id", lesson.ID),
			)
			continue
		}
		pairs[lesson.Pair] = lesson.Entry()
	}
}
