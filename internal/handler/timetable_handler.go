package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-view/internal/dto"
	"github.com/noah-isme/timetable-view/internal/timetable"
	appErrors "github.com/noah-isme/timetable-view/pkg/errors"
	"github.com/noah-isme/timetable-view/pkg/response"
)

type timetableService interface {
	Grid(ctx context.Context, req dto.GridRequest) (*dto.GridResponse, error)
	FreeSlots(ctx context.Context, req dto.FreeSlotsRequest) (*dto.FreeSlotsResponse, error)
	ExportFreeSlots(ctx context.Context, req dto.FreeSlotsRequest, format string) (*dto.ExportFile, error)
	Semesters(ctx context.Context, today timetable.Date) ([]dto.SemesterSummary, error)
	ForgetSemester(ctx context.Context, semcode int) error
}

// TimetableHandler exposes grid and free-slot endpoints.
type TimetableHandler struct {
	svc timetableService
	now func() time.Time
}

// NewTimetableHandler constructs a TimetableHandler.
func NewTimetableHandler(svc timetableService) *TimetableHandler {
	return &TimetableHandler{svc: svc, now: time.Now}
}

// Grid godoc
// @Summary Busy/free grid of the selected entities
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.GridRequest true "Entities and date window"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetable/grid [post]
func (h *TimetableHandler) Grid(c *gin.Context) {
	var req dto.GridRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	resp, err := h.svc.Grid(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, map[string]interface{}{
		"days":     len(resp.Grid.Days),
		"entities": len(resp.Grid.Entities),
	})
}

// FreeSlots godoc
// @Summary Pairs at which every selected entity is free
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body dto.FreeSlotsRequest true "Entities, window, pair range and ordering"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetable/free-slots [post]
func (h *TimetableHandler) FreeSlots(c *gin.Context) {
	var req dto.FreeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	resp, err := h.svc.FreeSlots(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, map[string]interface{}{
		"count": len(resp.Slots),
		"sort":  resp.Sort.Column,
		"order": resp.Sort.Direction,
	})
}

// ExportFreeSlots godoc
// @Summary Download the free-slot table
// @Tags Timetable
// @Accept json
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv, pdf or xlsx" default(csv)
// @Param payload body dto.FreeSlotsRequest true "Same payload as free-slots"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /timetable/free-slots/export [post]
func (h *TimetableHandler) ExportFreeSlots(c *gin.Context) {
	var req dto.FreeSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid payload"))
		return
	}
	file, err := h.svc.ExportFreeSlots(c.Request.Context(), req, c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}

type semesterInfo struct {
	Semcode int            `json:"semcode"`
	Start   timetable.Date `json:"start"`
	End     timetable.Date `json:"end"`
	Date    timetable.Date `json:"date"`
	Week    int            `json:"week,omitempty"`
	Parity  string         `json:"parity,omitempty"`
}

// Semester godoc
// @Summary Semester, teaching week and parity of a date
// @Tags Timetable
// @Produce json
// @Param date query string false "ISO date, defaults to today"
// @Param semcode query int false "Semester code, derived from the date when omitted"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /timetable/semester [get]
func (h *TimetableHandler) Semester(c *gin.Context) {
	date := timetable.DateOf(h.now())
	if raw := c.Query("date"); raw != "" {
		parsed, err := timetable.ParseDate(raw)
		if err != nil {
			response.Error(c, err)
			return
		}
		date = parsed
	}

	code := timetable.CurrentSemcode(date)
	if raw := c.Query("semcode"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semcode must be numeric"))
			return
		}
		code = timetable.Semcode(n)
	}

	semester, err := timetable.NewSemester(code)
	if err != nil {
		response.Error(c, err)
		return
	}
	info := semesterInfo{Semcode: int(semester.Code), Start: semester.Start, End: semester.End, Date: date}
	if week, ok := semester.WeekOf(date); ok {
		info.Week = week
		info.Parity = timetable.WeekParityOf(week).Label()
	}
	response.JSON(c, http.StatusOK, info)
}

type pairSlot struct {
	Pair int    `json:"pair"`
	Time string `json:"time"`
}

// Pairs godoc
// @Summary Pair numbers and their clock times
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /timetable/pairs [get]
func (h *TimetableHandler) Pairs(c *gin.Context) {
	pairs := make([]pairSlot, 0, timetable.MaxPair)
	for _, p := range timetable.FullDay().Pairs() {
		pairs = append(pairs, pairSlot{Pair: p, Time: timetable.PairTime(p)})
	}
	response.JSON(c, http.StatusOK, pairs)
}

// Semesters godoc
// @Summary Semesters that have a timetable
// @Tags Timetable
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /timetable/semesters [get]
func (h *TimetableHandler) Semesters(c *gin.Context) {
	list, err := h.svc.Semesters(c.Request.Context(), timetable.DateOf(h.now()))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, list, map[string]interface{}{"count": len(list)})
}

// ForgetSemester godoc
// @Summary Drop cached schedule loads of a semester
// @Tags Timetable
// @Param semcode path int true "Semester code, e.g. 20241"
// @Success 204
// @Failure 400 {object} response.Envelope
// @Router /timetable/cache/{semcode} [delete]
func (h *TimetableHandler) ForgetSemester(c *gin.Context) {
	semcode, err := strconv.Atoi(c.Param("semcode"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "semcode must be numeric"))
		return
	}
	if err := h.svc.ForgetSemester(c.Request.Context(), semcode); err != nil {
		response.Error(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
