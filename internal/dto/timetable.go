package dto

import (
	"github.com/noah-isme/timetable-view/internal/models"
	"github.com/noah-isme/timetable-view/internal/timetable"
)

// GridRequest selects entities and a date window for the busy/free grid.
type GridRequest struct {
	Entities []models.EntityRef `json:"entities" validate:"required,min=1,dive"`
	From     string             `json:"from" validate:"required,datetime=2006-01-02"`
	To       string             `json:"to" validate:"required,datetime=2006-01-02"`
	Semcode  int                `json:"semcode" validate:"omitempty,min=10001"`
}

// SemesterSummary describes one semester that has a timetable.
type SemesterSummary struct {
	Semcode int            `json:"semcode"`
	Start   timetable.Date `json:"start"`
	End     timetable.Date `json:"end"`
	Current bool           `json:"current"`
}

// GridResponse carries the grid with the semester it was resolved against.
type GridResponse struct {
	Semcode           int                 `json:"semcode"`
	Range             timetable.DateRange `json:"range"`
	Grid              timetable.Grid      `json:"grid"`
	BusyCells         int                 `json:"busyCells"`
	UnidentifiedCells int                 `json:"unidentifiedCells"`
}

// FreeSlotsRequest asks for the pairs every selected entity has free.
// FreeSlots, when present, replaces the database lookup with caller-supplied
// availability keyed by date and entity name.
type FreeSlotsRequest struct {
	Entities  []models.EntityRef `json:"entities" validate:"omitempty,dive"`
	From      string             `json:"from" validate:"required,datetime=2006-01-02"`
	To        string             `json:"to" validate:"required,datetime=2006-01-02"`
	Semcode   int                `json:"semcode" validate:"omitempty,min=10001"`
	MinPair   int                `json:"minPair" validate:"omitempty,min=1,max=7"`
	MaxPair   int                `json:"maxPair" validate:"omitempty,min=1,max=7"`
	Sort      string             `json:"sort" validate:"omitempty,oneof=date pair entities"`
	Order     string             `json:"order" validate:"omitempty,oneof=asc desc"`
	Toggle    string             `json:"toggle" validate:"omitempty,oneof=date pair entities"`
	FreeSlots models.FreeSlotMap `json:"freeSlots,omitempty"`
}

// FreeSlotsResponse lists common free slots in the requested order.
type FreeSlotsResponse struct {
	Semcode  int                     `json:"semcode,omitempty"`
	Range    timetable.DateRange     `json:"range"`
	Pairs    timetable.PairRange     `json:"pairs"`
	Entities []string                `json:"entities"`
	Sort     timetable.SortState     `json:"sortState"`
	Slots    []models.CommonFreeSlot `json:"slots"`
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
