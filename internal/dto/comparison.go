package dto

import "github.com/noah-isme/timetable-view/internal/timetable"

// CompareRequest names two snapshot versions to compare.
type CompareRequest struct {
	Left   string `form:"left" validate:"required,numeric"`
	Right  string `form:"right" validate:"required,numeric"`
	Expand string `form:"expand"`
}

// ComparisonResponse is the rendered comparison plus the expanded group.
type ComparisonResponse struct {
	Left     string                   `json:"left,omitempty"`
	Right    string                   `json:"right,omitempty"`
	View     timetable.ComparisonView `json:"view"`
	Expanded string                   `json:"expanded,omitempty"`
}
