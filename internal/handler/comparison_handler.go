package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/timetable-view/internal/dto"
	"github.com/noah-isme/timetable-view/internal/models"
	appErrors "github.com/noah-isme/timetable-view/pkg/errors"
	"github.com/noah-isme/timetable-view/pkg/response"
)

type comparisonService interface {
	Compare(ctx context.Context, req dto.CompareRequest) (*dto.ComparisonResponse, error)
	Render(tree models.ComparisonResult, expand string) *dto.ComparisonResponse
}

// ComparisonHandler exposes snapshot comparison views.
type ComparisonHandler struct {
	svc comparisonService
}

// NewComparisonHandler constructs a ComparisonHandler.
func NewComparisonHandler(svc comparisonService) *ComparisonHandler {
	return &ComparisonHandler{svc: svc}
}

// Compare godoc
// @Summary Rendered comparison of two timetable snapshots
// @Tags Comparison
// @Produce json
// @Param left query string true "Older snapshot id"
// @Param right query string true "Newer snapshot id"
// @Param expand query string false "Group to expand"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /comparisons [get]
func (h *ComparisonHandler) Compare(c *gin.Context) {
	var req dto.CompareRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid query"))
		return
	}
	resp, err := h.svc.Compare(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp, comparisonMeta(resp))
}

// Render godoc
// @Summary Render a comparison tree supplied by the caller
// @Tags Comparison
// @Accept json
// @Produce json
// @Param expand query string false "Group to expand"
// @Param payload body models.ComparisonResult true "Comparison tree, bare or wrapped in metadata"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /comparisons/render [post]
func (h *ComparisonHandler) Render(c *gin.Context) {
	var tree models.ComparisonResult
	if err := c.ShouldBindJSON(&tree); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comparison tree"))
		return
	}
	resp := h.svc.Render(tree, c.Query("expand"))
	response.JSON(c, http.StatusOK, resp, comparisonMeta(resp))
}

func comparisonMeta(resp *dto.ComparisonResponse) map[string]interface{} {
	return map[string]interface{}{
		"groups":        len(resp.View.Groups),
		"changedGroups": resp.View.ChangedGroups,
		"malformedRows": resp.View.MalformedRows,
	}
}
