package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/timetable-view/internal/dto"
	"github.com/noah-isme/timetable-view/internal/models"
	"github.com/noah-isme/timetable-view/internal/timetable"
	appErrors "github.com/noah-isme/timetable-view/pkg/errors"
)

type comparisonFetcher interface {
	Compare(ctx context.Context, leftID, rightID string) (models.ComparisonResult, error)
}

// ComparisonService turns comparison trees into ordered views.
type ComparisonService struct {
	client    comparisonFetcher
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	ttl       time.Duration
}

// NewComparisonService constructs a ComparisonService.
func NewComparisonService(client comparisonFetcher, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger, ttl time.Duration) *ComparisonService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ComparisonService{client: client, cache: cache, metrics: metrics, validator: validate, logger: logger, ttl: ttl}
}

// Compare fetches the diff of two snapshot versions and renders it.
func (s *ComparisonService) Compare(ctx context.Context, req dto.CompareRequest) (*dto.ComparisonResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comparison request")
	}
	if s.client == nil {
		return nil, appErrors.Clone(appErrors.ErrUpstream, "comparison service not configured")
	}

	tree, err := s.fetch(ctx, req.Left, req.Right)
	if err != nil {
		return nil, err
	}

	resp := s.Render(tree, req.Expand)
	resp.Left = req.Left
	resp.Right = req.Right
	return resp, nil
}

// Render renders an already fetched tree. expand names the group to open;
// unknown or unchanged groups leave everything collapsed.
func (s *ComparisonService) Render(tree models.ComparisonResult, expand string) *dto.ComparisonResponse {
	start := time.Now()
	view := timetable.RenderComparison(timetable.IngestComparison(tree))
	s.metrics.ObserveComputation("comparison", time.Since(start), len(view.Groups))

	if view.MalformedRows > 0 {
		s.logger.Warn("comparison contains modified weeks without changed fields", zap.Int("rows", view.MalformedRows))
	}

	var expansion timetable.Expansion
	if expand != "" {
		expansion = expansion.Toggle(view, expand)
	}
	return &dto.ComparisonResponse{View: view, Expanded: expansion.Open()}
}

func (s *ComparisonService) fetch(ctx context.Context, leftID, rightID string) (models.ComparisonResult, error) {
	key := ComparisonKey(leftID, rightID)
	var tree models.ComparisonResult
	if hit, err := s.cache.Get(ctx, key, &tree); err == nil && hit {
		return tree, nil
	}

	tree, err := s.client.Compare(ctx, leftID, rightID)
	if err != nil {
		s.logger.Error("comparison fetch failed", zap.String("left", leftID), zap.String("right", rightID), zap.Error(err))
		return models.ComparisonResult{}, err
	}
	_ = s.cache.Set(ctx, key, tree, s.ttl)
	return tree, nil
}
