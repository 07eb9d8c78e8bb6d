package grpcserver

import (
	"context"
	"errors"
	"runtime/debug"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"recipehub/internal/catalog"
	"recipehub/internal/recipes"
	"recipehub/internal/upstream"
	"recipehub/pkg/models"
)

type Server struct {
	Recipes *recipes.Service
}

func NewServer(svc *recipes.Service) *Server {
	return &Server{Recipes: svc}
}

func (s *Server) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	kind, _ := models.ParseKind(req.Type)

	results, err := s.Recipes.Search(ctx, req.Query, kind)
	if err != nil {
		return nil, toStatus(err, "search failed")
	}
	return &SearchResponse{Results: results}, nil
}

func (s *Server) Browse(ctx context.Context, req *BrowseRequest) (*models.BrowsePage, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	if req.Page < 0 || req.PageSize < 0 {
		return nil, status.Error(codes.InvalidArgument, "page and pageSize must be >= 0")
	}

	q := recipes.BrowseQuery{
		Q:           req.Q,
		MinCalories: req.MinCalories,
		MaxCalories: req.MaxCalories,
		Sort:        recipes.ParseSort(req.Sort),
		Page:        req.Page,
		PageSize:    req.PageSize,
	}
	q.Kind, _ = models.ParseKind(req.Type)
	q.Diet, _ = models.ParseDiet(req.Diet)

	page, err := s.Recipes.Browse(ctx, q)
	if err != nil {
		return nil, toStatus(err, "browse failed")
	}
	return &page, nil
}

func (s *Server) Suggested(ctx context.Context, req *SuggestedRequest) (*SuggestedResponse, error) {
	if req == nil {
		return nil, status.Error(codes.InvalidArgument, "request required")
	}
	kind, _ := models.ParseKind(req.Type)

	results, err := s.Recipes.Suggested(ctx, strings.TrimSpace(req.ExcludeID), req.Limit, kind)
	if err != nil {
		return nil, toStatus(err, "suggested failed")
	}
	return &SuggestedResponse{Results: results}, nil
}

func (s *Server) Details(ctx context.Context, req *DetailsRequest) (*DetailsResponse, error) {
	if req == nil || strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	kind, ok := models.ParseKind(req.Type)
	if !ok {
		kind = models.KindMeal
	}

	recipe, err := s.Recipes.Details(ctx, req.ID, kind)
	if err != nil {
		return nil, toStatus(err, "lookup failed")
	}
	return &DetailsResponse{Recipe: recipe}, nil
}

func (s *Server) Nutrition(_ context.Context, req *NutritionRequest) (*NutritionResponse, error) {
	if req == nil || strings.TrimSpace(req.ID) == "" {
		return nil, status.Error(codes.InvalidArgument, "id required")
	}
	return &NutritionResponse{Nutrition: s.Recipes.Nutrition(req.ID)}, nil
}

// Curated answers with the hand-picked list for Type, meals by default.
func (s *Server) Curated(ctx context.Context, req *CuratedRequest) (*CuratedResponse, error) {
	kind := models.KindMeal
	if req != nil {
		if k, ok := models.ParseKind(req.Type); ok {
			kind = k
		}
	}

	items, err := s.Recipes.Curated(ctx, kind)
	if err != nil {
		return nil, toStatus(err, "curated lookup failed")
	}
	return &CuratedResponse{Results: items}, nil
}

func (s *Server) RandomDrink(ctx context.Context, _ *RandomDrinkRequest) (*DetailsResponse, error) {
	rec, err := s.Recipes.RandomDrink(ctx)
	if err != nil {
		return nil, toStatus(err, "random drink failed")
	}
	return &DetailsResponse{Recipe: rec}, nil
}

func toStatus(err error, msg string) error {
	switch {
	case errors.Is(err, upstream.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, catalog.ErrUpstreamUnavailable), errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.Unavailable, "recipe catalog unavailable")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	default:
		return status.Error(codes.Internal, msg)
	}
}

// LoggingInterceptor logs each unary call with its status code.
func LoggingInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	logger = logger.Named("grpc")
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		logger.Info("call",
			zap.String("method", info.FullMethod),
			zap.String("code", status.Code(err).String()),
			zap.Duration("duration", time.Since(start)),
		)
		return resp, err
	}
}

// RecoveryInterceptor turns a handler panic into codes.Internal so one bad
// request cannot take the process down.
func RecoveryInterceptor(logger *zap.Logger) grpc.UnaryServerInterceptor {
	logger = logger.Named("grpc")
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error("panic recovered",
					zap.String("method", info.FullMethod),
					zap.Any("panic", rec),
					zap.ByteString("stack", debug.Stack()),
				)
				resp, err = nil, status.Error(codes.Internal, "internal server error")
			}
		}()
		return handler(ctx, req)
	}
}

// ServerOptions is the interceptor chain every catalog server runs with.
// Recovery sits inside logging so recovered calls are still logged.
func ServerOptions(logger *zap.Logger) []grpc.ServerOption {
	return []grpc.ServerOption{
		grpc.ChainUnaryInterceptor(LoggingInterceptor(logger), RecoveryInterceptor(logger)),
	}
}
