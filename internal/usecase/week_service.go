package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/americascouted/ncaa-stats/internal/domain/week"
)

type WeekService struct {
	weekRepo week.Repository
}

func NewWeekService(weekRepo week.Repository) *WeekService {
	return &WeekService{weekRepo: weekRepo}
}

func (s *WeekService) ListWeeks(ctx context.Context) ([]week.Marker, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.ListWeeks")
	defer span.End()

	weeks, err := s.weekRepo.ListWeeks(ctx)
	if err != nil {
		return nil, fmt.Errorf("list weeks: %w", err)
	}
	return weeks, nil
}

// LatestWeek returns the most recent discovered week marker.
func (s *WeekService) LatestWeek(ctx context.Context) (week.Marker, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.LatestWeek")
	defer span.End()

	weeks, err := s.weekRepo.ListWeeks(ctx)
	if err != nil {
		return week.Marker{}, fmt.Errorf("list weeks: %w", err)
	}
	if len(weeks) == 0 {
		return week.Marker{}, fmt.Errorf("%w: no snapshot weeks available", ErrNotFound)
	}
	return weeks[len(weeks)-1], nil
}

// ResolveWeek validates an end-week code, defaulting to the latest week
// when the code is empty.
func (s *WeekService) ResolveWeek(ctx context.Context, code string) (week.Marker, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.ResolveWeek")
	defer span.End()

	code = strings.TrimSpace(code)
	if code == "" {
		return s.LatestWeek(ctx)
	}

	marker, err := week.ParseCode(code)
	if err != nil {
		return week.Marker{}, fmt.Errorf("%w: week code %q", ErrInvalidInput, code)
	}

	weeks, err := s.weekRepo.ListWeeks(ctx)
	if err != nil {
		return week.Marker{}, fmt.Errorf("list weeks: %w", err)
	}
	for _, w := range weeks {
		if w.Code == marker.Code {
			return w, nil
		}
	}
	return week.Marker{}, fmt.Errorf("%w: week=%s", ErrNotFound, code)
}

// Refresh drops the cached week index so the next query rescans the
// snapshot directory.
func (s *WeekService) Refresh(ctx context.Context) {
	ctx, span := startUsecaseSpan(ctx, "usecase.WeekService.Refresh")
	defer span.End()

	s.weekRepo.Invalidate(ctx)
}
