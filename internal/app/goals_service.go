package app

import (
	"context"
	"errors"
	"strings"

	"mealtrack/internal/domain"
)

// GoalsService manages the user's goals profile.
type GoalsService struct {
	l      *Ledger
	totals *TotalsService
}

// NewGoalsService creates a GoalsService.
func NewGoalsService(l *Ledger, totals *TotalsService) *GoalsService {
	return &GoalsService{l: l, totals: totals}
}

// Get returns the stored profile, or ErrNotFound when onboarding has not
// been completed.
func (s *GoalsService) Get(ctx context.Context) (domain.GoalsProfile, error) {
	var p domain.GoalsProfile
	ok, err := s.l.load(ctx, domain.KeyProfile, &p)
	if err != nil {
		return domain.GoalsProfile{}, err
	}
	if !ok {
		return domain.GoalsProfile{}, domain.ErrNotFound
	}
	return p, nil
}

// Save validates and stores p, replacing any previous profile.
func (s *GoalsService) Save(ctx context.Context, p domain.GoalsProfile) (domain.GoalsProfile, error) {
	p.Name = strings.TrimSpace(p.Name)
	if err := p.Validate(); err != nil {
		return domain.GoalsProfile{}, err
	}

	s.l.mu.Lock()
	defer s.l.mu.Unlock()
	if err := s.l.save(ctx, domain.KeyProfile, p); err != nil {
		return domain.GoalsProfile{}, err
	}
	return p, nil
}

// NeedsOnboarding reports whether no readable profile is stored.
func (s *GoalsService) NeedsOnboarding(ctx context.Context) (bool, error) {
	_, err := s.Get(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	return false, err
}

// targets returns the goal targets, zero when no profile is stored.
func (s *GoalsService) targets(ctx context.Context) (domain.Totals, error) {
	p, err := s.Get(ctx)
	switch {
	case err == nil:
		return p.Targets(), nil
	case errors.Is(err, domain.ErrNotFound):
		return domain.Totals{}, nil
	default:
		return domain.Totals{}, err
	}
}

// Progress compares today's totals with the goals. Without a profile every
// goal is zero and every ratio is 0.
func (s *GoalsService) Progress(ctx context.Context) (domain.Progress, error) {
	today, err := s.totals.Today(ctx)
	if err != nil {
		return domain.Progress{}, err
	}
	targets, err := s.targets(ctx)
	if err != nil {
		return domain.Progress{}, err
	}
	return domain.ComputeProgress(today.Totals, targets), nil
}
