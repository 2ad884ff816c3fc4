package assess

import (
	"context"
	"fmt"
	"strings"

	"github.com/pavelanni/devreport/internal/model"
)

// SavePlan creates or replaces the individual plan of a (student, class).
func (s *Service) SavePlan(ctx context.Context, p *model.IndividualPlan) (int64, error) {
	p.Student = strings.TrimSpace(p.Student)
	p.Class = strings.TrimSpace(p.Class)
	if err := s.validate.Var(p.Student, "required,max=120"); err != nil {
		return 0, fmt.Errorf("%w: student: %w", ErrInvalid, err)
	}
	id, err := s.store.SavePlan(ctx, p)
	if err != nil {
		return 0, fmt.Errorf("save plan: %w", err)
	}
	return id, nil
}

// Plan returns the plan of a (student, class), or nil when none exists.
func (s *Service) Plan(ctx context.Context, student, class string) (*model.IndividualPlan, error) {
	return s.store.GetPlan(ctx, student, class)
}

// PlanByID returns one plan.
func (s *Service) PlanByID(ctx context.Context, id int64) (*model.IndividualPlan, error) {
	return s.store.GetPlanByID(ctx, id)
}

// Plans lists plans, optionally for one class.
func (s *Service) Plans(ctx context.Context, class string) ([]model.IndividualPlan, error) {
	return s.store.ListPlans(ctx, class)
}

// DeletePlan removes one plan.
func (s *Service) DeletePlan(ctx context.Context, id int64) error {
	return s.store.DeletePlan(ctx, id)
}
