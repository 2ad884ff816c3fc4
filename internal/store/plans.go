package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pavelanni/devreport/internal/model"
)

const planColumns = `id, student_name, class, profile, strengths, developing, supports, accommodations, updated_at`

// SavePlan inserts or replaces the plan for (student, class) and returns its id.
func (s *Store) SavePlan(ctx context.Context, p *model.IndividualPlan) (int64, error) {
	p.UpdatedAt = time.Now().UTC()
	_, err := s.db.NamedExecContext(ctx, `INSERT INTO individual_plans
		(student_name, class, profile, strengths, developing, supports, accommodations, updated_at)
		VALUES (:student_name, :class, :profile, :strengths, :developing, :supports, :accommodations, :updated_at)
		ON CONFLICT(student_name, class) DO UPDATE SET
			profile = excluded.profile,
			strengths = excluded.strengths,
			developing = excluded.developing,
			supports = excluded.supports,
			accommodations = excluded.accommodations,
			updated_at = excluded.updated_at`, p)
	if err != nil {
		return 0, fmt.Errorf("save plan: %w", err)
	}
	// LastInsertId is unreliable on the upsert path.
	var id int64
	if err := s.db.GetContext(ctx, &id,
		`SELECT id FROM individual_plans WHERE student_name = ? AND class = ?`, p.Student, p.Class); err != nil {
		return 0, fmt.Errorf("plan id: %w", err)
	}
	p.ID = id
	return id, nil
}

// GetPlan returns the plan for (student, class), or nil if none exists.
func (s *Store) GetPlan(ctx context.Context, student, class string) (*model.IndividualPlan, error) {
	var p model.IndividualPlan
	err := s.db.GetContext(ctx, &p,
		`SELECT `+planColumns+` FROM individual_plans WHERE student_name = ? AND class = ?`, student, class)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get plan: %w", err)
	}
	return &p, nil
}

// GetPlanByID returns a plan by id.
func (s *Store) GetPlanByID(ctx context.Context, id int64) (*model.IndividualPlan, error) {
	var p model.IndividualPlan
	err := s.db.GetContext(ctx, &p, `SELECT `+planColumns+` FROM individual_plans WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("plan %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get plan %d: %w", id, err)
	}
	return &p, nil
}

// ListPlans returns plans ordered by class and student. An empty class
// lists every plan.
func (s *Store) ListPlans(ctx context.Context, class string) ([]model.IndividualPlan, error) {
	query := `SELECT ` + planColumns + ` FROM individual_plans`
	var args []any
	if class != "" {
		query += ` WHERE class = ?`
		args = append(args, class)
	}
	query += ` ORDER BY class, student_name COLLATE NOCASE`
	var plans []model.IndividualPlan
	if err := s.db.SelectContext(ctx, &plans, query, args...); err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	return plans, nil
}

// DeletePlan removes a plan.
func (s *Store) DeletePlan(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM individual_plans WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete plan %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("plan %d: %w", id, ErrNotFound)
	}
	return nil
}
