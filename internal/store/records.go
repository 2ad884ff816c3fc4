package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/pavelanni/devreport/internal/model"
)

const recordColumns = `id, ref, stage, student_name, age, sex, class, evaluator, period, school,
	overall, report_text, suggestions_text, created_at, updated_at`

type responseRow struct {
	RecordID int64 `db:"record_id"`
	Position int   `db:"position"`
	model.Response
}

type scoreRow struct {
	RecordID int64 `db:"record_id"`
	Position int   `db:"position"`
	model.DimensionScore
}

// CreateRecord inserts a record with its responses and dimension scores in
// one transaction. It fills in ID, Ref and the timestamps.
func (s *Store) CreateRecord(ctx context.Context, rec *model.AssessmentRecord) (id int64, err error) {
	if rec.Ref == "" {
		rec.Ref = uuid.NewString()
	}
	now := time.Now().UTC()
	rec.CreatedAt = now
	rec.UpdatedAt = now

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin create record: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.NamedExecContext(ctx, `INSERT INTO records
		(ref, stage, student_name, age, sex, class, evaluator, period, school,
		 overall, report_text, suggestions_text, created_at, updated_at)
		VALUES (:ref, :stage, :student_name, :age, :sex, :class, :evaluator, :period, :school,
		 :overall, :report_text, :suggestions_text, :created_at, :updated_at)`, rec)
	if err != nil {
		return 0, fmt.Errorf("insert record: %w", err)
	}
	if id, err = res.LastInsertId(); err != nil {
		return 0, fmt.Errorf("record id: %w", err)
	}
	if err = insertChildren(ctx, tx, id, rec.Responses, rec.Scores); err != nil {
		return 0, err
	}
	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit create record: %w", err)
	}
	rec.ID = id
	slog.Info("created record", "id", id, "ref", rec.Ref, "stage", rec.Stage, "responses", len(rec.Responses))
	return id, nil
}

// UpdateRecord rewrites a record's attributes and texts. When
// rec.Responses is non-nil, all stored responses and dimension scores are
// replaced by rec.Responses and rec.Scores in the same transaction.
func (s *Store) UpdateRecord(ctx context.Context, rec *model.AssessmentRecord) (err error) {
	rec.UpdatedAt = time.Now().UTC()

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update record: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	res, err := tx.NamedExecContext(ctx, `UPDATE records SET
		stage = :stage, student_name = :student_name, age = :age, sex = :sex, class = :class,
		evaluator = :evaluator, period = :period, school = :school, overall = :overall,
		report_text = :report_text, suggestions_text = :suggestions_text, updated_at = :updated_at
		WHERE id = :id`, rec)
	if err != nil {
		return fmt.Errorf("update record %d: %w", rec.ID, err)
	}
	if err = expectOne(res, rec.ID); err != nil {
		return err
	}

	if rec.Responses != nil {
		if _, err = tx.ExecContext(ctx, `DELETE FROM responses WHERE record_id = ?`, rec.ID); err != nil {
			return fmt.Errorf("clear responses: %w", err)
		}
		if _, err = tx.ExecContext(ctx, `DELETE FROM dimension_scores WHERE record_id = ?`, rec.ID); err != nil {
			return fmt.Errorf("clear dimension scores: %w", err)
		}
		if err = insertChildren(ctx, tx, rec.ID, rec.Responses, rec.Scores); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit update record: %w", err)
	}
	slog.Info("updated record", "id", rec.ID, "replaced_responses", rec.Responses != nil)
	return nil
}

// UpdateNarrative replaces only the report and suggestions texts.
func (s *Store) UpdateNarrative(ctx context.Context, id int64, report, suggestions string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE records SET report_text = ?, suggestions_text = ?, updated_at = ? WHERE id = ?`,
		report, suggestions, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update narrative %d: %w", id, err)
	}
	return expectOne(res, id)
}

// DeleteRecord removes a record with its responses and dimension scores.
func (s *Store) DeleteRecord(ctx context.Context, id int64) (err error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete record: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM responses WHERE record_id = ?`, id); err != nil {
		return fmt.Errorf("delete responses: %w", err)
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM dimension_scores WHERE record_id = ?`, id); err != nil {
		return fmt.Errorf("delete dimension scores: %w", err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if err = expectOne(res, id); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit delete record: %w", err)
	}
	slog.Info("deleted record", "id", id)
	return nil
}

// GetRecord returns a record with its responses and dimension scores.
func (s *Store) GetRecord(ctx context.Context, id int64) (*model.AssessmentRecord, error) {
	var rec model.AssessmentRecord
	err := s.db.GetContext(ctx, &rec, `SELECT `+recordColumns+` FROM records WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get record %d: %w", id, err)
	}

	rec.Responses = []model.Response{}
	if err := s.db.SelectContext(ctx, &rec.Responses,
		`SELECT dimension_code, dimension_name, item_code, item_text, level
		 FROM responses WHERE record_id = ? ORDER BY position`, id); err != nil {
		return nil, fmt.Errorf("get responses %d: %w", id, err)
	}
	rec.Scores = []model.DimensionScore{}
	if err := s.db.SelectContext(ctx, &rec.Scores,
		`SELECT dimension_code, dimension_name, theme, mean
		 FROM dimension_scores WHERE record_id = ? ORDER BY position`, id); err != nil {
		return nil, fmt.Errorf("get dimension scores %d: %w", id, err)
	}
	return &rec, nil
}

// ListRecords returns the records matching filter, newest first, with their
// dimension scores loaded. Responses are not loaded.
func (s *Store) ListRecords(ctx context.Context, filter model.RecordFilter) ([]model.AssessmentRecord, error) {
	where, args := filterClause(filter)
	query := `SELECT ` + recordColumns + ` FROM records` + where + ` ORDER BY created_at DESC, id DESC`

	var records []model.AssessmentRecord
	if err := s.db.SelectContext(ctx, &records, query, args...); err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	if len(records) == 0 {
		return records, nil
	}

	ids := make([]int64, len(records))
	index := make(map[int64]int, len(records))
	for i, r := range records {
		ids[i] = r.ID
		index[r.ID] = i
	}
	q, qargs, err := sqlx.In(`SELECT record_id, position, dimension_code, dimension_name, theme, mean
		FROM dimension_scores WHERE record_id IN (?) ORDER BY record_id, position`, ids)
	if err != nil {
		return nil, fmt.Errorf("build scores query: %w", err)
	}
	var rows []scoreRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), qargs...); err != nil {
		return nil, fmt.Errorf("list dimension scores: %w", err)
	}
	for _, row := range rows {
		i := index[row.RecordID]
		records[i].Scores = append(records[i].Scores, row.DimensionScore)
	}
	return records, nil
}

// LoadResponses fills in Responses for each record.
func (s *Store) LoadResponses(ctx context.Context, records []model.AssessmentRecord) error {
	if len(records) == 0 {
		return nil
	}
	ids := make([]int64, len(records))
	index := make(map[int64]int, len(records))
	for i, r := range records {
		ids[i] = r.ID
		index[r.ID] = i
		records[i].Responses = []model.Response{}
	}
	q, args, err := sqlx.In(`SELECT record_id, position, dimension_code, dimension_name, item_code, item_text, level
		FROM responses WHERE record_id IN (?) ORDER BY record_id, position`, ids)
	if err != nil {
		return fmt.Errorf("build responses query: %w", err)
	}
	var rows []responseRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(q), args...); err != nil {
		return fmt.Errorf("list responses: %w", err)
	}
	for _, row := range rows {
		i := index[row.RecordID]
		records[i].Responses = append(records[i].Responses, row.Response)
	}
	return nil
}

// RecordCount returns the number of records matching filter.
func (s *Store) RecordCount(ctx context.Context, filter model.RecordFilter) (int, error) {
	where, args := filterClause(filter)
	var n int
	if err := s.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM records`+where, args...); err != nil {
		return 0, fmt.Errorf("count records: %w", err)
	}
	return n, nil
}

// Field names a filterable record attribute.
type Field string

const (
	FieldStudent   Field = "student_name"
	FieldClass     Field = "class"
	FieldEvaluator Field = "evaluator"
	FieldSchool    Field = "school"
	FieldPeriod    Field = "period"
	FieldStage     Field = "stage"
)

var distinctFields = map[Field]bool{
	FieldStudent:   true,
	FieldClass:     true,
	FieldEvaluator: true,
	FieldSchool:    true,
	FieldPeriod:    true,
	FieldStage:     true,
}

// Distinct returns the sorted non-empty values of a record attribute, for
// filter dropdowns.
func (s *Store) Distinct(ctx context.Context, f Field) ([]string, error) {
	if !distinctFields[f] {
		return nil, fmt.Errorf("distinct: unsupported field %q", f)
	}
	col := string(f)
	var out []string
	err := s.db.SelectContext(ctx, &out,
		`SELECT DISTINCT `+col+` FROM records WHERE `+col+` <> '' ORDER BY `+col+` COLLATE NOCASE`)
	if err != nil {
		return nil, fmt.Errorf("distinct %s: %w", col, err)
	}
	return out, nil
}

func filterClause(f model.RecordFilter) (string, []any) {
	var conds []string
	var args []any
	if f.Student != "" {
		conds = append(conds, "LOWER(student_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(f.Student)+"%")
	}
	eq := []struct {
		col, val string
	}{
		{"evaluator", f.Evaluator},
		{"class", f.Class},
		{"school", f.School},
		{"period", f.Period},
		{"stage", f.Stage},
	}
	for _, e := range eq {
		if e.val != "" {
			conds = append(conds, e.col+" = ?")
			args = append(args, e.val)
		}
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func insertChildren(ctx context.Context, tx *sqlx.Tx, recordID int64, responses []model.Response, scores []model.DimensionScore) error {
	if len(responses) > 0 {
		rows := make([]responseRow, len(responses))
		for i, r := range responses {
			rows[i] = responseRow{RecordID: recordID, Position: i, Response: r}
		}
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO responses
			(record_id, position, dimension_code, dimension_name, item_code, item_text, level)
			VALUES (:record_id, :position, :dimension_code, :dimension_name, :item_code, :item_text, :level)`, rows); err != nil {
			return fmt.Errorf("insert responses: %w", err)
		}
	}
	if len(scores) > 0 {
		rows := make([]scoreRow, len(scores))
		for i, sc := range scores {
			rows[i] = scoreRow{RecordID: recordID, Position: i, DimensionScore: sc}
		}
		if _, err := tx.NamedExecContext(ctx, `INSERT INTO dimension_scores
			(record_id, position, dimension_code, dimension_name, theme, mean)
			VALUES (:record_id, :position, :dimension_code, :dimension_name, :theme, :mean)`, rows); err != nil {
			return fmt.Errorf("insert dimension scores: %w", err)
		}
	}
	return nil
}

func expectOne(res sql.Result, id int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("record %d: %w", id, ErrNotFound)
	}
	return nil
}
