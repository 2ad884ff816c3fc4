package store

import (
	"context"
	"errors"
	"regexp"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/devreport/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func fptr(v float64) *float64 { return &v }

func testRecord(name, class, evaluator string) *model.AssessmentRecord {
	return &model.AssessmentRecord{
		Stage: "early-years",
		Subject: model.Subject{
			Name:      name,
			Age:       "5 years",
			Class:     class,
			Evaluator: evaluator,
			Period:    "2026-1",
			School:    "Maple Bear",
		},
		Overall:     fptr(2.5),
		Report:      "Individual report of " + name,
		Suggestions: "Suggestions",
		Responses: []model.Response{
			{DimensionCode: "A", DimensionName: "Social skills", ItemCode: "A1", ItemText: "Shares toys", Level: 3},
			{DimensionCode: "A", DimensionName: "Social skills", ItemCode: "A2", ItemText: "Waits for turn", Level: 2},
			{DimensionCode: "D", DimensionName: "Motor skills", ItemCode: "D1", ItemText: "Cuts paper", Level: 0},
		},
		Scores: []model.DimensionScore{
			{DimensionCode: "A", DimensionName: "Social skills", Theme: model.ThemeSocial, Mean: 2.5},
		},
	}
}

func countRows(t *testing.T, s *Store, table string, recordID int64) int {
	t.Helper()
	var n int
	if err := s.db.Get(&n, `SELECT COUNT(*) FROM `+table+` WHERE record_id = ?`, recordID); err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

func TestRecordLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	rec := testRecord("Ana Souza", "K2", "Teacher Bia")
	id, err := s.CreateRecord(ctx, rec)
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}
	if rec.ID != id || rec.Ref == "" {
		t.Fatalf("CreateRecord did not fill id/ref: %+v", rec)
	}

	got, err := s.GetRecord(ctx, id)
	if err != nil {
		t.Fatalf("GetRecord: %v", err)
	}
	if got.Name != "Ana Souza" || got.Class != "K2" || got.Stage != "early-years" {
		t.Errorf("unexpected attributes: %+v", got.Subject)
	}
	if got.Overall == nil || *got.Overall != 2.5 {
		t.Errorf("overall = %v, want 2.5", got.Overall)
	}
	if len(got.Responses) != 3 || got.Responses[2].ItemCode != "D1" || got.Responses[2].Level != 0 {
		t.Errorf("responses not stored in order: %+v", got.Responses)
	}
	if len(got.Scores) != 1 || got.Scores[0].Theme != model.ThemeSocial {
		t.Errorf("scores = %+v", got.Scores)
	}

	// Replace responses: one dimension fewer, new overall.
	got.Responses = []model.Response{
		{DimensionCode: "B", DimensionName: "Self-care", ItemCode: "B1", Level: 1},
	}
	got.Scores = []model.DimensionScore{{DimensionCode: "B", DimensionName: "Self-care", Theme: model.ThemeSelfCare, Mean: 1}}
	got.Overall = fptr(1)
	got.Class = "K3"
	if err := s.UpdateRecord(ctx, got); err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	again, err := s.GetRecord(ctx, id)
	if err != nil {
		t.Fatalf("GetRecord after update: %v", err)
	}
	if again.Class != "K3" || len(again.Responses) != 1 || again.Responses[0].ItemCode != "B1" {
		t.Errorf("update not applied: %+v", again)
	}
	if len(again.Scores) != 1 || again.Scores[0].DimensionCode != "B" {
		t.Errorf("scores not replaced: %+v", again.Scores)
	}
	if again.Ref != rec.Ref {
		t.Errorf("ref changed on update: %q -> %q", rec.Ref, again.Ref)
	}

	if err := s.UpdateNarrative(ctx, id, "new report", "new suggestions"); err != nil {
		t.Fatalf("UpdateNarrative: %v", err)
	}
	again, _ = s.GetRecord(ctx, id)
	if again.Report != "new report" || again.Suggestions != "new suggestions" || len(again.Responses) != 1 {
		t.Errorf("narrative update wrong: %+v", again)
	}

	if err := s.DeleteRecord(ctx, id); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	if _, err := s.GetRecord(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetRecord after delete: got %v, want ErrNotFound", err)
	}
	if n := countRows(t, s, "responses", id); n != 0 {
		t.Errorf("responses left after delete: %d", n)
	}
	if n := countRows(t, s, "dimension_scores", id); n != 0 {
		t.Errorf("dimension scores left after delete: %d", n)
	}
}

func TestUpdateRecordWithoutResponsesKeepsThem(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	rec := testRecord("Caio", "K1", "Bia")
	id, err := s.CreateRecord(ctx, rec)
	if err != nil {
		t.Fatalf("CreateRecord: %v", err)
	}

	upd := *rec
	upd.Responses = nil
	upd.Scores = nil
	upd.Age = "6 years"
	if err := s.UpdateRecord(ctx, &upd); err != nil {
		t.Fatalf("UpdateRecord: %v", err)
	}
	if n := countRows(t, s, "responses", id); n != 3 {
		t.Errorf("responses = %d, want 3", n)
	}
	if n := countRows(t, s, "dimension_scores", id); n != 1 {
		t.Errorf("dimension scores = %d, want 1", n)
	}
}

func TestMissingRecord(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.UpdateNarrative(ctx, 42, "a", "b"); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateNarrative: got %v, want ErrNotFound", err)
	}
	if err := s.DeleteRecord(ctx, 42); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteRecord: got %v, want ErrNotFound", err)
	}
	rec := testRecord("X", "K1", "E")
	rec.ID = 42
	if err := s.UpdateRecord(ctx, rec); !errors.Is(err, ErrNotFound) {
		t.Errorf("UpdateRecord: got %v, want ErrNotFound", err)
	}
}

func TestListRecordsFilterAndDistinct(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, r := range []*model.AssessmentRecord{
		testRecord("Ana Souza", "K1", "Bia"),
		testRecord("Bruno Lima", "K1", "Carla"),
		testRecord("Anabela", "K2", "Bia"),
	} {
		if _, err := s.CreateRecord(ctx, r); err != nil {
			t.Fatalf("CreateRecord: %v", err)
		}
	}

	tests := []struct {
		name   string
		filter model.RecordFilter
		want   int
	}{
		{"all", model.RecordFilter{}, 3},
		{"by class", model.RecordFilter{Class: "K1"}, 2},
		{"by evaluator", model.RecordFilter{Evaluator: "Bia"}, 2},
		{"by student substring", model.RecordFilter{Student: "ana"}, 2},
		{"combined", model.RecordFilter{Class: "K1", Evaluator: "Bia"}, 1},
		{"no match", model.RecordFilter{Period: "1999"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			list, err := s.ListRecords(ctx, tt.filter)
			if err != nil {
				t.Fatalf("ListRecords: %v", err)
			}
			if len(list) != tt.want {
				t.Errorf("got %d records, want %d", len(list), tt.want)
			}
			for _, r := range list {
				if len(r.Scores) != 1 {
					t.Errorf("record %d: scores not loaded", r.ID)
				}
			}
			n, err := s.RecordCount(ctx, tt.filter)
			if err != nil || n != tt.want {
				t.Errorf("RecordCount = %d, %v", n, err)
			}
		})
	}

	classes, err := s.Distinct(ctx, FieldClass)
	if err != nil {
		t.Fatalf("Distinct: %v", err)
	}
	if len(classes) != 2 || classes[0] != "K1" || classes[1] != "K2" {
		t.Errorf("Distinct(class) = %v", classes)
	}
	if _, err := s.Distinct(ctx, Field("password_hash")); err == nil {
		t.Error("Distinct should reject unknown fields")
	}
}

func TestExportRecords(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	first := testRecord("First", "K1", "Bia")
	second := testRecord("Second", "K1", "Bia")
	if _, err := s.CreateRecord(ctx, first); err != nil {
		t.Fatal(err)
	}
	if _, err := s.CreateRecord(ctx, second); err != nil {
		t.Fatal(err)
	}

	out, err := s.ExportRecords(ctx, model.RecordFilter{})
	if err != nil {
		t.Fatalf("ExportRecords: %v", err)
	}
	if len(out) != 2 || out[0].Name != "First" {
		t.Fatalf("export order wrong: %+v", out)
	}
	if len(out[1].Responses) != 3 {
		t.Errorf("responses not loaded: %d", len(out[1].Responses))
	}
}

func TestPlans(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.GetPlan(ctx, "Ana", "K1")
	if err != nil || p != nil {
		t.Fatalf("GetPlan on empty store = %v, %v", p, err)
	}

	id, err := s.SavePlan(ctx, &model.IndividualPlan{Student: "Ana", Class: "K1", Strengths: "drawing"})
	if err != nil {
		t.Fatalf("SavePlan: %v", err)
	}
	id2, err := s.SavePlan(ctx, &model.IndividualPlan{Student: "Ana", Class: "K1", Strengths: "music"})
	if err != nil {
		t.Fatalf("SavePlan upsert: %v", err)
	}
	if id != id2 {
		t.Errorf("upsert created a second plan: %d vs %d", id, id2)
	}
	p, err = s.GetPlan(ctx, "Ana", "K1")
	if err != nil || p == nil || p.Strengths != "music" {
		t.Fatalf("GetPlan = %+v, %v", p, err)
	}

	if _, err := s.SavePlan(ctx, &model.IndividualPlan{Student: "Ana", Class: "K2"}); err != nil {
		t.Fatal(err)
	}
	all, _ := s.ListPlans(ctx, "")
	k1, _ := s.ListPlans(ctx, "K1")
	if len(all) != 2 || len(k1) != 1 {
		t.Errorf("ListPlans: all=%d k1=%d", len(all), len(k1))
	}

	if err := s.DeletePlan(ctx, id); err != nil {
		t.Fatalf("DeletePlan: %v", err)
	}
	if _, err := s.GetPlanByID(ctx, id); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetPlanByID after delete: %v", err)
	}
}

func TestUsersAndSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.CreateUser(ctx, model.User{Username: "bia", DisplayName: "Bia", PasswordHash: "x", Role: model.UserRoleEvaluator, Active: true})
	if err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if _, err := s.CreateUser(ctx, model.User{Username: "bia", PasswordHash: "y", Role: model.UserRoleAdmin}); err == nil {
		t.Error("duplicate username should fail")
	}

	u, err := s.GetUserByUsername(ctx, "bia")
	if err != nil || u == nil || u.ID != id || !u.Active {
		t.Fatalf("GetUserByUsername = %+v, %v", u, err)
	}
	if missing, err := s.GetUserByUsername(ctx, "nobody"); err != nil || missing != nil {
		t.Errorf("missing user = %+v, %v", missing, err)
	}

	if err := s.ToggleUserActive(ctx, id); err != nil {
		t.Fatal(err)
	}
	u, _ = s.GetUserByID(ctx, id)
	if u.Active {
		t.Error("user should be inactive after toggle")
	}

	token, err := s.CreateAuthSession(ctx, id)
	if err != nil {
		t.Fatalf("CreateAuthSession: %v", err)
	}
	sess, err := s.GetAuthSession(ctx, token)
	if err != nil || sess == nil || sess.UserID != id {
		t.Fatalf("GetAuthSession = %+v, %v", sess, err)
	}

	if err := s.UpdatePassword(ctx, id, "new-hash"); err != nil {
		t.Fatal(err)
	}
	if sess, _ := s.GetAuthSession(ctx, token); sess != nil {
		t.Error("password change should end sessions")
	}
	if n, _ := s.UserCount(ctx); n != 1 {
		t.Errorf("UserCount = %d", n)
	}
}

func TestSchoolSettings(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ss, err := s.GetSchoolSettings(ctx)
	if err != nil || ss.School != "" {
		t.Fatalf("empty settings = %+v, %v", ss, err)
	}
	if err := s.SetSchoolSettings(ctx, model.SchoolSettings{School: "Maple", Period: "2026-2"}); err != nil {
		t.Fatal(err)
	}
	if err := s.SetSetting(ctx, "school", "Maple Bear"); err != nil {
		t.Fatal(err)
	}
	ss, _ = s.GetSchoolSettings(ctx)
	if ss.School != "Maple Bear" || ss.Period != "2026-2" {
		t.Errorf("settings = %+v", ss)
	}
}

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewWithDB(sqlx.NewDb(db, "sqlmock")), mock
}

func TestUpdateRecordRollsBackWhenReinsertFails(t *testing.T) {
	s, mock := newMockStore(t)
	rec := testRecord("Ana", "K1", "Bia")
	rec.ID = 7

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE records SET")).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM responses")).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM dimension_scores")).WithArgs(int64(7)).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO responses")).WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.UpdateRecord(context.Background(), rec)
	require.Error(t, err)
	require.Contains(t, err.Error(), "insert responses")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateRecordCommits(t *testing.T) {
	s, mock := newMockStore(t)
	rec := testRecord("Ana", "K1", "Bia")

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO records")).WillReturnResult(sqlmock.NewResult(11, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO responses")).WillReturnResult(sqlmock.NewResult(3, 3))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO dimension_scores")).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := s.CreateRecord(context.Background(), rec)
	require.NoError(t, err)
	require.Equal(t, int64(11), id)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRecordNotFoundRollsBack(t *testing.T) {
	s, mock := newMockStore(t)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM responses")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM dimension_scores")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM records")).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := s.DeleteRecord(context.Background(), 99)
	require.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}
