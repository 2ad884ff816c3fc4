package model

import (
	"context"
	"time"
)

// UserRole represents an account's access level.
type UserRole string

const (
	// UserRoleEvaluator fills in and edits assessments.
	UserRoleEvaluator UserRole = "evaluator"
	// UserRoleCoordinator can additionally see consolidated class reports.
	UserRoleCoordinator UserRole = "coordinator"
	// UserRoleAdmin manages accounts.
	UserRoleAdmin UserRole = "admin"
)

// User represents an evaluator or staff account.
type User struct {
	ID           int64     `db:"id"`
	Username     string    `db:"username"`
	DisplayName  string    `db:"display_name"`
	PasswordHash string    `db:"password_hash"`
	Role         UserRole  `db:"role"`
	Active       bool      `db:"active"`
	CreatedAt    time.Time `db:"created_at"`
}

// AuthSession represents a login session.
type AuthSession struct {
	ID        string    `db:"id"`
	UserID    int64     `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
	ExpiresAt time.Time `db:"expires_at"`
}

type userCtxKey struct{}

// ContextWithUser stores a user in the request context.
func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, userCtxKey{}, u)
}

// UserFromContext retrieves the authenticated user from context, or nil.
func UserFromContext(ctx context.Context) *User {
	u, _ := ctx.Value(userCtxKey{}).(*User)
	return u
}

type basePathCtxKey struct{}

// ContextWithBasePath stores the base path prefix in context.
func ContextWithBasePath(ctx context.Context, basePath string) context.Context {
	return context.WithValue(ctx, basePathCtxKey{}, basePath)
}

// BasePathFromContext retrieves the base path from context (empty string if not set).
func BasePathFromContext(ctx context.Context) string {
	bp, _ := ctx.Value(basePathCtxKey{}).(string)
	return bp
}

type csrfCtxKey struct{}

// ContextWithCSRFToken stores the CSRF token in context.
func ContextWithCSRFToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, csrfCtxKey{}, token)
}

// CSRFTokenFromContext retrieves the CSRF token from context.
func CSRFTokenFromContext(ctx context.Context) string {
	t, _ := ctx.Value(csrfCtxKey{}).(string)
	return t
}

// Level is one discrete value of a rating scale.
type Level int

// LevelDef labels one level of a scale.
type LevelDef struct {
	Value    Level  `json:"value"`
	Label    string `json:"label"`
	LabelAlt string `json:"label_alt,omitempty"`
}

// RatingScale is the fixed set of response levels of an instrument.
// NotApplicable, when set, is excluded from every average.
type RatingScale struct {
	Defs          []LevelDef `json:"levels"`
	NotApplicable *Level     `json:"not_applicable,omitempty"`
}

// Levels returns the scale values in declared order.
func (s RatingScale) Levels() []Level {
	out := make([]Level, 0, len(s.Defs))
	for _, d := range s.Defs {
		out = append(out, d.Value)
	}
	return out
}

// Valid reports whether l is one of the scale's levels.
func (s RatingScale) Valid(l Level) bool {
	for _, d := range s.Defs {
		if d.Value == l {
			return true
		}
	}
	return false
}

// Label returns the display label for l, or "" when l is not on the scale.
func (s RatingScale) Label(l Level) string {
	for _, d := range s.Defs {
		if d.Value == l {
			return d.Label
		}
	}
	return ""
}

// IsNotApplicable reports whether l is the scale's N/A sentinel.
func (s RatingScale) IsNotApplicable(l Level) bool {
	return s.NotApplicable != nil && *s.NotApplicable == l
}

// Min returns the smallest eligible (non-N/A) level.
func (s RatingScale) Min() Level {
	first := true
	var m Level
	for _, d := range s.Defs {
		if s.IsNotApplicable(d.Value) {
			continue
		}
		if first || d.Value < m {
			m = d.Value
			first = false
		}
	}
	return m
}

// Max returns the largest eligible level.
func (s RatingScale) Max() Level {
	var m Level
	for _, d := range s.Defs {
		if !s.IsNotApplicable(d.Value) && d.Value > m {
			m = d.Value
		}
	}
	return m
}

// Theme tags a dimension for narrative selection. It is stable across
// display-name wording and languages.
type Theme string

const (
	ThemeSocial    Theme = "social"
	ThemeSelfCare  Theme = "self_care"
	ThemeCognitive Theme = "cognitive"
	ThemeMotor     Theme = "motor"
	ThemeLanguage  Theme = "language"
	ThemeMath      Theme = "math"
	ThemeGeneric   Theme = ""
)

// Item is one observable behaviour rated on the scale.
type Item struct {
	Code    string `json:"code"`
	Text    string `json:"text"`
	TextAlt string `json:"text_alt,omitempty"`
}

// Dimension groups related items.
type Dimension struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	NameAlt string `json:"name_alt,omitempty"`
	Theme   Theme  `json:"theme"`
	Items   []Item `json:"items"`
}

// Bands holds the narrative cut points. A mean >= High is "high", >= Mid is
// "mid", anything else "low". Class plans use the single Class cut.
type Bands struct {
	High  float64 `json:"high"`
	Mid   float64 `json:"mid"`
	Class float64 `json:"class"`
}

// Instrument is the rating form used for one school stage.
type Instrument struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	AgeRange   string      `json:"age_range,omitempty"`
	Scale      RatingScale `json:"scale"`
	Bands      Bands       `json:"bands"`
	Dimensions []Dimension `json:"dimensions"`
}

// ItemCount returns the number of items across all dimensions.
func (in *Instrument) ItemCount() int {
	n := 0
	for _, d := range in.Dimensions {
		n += len(d.Items)
	}
	return n
}

// Dimension returns the dimension with the given code.
func (in *Instrument) Dimension(code string) (Dimension, bool) {
	for _, d := range in.Dimensions {
		if d.Code == code {
			return d, true
		}
	}
	return Dimension{}, false
}

// Item returns the item with the given code and the dimension owning it.
func (in *Instrument) Item(code string) (Dimension, Item, bool) {
	for _, d := range in.Dimensions {
		for _, it := range d.Items {
			if it.Code == code {
				return d, it, true
			}
		}
	}
	return Dimension{}, Item{}, false
}

// Response is one rater judgment for one item.
type Response struct {
	DimensionCode string `json:"dimension_code" db:"dimension_code"`
	DimensionName string `json:"dimension_name" db:"dimension_name"`
	ItemCode      string `json:"item_code" db:"item_code"`
	ItemText      string `json:"item_text" db:"item_text"`
	Level         Level  `json:"level" db:"level"`
}

// DimensionScore is the mean eligible level of one dimension.
type DimensionScore struct {
	DimensionCode string  `json:"dimension_code" db:"dimension_code"`
	DimensionName string  `json:"dimension_name" db:"dimension_name"`
	Theme         Theme   `json:"theme" db:"theme"`
	Mean          float64 `json:"mean" db:"mean"`
}

// Subject holds the attributes of the assessed student.
type Subject struct {
	Name      string `json:"name" db:"student_name"`
	Age       string `json:"age" db:"age"`
	Sex       string `json:"sex" db:"sex"`
	Class     string `json:"class" db:"class"`
	Evaluator string `json:"evaluator" db:"evaluator"`
	Period    string `json:"period" db:"period"`
	School    string `json:"school" db:"school"`
}

// AssessmentRecord is the persisted unit of one assessment.
type AssessmentRecord struct {
	ID    int64  `json:"id" db:"id"`
	Ref   string `json:"ref" db:"ref"`
	Stage string `json:"stage" db:"stage"`
	Subject
	Overall     *float64 `json:"overall,omitempty" db:"overall"`
	Report      string   `json:"report" db:"report_text"`
	Suggestions string   `json:"suggestions" db:"suggestions_text"`

	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`

	Responses []Response       `json:"responses,omitempty" db:"-"`
	Scores    []DimensionScore `json:"scores,omitempty" db:"-"`
}

// RecordFilter selects records. Empty fields do not filter.
type RecordFilter struct {
	Student   string
	Evaluator string
	Class     string
	School    string
	Period    string
	Stage     string
}

// IndividualPlan holds structured notes about one student.
type IndividualPlan struct {
	ID             int64     `json:"id" db:"id"`
	Student        string    `json:"student" db:"student_name"`
	Class          string    `json:"class" db:"class"`
	Profile        string    `json:"profile" db:"profile"`
	Strengths      string    `json:"strengths" db:"strengths"`
	Developing     string    `json:"developing" db:"developing"`
	Supports       string    `json:"supports" db:"supports"`
	Accommodations string    `json:"accommodations" db:"accommodations"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Empty reports whether the plan carries no notes.
func (p IndividualPlan) Empty() bool {
	return p.Profile == "" && p.Strengths == "" && p.Developing == "" &&
		p.Supports == "" && p.Accommodations == ""
}

// AppConfig holds runtime parameters set via CLI flags.
type AppConfig struct {
	School        string // printed in report headers
	LogoPath      string // optional PNG/JPEG placed on printable reports
	ExportDir     string // where saved reports are also written; empty disables
	Lang          string
	BasePath      string // URL prefix for sub-path deployments (e.g. "/ru")
	SecureCookies bool
}

// SchoolSettings are values editable at runtime and kept in the settings
// table. Empty fields fall back to AppConfig.
type SchoolSettings struct {
	School string `json:"school"`
	Period string `json:"period"`
}
