package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/pavelanni/devreport/internal/model"
)

const (
	settingSchool = "school"
	settingPeriod = "period"
)

// SetSetting upserts a key-value pair in the settings table.
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// GetSetting returns the value for a key.
// Returns empty string and nil error if the key is missing.
func (s *Store) GetSetting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, `SELECT value FROM settings WHERE key = ?`, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSchoolSettings stores all SchoolSettings fields.
func (s *Store) SetSchoolSettings(ctx context.Context, ss model.SchoolSettings) error {
	pairs := []struct{ k, v string }{
		{settingSchool, ss.School},
		{settingPeriod, ss.Period},
	}
	for _, p := range pairs {
		if err := s.SetSetting(ctx, p.k, p.v); err != nil {
			return err
		}
	}
	return nil
}

// GetSchoolSettings reads all SchoolSettings fields.
func (s *Store) GetSchoolSettings(ctx context.Context) (model.SchoolSettings, error) {
	var ss model.SchoolSettings
	var err error
	if ss.School, err = s.GetSetting(ctx, settingSchool); err != nil {
		return ss, err
	}
	if ss.Period, err = s.GetSetting(ctx, settingPeriod); err != nil {
		return ss, err
	}
	return ss, nil
}
