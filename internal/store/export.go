package store

import (
	"context"
	"fmt"

	"github.com/pavelanni/devreport/internal/model"
)

// ExportRecords returns every record matching filter with responses and
// dimension scores loaded, oldest first.
func (s *Store) ExportRecords(ctx context.Context, filter model.RecordFilter) ([]model.AssessmentRecord, error) {
	records, err := s.ListRecords(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	if err := s.LoadResponses(ctx, records); err != nil {
		return nil, fmt.Errorf("load responses: %w", err)
	}
	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}
