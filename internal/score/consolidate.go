package score

import "github.com/pavelanni/devreport/internal/model"

// ByDimension averages stored dimension means across records, grouping by
// dimension code and name in first-appearance order. Dimensions absent from
// a record do not count towards that dimension's mean.
func ByDimension(records []model.AssessmentRecord) []model.DimensionScore {
	type acc struct {
		theme model.Theme
		sum   float64
		n     int
	}
	var order []groupKey
	groups := make(map[groupKey]*acc)
	for _, rec := range records {
		for _, s := range rec.Scores {
			k := groupKey{code: s.DimensionCode, name: s.DimensionName}
			g, ok := groups[k]
			if !ok {
				g = &acc{theme: s.Theme}
				groups[k] = g
				order = append(order, k)
			}
			g.sum += s.Mean
			g.n++
		}
	}
	out := make([]model.DimensionScore, 0, len(order))
	for _, k := range order {
		g := groups[k]
		out = append(out, model.DimensionScore{
			DimensionCode: k.code,
			DimensionName: k.name,
			Theme:         g.theme,
			Mean:          g.sum / float64(g.n),
		})
	}
	return out
}

// GroupBy averages every stored dimension mean of the records sharing a key
// (class, evaluator...). Records without dimension scores still count in
// Count but contribute no value.
func GroupBy(records []model.AssessmentRecord, key func(model.AssessmentRecord) string) []model.GroupMean {
	type acc struct {
		sum     float64
		n       int
		records int
	}
	var order []string
	groups := make(map[string]*acc)
	for _, rec := range records {
		k := key(rec)
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
			order = append(order, k)
		}
		g.records++
		for _, s := range rec.Scores {
			g.sum += s.Mean
			g.n++
		}
	}
	out := make([]model.GroupMean, 0, len(order))
	for _, k := range order {
		g := groups[k]
		gm := model.GroupMean{Key: k, Label: k, Count: g.records}
		if g.n > 0 {
			m := g.sum / float64(g.n)
			gm.Mean = &m
		}
		out = append(out, gm)
	}
	return out
}

// OverallMean averages the stored overall scores, skipping absent ones.
func OverallMean(records []model.AssessmentRecord) *float64 {
	vals := make([]*float64, 0, len(records))
	for _, rec := range records {
		vals = append(vals, rec.Overall)
	}
	return Mean(vals)
}
