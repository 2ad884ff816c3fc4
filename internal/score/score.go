// Package score aggregates item responses into dimension and overall means.
package score

import "github.com/pavelanni/devreport/internal/model"

// Result is the output of Aggregate.
//
// Dimensions only holds dimensions with at least one eligible response;
// a missing dimension means insufficient data, not a zero. Overall is nil
// when no response in the set is eligible.
type Result struct {
	Items      []model.Response
	Dimensions []model.DimensionScore
	Overall    *float64
}

type groupKey struct {
	code string
	name string
}

// Aggregate computes per-dimension means and the overall mean of a response
// set. Responses at the scale's not-applicable level are left out of every
// average but kept in Items. Overall is the mean of all eligible responses,
// so dimensions weigh by their item count.
func Aggregate(responses []model.Response, scale model.RatingScale) Result {
	type acc struct {
		sum float64
		n   int
	}
	var (
		order    []groupKey
		groups   = make(map[groupKey]*acc)
		total    float64
		eligible int
	)

	for _, r := range responses {
		k := groupKey{code: r.DimensionCode, name: r.DimensionName}
		g, ok := groups[k]
		if !ok {
			g = &acc{}
			groups[k] = g
			order = append(order, k)
		}
		if scale.IsNotApplicable(r.Level) {
			continue
		}
		g.sum += float64(r.Level)
		g.n++
		total += float64(r.Level)
		eligible++
	}

	res := Result{Items: responses}
	for _, k := range order {
		g := groups[k]
		if g.n == 0 {
			continue
		}
		res.Dimensions = append(res.Dimensions, model.DimensionScore{
			DimensionCode: k.code,
			DimensionName: k.name,
			Mean:          g.sum / float64(g.n),
		})
	}
	if eligible > 0 {
		m := total / float64(eligible)
		res.Overall = &m
	}
	return res
}

// Mean averages the non-nil values; nil when there are none.
func Mean(values []*float64) *float64 {
	var sum float64
	n := 0
	for _, v := range values {
		if v == nil {
			continue
		}
		sum += *v
		n++
	}
	if n == 0 {
		return nil
	}
	m := sum / float64(n)
	return &m
}
