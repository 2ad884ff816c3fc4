// Package instrument holds the rating forms used per school stage.
package instrument

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"sort"

	"github.com/pavelanni/devreport/internal/model"
)

//go:embed instruments/*.json
var builtinFS embed.FS

var (
	// ErrUnknownStage is returned when no instrument is registered for a stage.
	ErrUnknownStage = errors.New("unknown stage")
	// ErrUnknownItem is returned for a response to an item outside the instrument.
	ErrUnknownItem = errors.New("item does not belong to instrument")
	// ErrInvalidLevel is returned for a response level outside the scale.
	ErrInvalidLevel = errors.New("level outside rating scale")
)

// Registry maps stage keys to instruments.
type Registry struct {
	byID  map[string]*model.Instrument
	order []string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{byID: make(map[string]*model.Instrument)}
}

// Load returns a registry with the built-in instruments plus any extra JSON
// files. An extra file replaces a built-in instrument with the same id.
func Load(paths ...string) (*Registry, error) {
	r := NewRegistry()
	entries, err := fs.ReadDir(builtinFS, "instruments")
	if err != nil {
		return nil, fmt.Errorf("read builtin instruments: %w", err)
	}
	for _, e := range entries {
		data, err := fs.ReadFile(builtinFS, path.Join("instruments", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", e.Name(), err)
		}
		if err := r.addJSON(data); err != nil {
			return nil, fmt.Errorf("builtin %s: %w", e.Name(), err)
		}
	}
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		if err := r.addJSON(data); err != nil {
			return nil, fmt.Errorf("%s: %w", p, err)
		}
		slog.Info("loaded instrument file", "path", p)
	}
	return r, nil
}

func (r *Registry) addJSON(data []byte) error {
	var in model.Instrument
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("parse instrument: %w", err)
	}
	return r.Add(in)
}

// Add validates and registers an instrument.
func (r *Registry) Add(in model.Instrument) error {
	if err := Validate(in); err != nil {
		return err
	}
	if _, exists := r.byID[in.ID]; !exists {
		r.order = append(r.order, in.ID)
	}
	r.byID[in.ID] = &in
	return nil
}

// Lookup returns the instrument for a stage key.
func (r *Registry) Lookup(stage string) (*model.Instrument, error) {
	in, ok := r.byID[stage]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStage, stage)
	}
	return in, nil
}

// Stages returns the registered stage keys in registration order.
func (r *Registry) Stages() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Validate checks an instrument definition for internal consistency.
func Validate(in model.Instrument) error {
	if in.ID == "" {
		return errors.New("instrument id is required")
	}
	if len(in.Scale.Defs) < 2 {
		return fmt.Errorf("instrument %s: scale needs at least two levels", in.ID)
	}
	seenLevel := make(map[model.Level]bool)
	for _, d := range in.Scale.Defs {
		if seenLevel[d.Value] {
			return fmt.Errorf("instrument %s: duplicate level %d", in.ID, d.Value)
		}
		seenLevel[d.Value] = true
	}
	if na := in.Scale.NotApplicable; na != nil && !seenLevel[*na] {
		return fmt.Errorf("instrument %s: not-applicable level %d is not on the scale", in.ID, *na)
	}
	if err := validateBands(in); err != nil {
		return err
	}
	if len(in.Dimensions) == 0 {
		return fmt.Errorf("instrument %s: no dimensions", in.ID)
	}
	seenDim := make(map[string]bool)
	seenItem := make(map[string]bool)
	for _, d := range in.Dimensions {
		if d.Code == "" || seenDim[d.Code] {
			return fmt.Errorf("instrument %s: missing or duplicate dimension code %q", in.ID, d.Code)
		}
		seenDim[d.Code] = true
		if len(d.Items) == 0 {
			return fmt.Errorf("instrument %s: dimension %s has no items", in.ID, d.Code)
		}
		for _, it := range d.Items {
			if it.Code == "" || seenItem[it.Code] {
				return fmt.Errorf("instrument %s: missing or duplicate item code %q", in.ID, it.Code)
			}
			seenItem[it.Code] = true
		}
	}
	return nil
}

// validateBands requires every cut point to be set and to fall on the
// eligible range of the scale. Zero means the file left bands out.
func validateBands(in model.Instrument) error {
	b := in.Bands
	lo, hi := float64(in.Scale.Min()), float64(in.Scale.Max())
	for _, c := range []struct {
		name string
		v    float64
	}{{"high", b.High}, {"mid", b.Mid}, {"class", b.Class}} {
		if c.v <= 0 {
			return fmt.Errorf("instrument %s: %s band cut is required", in.ID, c.name)
		}
		if c.v < lo || c.v > hi {
			return fmt.Errorf("instrument %s: %s band cut %.2f outside scale range %.0f-%.0f", in.ID, c.name, c.v, lo, hi)
		}
	}
	if b.Mid > b.High {
		return fmt.Errorf("instrument %s: mid cut %.2f above high cut %.2f", in.ID, b.Mid, b.High)
	}
	return nil
}

// Missing returns, in instrument order, the item codes with no level.
func Missing(in *model.Instrument, levels map[string]model.Level) []string {
	var out []string
	for _, d := range in.Dimensions {
		for _, it := range d.Items {
			if _, ok := levels[it.Code]; !ok {
				out = append(out, it.Code)
			}
		}
	}
	return out
}

// Responses turns a level per item code into responses in instrument order.
// Every code must belong to the instrument and every level must be on its
// scale. Completeness is not checked here.
func Responses(in *model.Instrument, levels map[string]model.Level) ([]model.Response, error) {
	codes := make([]string, 0, len(levels))
	for code := range levels {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if _, _, ok := in.Item(code); !ok {
			return nil, fmt.Errorf("%w: %s (%s)", ErrUnknownItem, code, in.ID)
		}
		if l := levels[code]; !in.Scale.Valid(l) {
			return nil, fmt.Errorf("%w: %s=%d", ErrInvalidLevel, code, l)
		}
	}

	out := make([]model.Response, 0, len(levels))
	for _, d := range in.Dimensions {
		for _, it := range d.Items {
			l, ok := levels[it.Code]
			if !ok {
				continue
			}
			out = append(out, model.Response{
				DimensionCode: d.Code,
				DimensionName: d.Name,
				ItemCode:      it.Code,
				ItemText:      it.Text,
				Level:         l,
			})
		}
	}
	return out, nil
}

// Annotate sets the narrative theme on scores from the instrument's
// dimensions. Scores for unknown dimensions keep the generic theme.
func Annotate(in *model.Instrument, scores []model.DimensionScore) {
	for i := range scores {
		if d, ok := in.Dimension(scores[i].DimensionCode); ok {
			scores[i].Theme = d.Theme
		}
	}
}

// Localize returns a copy of scores with each dimension name replaced by
// its alternate-language name where the instrument has one.
func Localize(in *model.Instrument, scores []model.DimensionScore) []model.DimensionScore {
	out := make([]model.DimensionScore, len(scores))
	copy(out, scores)
	for i := range out {
		if d, ok := in.Dimension(out[i].DimensionCode); ok && d.NameAlt != "" {
			out[i].DimensionName = d.NameAlt
		}
	}
	return out
}
