package instrument

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pavelanni/devreport/internal/model"
)

func TestLoadBuiltin(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"early-years", "primary"}, r.Stages())

	early, err := r.Lookup("early-years")
	require.NoError(t, err)
	assert.Equal(t, 33, early.ItemCount())
	assert.True(t, early.Scale.IsNotApplicable(0))
	assert.Equal(t, model.Level(1), early.Scale.Min())
	assert.Equal(t, model.Level(3), early.Scale.Max())
	assert.Equal(t, 2.6, early.Bands.High)
	assert.Equal(t, 1.8, early.Bands.Mid)

	primary, err := r.Lookup("primary")
	require.NoError(t, err)
	assert.Nil(t, primary.Scale.NotApplicable)
	assert.Equal(t, []model.Level{1, 2, 3, 4, 5}, primary.Scale.Levels())
}

func TestLookupUnknown(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)
	_, err = r.Lookup("kindergarten")
	assert.ErrorIs(t, err, ErrUnknownStage)
}

func TestLoadExtraFileOverrides(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "custom.json")
	body := `{
	  "id": "early-years",
	  "name": "Custom",
	  "scale": {"levels": [{"value": 1, "label": "no"}, {"value": 2, "label": "yes"}]},
	  "bands": {"high": 1.8, "mid": 1.4, "class": 1.5},
	  "dimensions": [{"code": "X", "name": "Only", "items": [{"code": "X1", "text": "one"}]}]
	}`
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	r, err := Load(p)
	require.NoError(t, err)
	in, err := r.Lookup("early-years")
	require.NoError(t, err)
	assert.Equal(t, "Custom", in.Name)
	assert.Len(t, r.Stages(), 2)
}

func TestLoadRejectsFileWithoutBands(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "nobands.json")
	body := `{
	  "id": "custom",
	  "name": "Custom",
	  "scale": {"levels": [{"value": 1, "label": "no"}, {"value": 2, "label": "yes"}]},
	  "dimensions": [{"code": "X", "name": "Only", "items": [{"code": "X1", "text": "one"}]}]
	}`
	require.NoError(t, os.WriteFile(p, []byte(body), 0o644))

	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "band cut is required")

	r := NewRegistry()
	assert.Error(t, r.addJSON([]byte(body)))
	assert.Empty(t, r.Stages())
}

func TestValidate(t *testing.T) {
	na := model.Level(9)
	base := func() model.Instrument {
		return model.Instrument{
			ID: "x",
			Scale: model.RatingScale{Defs: []model.LevelDef{
				{Value: 1, Label: "a"}, {Value: 2, Label: "b"},
			}},
			Bands: model.Bands{High: 1.8, Mid: 1.4, Class: 1.5},
			Dimensions: []model.Dimension{
				{Code: "D", Name: "Dim", Items: []model.Item{{Code: "D1"}, {Code: "D2"}}},
			},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*model.Instrument)
		wantErr bool
	}{
		{"valid", func(*model.Instrument) {}, false},
		{"no id", func(in *model.Instrument) { in.ID = "" }, true},
		{"n/a not on scale", func(in *model.Instrument) { in.Scale.NotApplicable = &na }, true},
		{"bands inverted", func(in *model.Instrument) { in.Bands.Mid = 1.9 }, true},
		{"bands missing", func(in *model.Instrument) { in.Bands = model.Bands{} }, true},
		{"class cut missing", func(in *model.Instrument) { in.Bands.Class = 0 }, true},
		{"high cut above scale", func(in *model.Instrument) { in.Bands.High = 2.5 }, true},
		{"mid cut below scale", func(in *model.Instrument) { in.Bands.Mid = 0.5 }, true},
		{"cuts on scale bounds", func(in *model.Instrument) { in.Bands = model.Bands{High: 2, Mid: 1, Class: 2} }, false},
		{"duplicate item", func(in *model.Instrument) { in.Dimensions[0].Items[1].Code = "D1" }, true},
		{"empty dimension", func(in *model.Instrument) { in.Dimensions[0].Items = nil }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base()
			tt.mutate(&in)
			err := Validate(in)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestResponses(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)
	in, _ := r.Lookup("early-years")

	t.Run("ordered by instrument", func(t *testing.T) {
		got, err := Responses(in, map[string]model.Level{"D1": 2, "A1": 3, "B2": 0})
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, "A1", got[0].ItemCode)
		assert.Equal(t, "Social skills", got[0].DimensionName)
		assert.Equal(t, "B2", got[1].ItemCode)
		assert.Equal(t, model.Level(0), got[1].Level)
		assert.Equal(t, "D1", got[2].ItemCode)
	})

	t.Run("item from another instrument", func(t *testing.T) {
		_, err := Responses(in, map[string]model.Level{"MATH1": 2})
		assert.ErrorIs(t, err, ErrUnknownItem)
	})

	t.Run("level off scale", func(t *testing.T) {
		_, err := Responses(in, map[string]model.Level{"A1": 4})
		assert.ErrorIs(t, err, ErrInvalidLevel)
	})
}

func TestMissingAndAnnotate(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)
	in, _ := r.Lookup("primary")

	missing := Missing(in, map[string]model.Level{"LANG1": 3})
	assert.Len(t, missing, in.ItemCount()-1)
	assert.Equal(t, "LANG2", missing[0])

	scores := []model.DimensionScore{{DimensionCode: "SEL"}, {DimensionCode: "ZZZ"}}
	Annotate(in, scores)
	assert.Equal(t, model.ThemeSocial, scores[0].Theme)
	assert.Equal(t, model.ThemeGeneric, scores[1].Theme)
}
