package scorecard

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/carlhiggs/global-scorecards/internal/domain"
	"github.com/carlhiggs/global-scorecards/internal/workbook"
)

type stubTemplates map[string][]workbook.Row

func (s stubTemplates) Rows(sheet string) ([]workbook.Row, error) {
	rows, ok := s[sheet]
	if !ok {
		return nil, domain.ErrMissingSheet
	}
	return rows, nil
}

type stubFont struct {
	data []byte
}

func (s stubFont) Current() (domain.Font, []byte, bool) {
	return domain.Font{Name: "Go", Family: "Go"}, s.data, s.data != nil
}

func testContext() domain.CityContext {
	return domain.CityContext{
		City:           "Ghent",
		Language:       "Dutch",
		Info:           domain.CityInfo{Name: "Ghent", Country: "Belgium"},
		IndicatorNames: []string{"Food market"},
		Indicators:     map[string]float64{"Food market": 71.26},
		Comparisons: domain.ComparisonSet{
			P25: map[string]float64{"Food market": 40},
			P50: map[string]float64{"Food market": 55},
			P75: map[string]float64{"Food market": 80},
		},
		Thresholds: domain.ThresholdScenarios{
			Scenarios: []domain.ThresholdScenario{{Name: "WHO target", Threshold: 5700}},
		}.ForCity(48.12),
		Policy: domain.CityPolicy{
			Ratings: map[string]float64{"Presence": 0.8},
			Global:  map[string]domain.Summary{"Presence": {P50: 0.6}},
		},
		Phrases: domain.Phrases{"title": "Scorecard {city}", "city": "Gent"},
	}
}

func TestSubstitute(t *testing.T) {
	values := map[string]string{"city": "Gent", "year": "2020"}
	assert.Equal(t, "Gent, 2020", substitute("{city}, {year}", values))
	assert.Equal(t, "{unknown} Gent", substitute("{unknown} {city}", values))
	assert.Equal(t, "no placeholders", substitute("no placeholders", values))
}

func TestContextValues(t *testing.T) {
	v := contextValues(testContext(), "resources")

	assert.Equal(t, "Gent", v["city"], "phrases override computed values")
	assert.Equal(t, "Belgium", v["country"])
	assert.Equal(t, "48.1", v["walkability"])
	assert.Equal(t, "71.3", v["Food market"])
	assert.Equal(t, "55.0", v["Food market median"])
	assert.Equal(t, "5700", v["WHO target"])
	assert.Equal(t, "0.8", v["Presence rating"])
	assert.Equal(t, "0.6", v["Presence median rating"])
	assert.Equal(t, filepath.Join("resources", "Ghent"), v["resources"])
}

func TestFormatNumber_NaN(t *testing.T) {
	assert.Equal(t, "-", formatNumber(math.NaN(), 1))
}

func TestParseTemplate(t *testing.T) {
	rows := []workbook.Row{
		{"page": "2", "name": "footer", "type": "text", "x": "10", "y": "280", "content": "p2"},
		{"page": "1", "name": "title", "type": "text", "x": "10", "y": "10", "w": "190", "size": "18", "content": "{title}"},
		{"name": "chart", "type": "IMAGE", "x": "10", "y": "40", "w": "90", "h": "60", "content": "{resources}/access.png"},
	}
	elements, err := parseTemplate("template_web", rows)
	require.NoError(t, err)
	require.Len(t, elements, 3)

	assert.Equal(t, "title", elements[0].Name)
	assert.InDelta(t, 18.0, elements[0].Size, 1e-9)
	assert.Equal(t, "chart", elements[1].Name)
	assert.Equal(t, ElementImage, elements[1].Type)
	assert.Equal(t, 1, elements[1].Page)
	assert.InDelta(t, 10.0, elements[1].Size, 1e-9, "default font size")
	assert.Equal(t, 2, elements[2].Page)
}

func TestParseTemplate_Invalid(t *testing.T) {
	_, err := parseTemplate("template_web", []workbook.Row{{"name": "t", "x": "left"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "template_web row 2")

	_, err = parseTemplate("template_web", []workbook.Row{{"name": "t", "type": "video"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown type")
}

func TestOutputPath(t *testing.T) {
	r := NewRenderer(nil, nil, "out", "res", slog.Default())
	cc := testContext()

	cases := []struct {
		byCity, byLanguage bool
		want               string
	}{
		{true, true, filepath.Join("out", "Dutch", "Ghent", "scorecard_Ghent_web.pdf")},
		{false, true, filepath.Join("out", "Dutch", "scorecard_Ghent_web.pdf")},
		{true, false, filepath.Join("out", "Ghent", "scorecard_Ghent_web.pdf")},
		{false, false, filepath.Join("out", "scorecard_Ghent_web.pdf")},
	}
	for _, tc := range cases {
		req := domain.RenderRequest{Template: "template_web", ByCity: tc.byCity, ByLanguage: tc.byLanguage}
		assert.Equal(t, tc.want, r.OutputPath(cc, req))
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestRenderScorecard_WritesPDF(t *testing.T) {
	dir := t.TempDir()
	resources := filepath.Join(dir, "resources")
	writePNG(t, filepath.Join(resources, "Ghent", "access.png"))

	templates := stubTemplates{"template_web": {
		{"page": "1", "name": "title", "type": "text", "x": "10", "y": "10", "w": "190", "size": "18", "content": "{title}"},
		{"page": "1", "name": "food", "type": "text", "x": "10", "y": "30", "w": "190", "content": "Food market: {Food market}%"},
		{"page": "1", "name": "chart", "type": "image", "x": "10", "y": "50", "w": "90", "h": "60", "content": "{resources}/access.png"},
		{"page": "2", "name": "walk", "type": "text", "x": "10", "y": "10", "w": "190", "content": "Walkability {walkability}"},
	}}
	r := NewRenderer(templates, stubFont{data: goregular.TTF}, filepath.Join(dir, "out"), resources, slog.Default())

	path, err := r.RenderScorecard(context.Background(), testContext(), domain.RenderRequest{
		Template: "template_web", ByCity: true, ByLanguage: true,
	})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "out", "Dutch", "Ghent", "scorecard_Ghent_web.pdf"), path)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestRenderScorecard_Errors(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	req := domain.RenderRequest{Template: "template_web"}

	t.Run("no font", func(t *testing.T) {
		r := NewRenderer(stubTemplates{"template_web": nil}, stubFont{}, dir, dir, slog.Default())
		_, err := r.RenderScorecard(ctx, testContext(), req)
		assert.ErrorContains(t, err, "no font registered")
	})

	t.Run("missing sheet", func(t *testing.T) {
		r := NewRenderer(stubTemplates{}, stubFont{data: goregular.TTF}, dir, dir, slog.Default())
		_, err := r.RenderScorecard(ctx, testContext(), req)
		assert.ErrorIs(t, err, domain.ErrMissingSheet)
	})

	t.Run("missing image", func(t *testing.T) {
		templates := stubTemplates{"template_web": {
			{"name": "chart", "type": "image", "x": "10", "y": "50", "w": "90", "h": "60", "content": "{resources}/missing.png"},
		}}
		r := NewRenderer(templates, stubFont{data: goregular.TTF}, dir, dir, slog.Default())
		_, err := r.RenderScorecard(ctx, testContext(), req)
		assert.ErrorContains(t, err, `element "chart"`)
	})
}
