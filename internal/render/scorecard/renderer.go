// Package scorecard renders city scorecards to PDF from the template sheets
// of the configuration workbook.
package scorecard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/carlhiggs/global-scorecards/internal/domain"
	"github.com/carlhiggs/global-scorecards/internal/workbook"
)

// pointsToMM converts a font size in points to millimetres.
const pointsToMM = 0.3528

// TemplateSource provides template sheet rows.
type TemplateSource interface {
	Rows(sheet string) ([]workbook.Row, error)
}

// FontSource provides the currently registered font.
type FontSource interface {
	Current() (domain.Font, []byte, bool)
}

// Renderer writes one PDF per city and template.
type Renderer struct {
	templates    TemplateSource
	fonts        FontSource
	outputDir    string
	resourcesDir string
	logger       *slog.Logger
}

// NewRenderer creates a Renderer writing under outputDir. Image elements
// may refer to the city's resource directory with "{resources}".
func NewRenderer(templates TemplateSource, fonts FontSource, outputDir, resourcesDir string, logger *slog.Logger) *Renderer {
	return &Renderer{
		templates:    templates,
		fonts:        fonts,
		outputDir:    outputDir,
		resourcesDir: resourcesDir,
		logger:       logger,
	}
}

// OutputPath returns where the scorecard for a city and request is written.
func (r *Renderer) OutputPath(cc domain.CityContext, req domain.RenderRequest) string {
	dir := r.outputDir
	if req.ByLanguage {
		dir = filepath.Join(dir, cc.Language)
	}
	if req.ByCity {
		dir = filepath.Join(dir, cc.City)
	}
	name := strings.TrimPrefix(req.Template, "template_")
	return filepath.Join(dir, fmt.Sprintf("scorecard_%s_%s.pdf", cc.City, name))
}

// RenderScorecard lays out the template's elements with the city's values
// and writes the PDF. It returns the output path.
func (r *Renderer) RenderScorecard(ctx context.Context, cc domain.CityContext, req domain.RenderRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f, data, ok := r.fonts.Current()
	if !ok {
		return "", errors.New("no font registered")
	}

	elements, err := LoadTemplate(r.templates, req.Template)
	if err != nil {
		return "", err
	}

	values := contextValues(cc, r.resourcesDir)
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddUTF8FontFromBytes(f.Family, "", data)

	page := 0
	for _, e := range elements {
		for page < e.Page {
			pdf.AddPage()
			page++
		}
		if err := drawElement(pdf, f.Family, e, values); err != nil {
			return "", err
		}
		if pdf.Err() {
			return "", fmt.Errorf("element %q: %w", e.Name, pdf.Error())
		}
	}
	if page == 0 {
		pdf.AddPage()
	}

	path := r.OutputPath(cc, req)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}

	r.logger.Debug("scorecard rendered", "city", cc.City, "language", cc.Language, "template", req.Template, "path", path)
	return path, nil
}

func drawElement(pdf *fpdf.Fpdf, family string, e Element, values map[string]string) error {
	content := substitute(e.Content, values)
	switch e.Type {
	case ElementImage:
		if _, err := os.Stat(content); err != nil {
			return fmt.Errorf("element %q: image: %w", e.Name, err)
		}
		pdf.ImageOptions(content, e.X, e.Y, e.W, e.H, false, fpdf.ImageOptions{ReadDpi: true}, 0, "")
	default:
		pdf.SetFont(family, "", e.Size)
		pdf.SetXY(e.X, e.Y)
		pdf.MultiCell(e.W, e.Size*pointsToMM*1.2, content, "", "L", false)
	}
	return nil
}
