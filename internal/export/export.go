// Package export renders the best layout of a run to image and document
// formats.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/piwi3910/packga/internal/engine"
	"github.com/piwi3910/packga/internal/model"
)

// layoutOf decodes the best solution of a run. A run stopped before its
// first generation has no solution and renders as an empty container.
func layoutOf(scenario model.Scenario, stats model.Stats) (engine.Layout, error) {
	if stats.BestSolution != nil && !stats.BestSolution.IsValid(len(scenario.Items)) {
		return engine.Layout{}, fmt.Errorf("best solution does not match the %d scenario items", len(scenario.Items))
	}
	return engine.Place(scenario.Container, scenario.Items, stats.BestSolution), nil
}

// RendererFor picks a renderer by the extension of path.
func RendererFor(path string) (engine.Renderer, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".png":
		return &PNGRenderer{Path: path}, nil
	case ".pdf":
		return &PDFRenderer{Path: path}, nil
	case ".dxf":
		return &DXFRenderer{Path: path}, nil
	default:
		return nil, fmt.Errorf("unsupported output format %q (use .png, .pdf or .dxf)", ext)
	}
}
