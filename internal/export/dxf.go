package export

import (
	"fmt"

	"github.com/yofu/dxf"
	"github.com/yofu/dxf/drawing"

	"github.com/piwi3910/packga/internal/model"
)

// DXF layer names.
const (
	LayerContainer = "CONTAINER"
	LayerItems     = "ITEMS"
)

// DXFRenderer writes the container outline and one closed rectangle per
// placed item as LINE entities. One grid cell is one drawing unit and the
// y axis points up, so row 0 is the top edge of the container.
type DXFRenderer struct {
	Path string
}

// Render writes the drawing to r.Path.
func (r *DXFRenderer) Render(scenario model.Scenario, stats model.Stats) error {
	layout, err := layoutOf(scenario, stats)
	if err != nil {
		return err
	}

	d := dxf.NewDrawing()
	c := scenario.Container
	top := float64(c.Height)

	if _, err := d.AddLayer(LayerContainer, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("add layer %s: %w", LayerContainer, err)
	}
	if err := rectangle(d, 0, 0, float64(c.Width), top); err != nil {
		return err
	}

	if _, err := d.AddLayer(LayerItems, dxf.DefaultColor, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("add layer %s: %w", LayerItems, err)
	}
	for _, p := range layout.Placements {
		x := float64(p.Col)
		y := top - float64(p.Row+p.Item.Height)
		if err := rectangle(d, x, y, float64(p.Item.Width), float64(p.Item.Height)); err != nil {
			return fmt.Errorf("item %d: %w", p.Index, err)
		}
	}

	if err := d.SaveAs(r.Path); err != nil {
		return fmt.Errorf("write dxf: %w", err)
	}
	return nil
}

// rectangle draws an axis-aligned rectangle on the current layer.
func rectangle(d *drawing.Drawing, x, y, w, h float64) error {
	corners := [5][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}, {x, y}}
	for i := 0; i < 4; i++ {
		a, b := corners[i], corners[i+1]
		if _, err := d.Line(a[0], a[1], 0, b[0], b[1], 0); err != nil {
			return fmt.Errorf("draw line: %w", err)
		}
	}
	return nil
}
