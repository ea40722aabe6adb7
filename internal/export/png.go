package export

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"github.com/piwi3910/packga/internal/model"
)

// DefaultTileSize is the number of pixels per grid cell.
const DefaultTileSize = 10

var (
	gridColor   = color.RGBA{R: 50, G: 50, B: 50, A: 255}
	itemColor   = color.RGBA{R: 193, G: 101, B: 10, A: 255}
	borderColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// PNGRenderer draws the container grid and every placed item as a filled
// tile block with a white outline.
type PNGRenderer struct {
	Path     string
	TileSize int
}

// Render writes the image of the best solution to r.Path.
func (r *PNGRenderer) Render(scenario model.Scenario, stats model.Stats) error {
	img, err := r.Draw(scenario, stats)
	if err != nil {
		return err
	}

	f, err := os.Create(r.Path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}

// Draw renders the image without writing it. The image is one pixel
// wider and taller than the tile area so the closing grid lines fit.
func (r *PNGRenderer) Draw(scenario model.Scenario, stats model.Stats) (*image.RGBA, error) {
	layout, err := layoutOf(scenario, stats)
	if err != nil {
		return nil, err
	}

	tile := r.TileSize
	if tile <= 0 {
		tile = DefaultTileSize
	}
	c := scenario.Container
	img := image.NewRGBA(image.Rect(0, 0, c.Width*tile+1, c.Height*tile+1))
	canvas := &tileCanvas{img: img, tile: tile}

	for col := 0; col <= c.Width; col++ {
		canvas.vline(col, 0, c.Height, gridColor)
	}
	for row := 0; row <= c.Height; row++ {
		canvas.hline(0, row, c.Width, gridColor)
	}

	for _, p := range layout.Placements {
		w, h := p.Item.Width, p.Item.Height
		canvas.fill(p.Col, p.Row, w, h, itemColor)
		canvas.hline(p.Col, p.Row, w, borderColor)
		canvas.hline(p.Col, p.Row+h, w, borderColor)
		canvas.vline(p.Col, p.Row, h, borderColor)
		canvas.vline(p.Col+w, p.Row, h, borderColor)
	}
	return img, nil
}

// tileCanvas addresses pixels in grid-cell coordinates.
type tileCanvas struct {
	img  *image.RGBA
	tile int
}

func (t *tileCanvas) fill(col, row, w, h int, c color.RGBA) {
	for y := row * t.tile; y < (row+h)*t.tile; y++ {
		for x := col * t.tile; x < (col+w)*t.tile; x++ {
			t.img.SetRGBA(x, y, c)
		}
	}
}

func (t *tileCanvas) hline(col, row, length int, c color.RGBA) {
	y := row * t.tile
	for x := col * t.tile; x <= (col+length)*t.tile; x++ {
		t.img.SetRGBA(x, y, c)
	}
}

func (t *tileCanvas) vline(col, row, length int, c color.RGBA) {
	x := col * t.tile
	for y := row * t.tile; y <= (row+length)*t.tile; y++ {
		t.img.SetRGBA(x, y, c)
	}
}
