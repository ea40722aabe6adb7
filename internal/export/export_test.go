package export

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/entity"

	"github.com/piwi3910/packga/internal/model"
)

// sampleRun places items 0 and 1 side by side in a 10x5 container and
// leaves item 2 out.
func sampleRun() (model.Scenario, model.Stats) {
	scenario := model.Scenario{
		Container: model.Container{Width: 10, Height: 5},
		Items: []model.Item{
			{Label: "left", Width: 5, Height: 5, Benefit: 10},
			{Label: "right", Width: 5, Height: 5, Benefit: 20},
			{Label: "extra", Width: 3, Height: 3, Benefit: 1000},
		},
	}
	stats := model.NewStats(scenario.Items)
	stats.BestSolution = model.Permutation{0, 1, 2}
	stats.BestScore = 30
	stats.BestIdentifier = stats.BestSolution.Digest()
	stats.OptimaFoundAtGenerations = []int{0, 4}
	stats.TotalGenerations = 12
	stats.StopReason = model.StopCancelled
	return scenario, stats
}

func TestRendererFor(t *testing.T) {
	tests := []struct {
		path string
		want any
	}{
		{"out.png", &PNGRenderer{}},
		{"OUT.PDF", &PDFRenderer{}},
		{"plan.dxf", &DXFRenderer{}},
	}
	for _, tt := range tests {
		r, err := RendererFor(tt.path)
		require.NoError(t, err, tt.path)
		assert.IsType(t, tt.want, r)
	}

	_, err := RendererFor("out.bmp")
	assert.Error(t, err)
}

func TestFillPercent(t *testing.T) {
	scenario, stats := sampleRun()
	layout, err := layoutOf(scenario, stats)
	require.NoError(t, err)

	assert.InDelta(t, 100.0, fillPercent(scenario.Container, layout), 1e-9)

	stats.BestSolution = nil
	empty, err := layoutOf(scenario, stats)
	require.NoError(t, err)
	assert.InDelta(t, 0.0, fillPercent(scenario.Container, empty), 1e-9)
}

func TestLayoutOf_RejectsMismatchedSolution(t *testing.T) {
	scenario, stats := sampleRun()
	stats.BestSolution = model.Permutation{0, 1}

	_, err := layoutOf(scenario, stats)
	assert.Error(t, err)
}

func TestPNGRenderer_Draw(t *testing.T) {
	scenario, stats := sampleRun()
	r := &PNGRenderer{}

	img, err := r.Draw(scenario, stats)
	require.NoError(t, err)

	assert.Equal(t, 101, img.Bounds().Dx())
	assert.Equal(t, 51, img.Bounds().Dy())

	// Inside the first item.
	assert.Equal(t, itemColor, img.RGBAAt(25, 25))
	// Item borders replace grid lines.
	assert.Equal(t, borderColor, img.RGBAAt(0, 0))
	assert.Equal(t, borderColor, img.RGBAAt(50, 20))
	assert.Equal(t, borderColor, img.RGBAAt(100, 50))
}

func TestPNGRenderer_EmptyContainerShowsGrid(t *testing.T) {
	scenario, stats := sampleRun()
	stats.BestSolution = nil
	r := &PNGRenderer{TileSize: 4}

	img, err := r.Draw(scenario, stats)
	require.NoError(t, err)

	assert.Equal(t, 41, img.Bounds().Dx())
	assert.Equal(t, gridColor, img.RGBAAt(4, 2))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(2, 2), "cell interiors stay empty")
}

func TestPNGRenderer_Render(t *testing.T) {
	scenario, stats := sampleRun()
	path := filepath.Join(t.TempDir(), "solution.png")

	require.NoError(t, (&PNGRenderer{Path: path}).Render(scenario, stats))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 101, img.Bounds().Dx())
}

func TestPNGRenderer_BadPath(t *testing.T) {
	scenario, stats := sampleRun()
	err := (&PNGRenderer{Path: filepath.Join(t.TempDir(), "missing", "x.png")}).Render(scenario, stats)
	assert.Error(t, err)
}

func TestPDFRenderer_Render(t *testing.T) {
	scenario, stats := sampleRun()
	path := filepath.Join(t.TempDir(), "report.pdf")

	require.NoError(t, (&PDFRenderer{Path: path, Title: "Sample"}).Render(scenario, stats))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Greater(t, len(data), 1000)
	assert.Equal(t, "%PDF", string(data[:4]))
}

func TestPDFRenderer_NoSolution(t *testing.T) {
	scenario, stats := sampleRun()
	stats.BestSolution = nil
	path := filepath.Join(t.TempDir(), "report.pdf")

	assert.NoError(t, (&PDFRenderer{Path: path}).Render(scenario, stats))
	assert.FileExists(t, path)
}

func TestNewRunCode(t *testing.T) {
	_, stats := sampleRun()
	code := NewRunCode(stats)

	assert.Equal(t, stats.RunID, code.RunID)
	assert.Equal(t, 30, code.Score)
	assert.Equal(t, 1030, code.MaxScore)
	assert.Equal(t, []int{0, 1, 2}, code.Solution)

	code.Solution[0] = 9
	assert.Equal(t, 0, stats.BestSolution[0], "run code must not alias the solution")
}

func TestEncodeRunCode_DropsLongSolution(t *testing.T) {
	code := RunCode{RunID: "run", Identifier: "abc", Solution: make([]int, 5000)}

	img, err := encodeRunCode(code)
	require.NoError(t, err)
	assert.NotEmpty(t, img)
}

func TestDXFRenderer_Render(t *testing.T) {
	scenario, stats := sampleRun()
	path := filepath.Join(t.TempDir(), "layout.dxf")

	require.NoError(t, (&DXFRenderer{Path: path}).Render(scenario, stats))

	d, err := dxf.Open(path)
	require.NoError(t, err)

	var lines []*entity.Line
	for _, e := range d.Entities() {
		if l, ok := e.(*entity.Line); ok {
			lines = append(lines, l)
		}
	}
	// Container outline plus one rectangle per placed item.
	assert.Len(t, lines, 4*3)

	maxX := 0.0
	for _, l := range lines {
		maxX = max(maxX, l.Start[0], l.End[0])
	}
	assert.InDelta(t, 10.0, maxX, 1e-9)
}
