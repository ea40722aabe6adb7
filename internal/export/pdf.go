package export

import (
	"bytes"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/packga/internal/engine"
	"github.com/piwi3910/packga/internal/model"
)

// rgb is a fill color for placed items.
type rgb struct {
	R, G, B int
}

var itemColors = []rgb{
	{R: 193, G: 101, B: 10}, // amber
	{R: 33, G: 150, B: 243}, // blue
	{R: 76, G: 175, B: 80},  // green
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 22.0
	qrSize       = 35.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// PDFRenderer writes a two page report: the layout drawing with a QR code
// of the run identity, and a summary of the run statistics.
type PDFRenderer struct {
	Path  string
	Title string
}

// Render writes the report to r.Path.
func (r *PDFRenderer) Render(scenario model.Scenario, stats model.Stats) error {
	layout, err := layoutOf(scenario, stats)
	if err != nil {
		return err
	}
	qr, err := encodeRunCode(NewRunCode(stats))
	if err != nil {
		return err
	}

	title := r.Title
	if title == "" {
		title = "Packing layout"
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderLayoutPage(pdf, title, scenario, layout, stats, qr)
	pdf.AddPage()
	renderSummaryPage(pdf, scenario, layout, stats)

	if err := pdf.OutputFileAndClose(r.Path); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func renderLayoutPage(pdf *fpdf.Fpdf, title string, scenario model.Scenario, layout engine.Layout, stats model.Stats, qr []byte) {
	c := scenario.Container
	textWidth := pageWidth - marginLeft - marginRight - qrSize - 5

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(textWidth, headerHeight, fmt.Sprintf("%s: %d x %d cells", title, c.Width, c.Height), "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	line := fmt.Sprintf("Score: %d / %d | Wasted cells: %d | Placed: %d of %d | Fill: %.1f%%",
		layout.Score.Benefit, stats.MaxPossibleScore, layout.Score.Wasted,
		len(layout.Placements), len(scenario.Items), fillPercent(c, layout))
	pdf.CellFormat(textWidth, 5, line, "", 0, "L", false, 0, "")

	pdf.RegisterImageOptionsReader("runcode", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qr))
	pdf.ImageOptions("runcode", pageWidth-marginRight-qrSize, marginTop, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight - qrSize - 5
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/float64(c.Width), drawHeight/float64(c.Height))

	canvasW := float64(c.Width) * scale
	canvasH := float64(c.Height) * scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	// Free cells show through as the container background.
	pdf.SetFillColor(60, 60, 60)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	for i, p := range layout.Placements {
		col := itemColors[i%len(itemColors)]
		pw := float64(p.Item.Width) * scale
		ph := float64(p.Item.Height) * scale
		px := offsetX + float64(p.Col)*scale
		py := offsetY + float64(p.Row)*scale

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(255, 255, 255)
		pdf.SetLineWidth(0.3)
		pdf.Rect(px, py, pw, ph, "FD")

		if pw > 12 && ph > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(pw, ph))
			pdf.SetTextColor(255, 255, 255)
			label := itemLabel(p)
			if lw := pdf.GetStringWidth(label); lw < pw-2 {
				pdf.SetXY(px+(pw-lw)/2, py+ph/2-2)
				pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
			}
		}
	}
	pdf.SetTextColor(0, 0, 0)

	drawDimensionAnnotations(pdf, c, offsetX, offsetY, canvasW, canvasH)
	drawLegend(pdf, layout, offsetY+canvasH+6)
}

// drawDimensionAnnotations labels the container width below and the
// height to the left of the drawing.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, c model.Container, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	widthLabel := fmt.Sprintf("%d", c.Width)
	wl := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wl)/2, offsetY+canvasH+1)
	pdf.CellFormat(wl, 4, widthLabel, "", 0, "C", false, 0, "")

	heightLabel := fmt.Sprintf("%d", c.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hl := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hl/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hl, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	pdf.SetTextColor(0, 0, 0)
}

// drawLegend lists the placed items in placement order below the drawing.
func drawLegend(pdf *fpdf.Fpdf, layout engine.Layout, y float64) {
	if len(layout.Placements) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(30, 4, "Items placed:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	x := marginLeft + 32
	maxX := pageWidth - marginRight
	maxY := pageHeight - marginBottom

	for i, p := range layout.Placements {
		col := itemColors[i%len(itemColors)]
		label := fmt.Sprintf("%s %dx%d b%d", itemLabel(p), p.Item.Width, p.Item.Height, p.Item.Benefit)
		w := pdf.GetStringWidth(label) + 6

		if x+w > maxX {
			y += 5
			x = marginLeft
		}
		if y+4 > maxY {
			pdf.SetXY(x, y-5)
			pdf.CellFormat(10, 4, "...", "", 0, "L", false, 0, "")
			return
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(x, y+0.5, 3, 3, "F")
		pdf.SetXY(x+4, y)
		pdf.CellFormat(w-4, 4, label, "", 0, "L", false, 0, "")
		x += w + 2
	}
}

func renderSummaryPage(pdf *fpdf.Fpdf, scenario model.Scenario, layout engine.Layout, stats model.Stats) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Run Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18
	rows := []struct {
		label string
		value string
	}{
		{"Run ID", stats.RunID},
		{"Solution identifier", stats.BestIdentifier},
		{"Best score", fmt.Sprintf("%d of %d possible", stats.BestScore, stats.MaxPossibleScore)},
		{"Wasted cells", fmt.Sprintf("%d of %d", stats.BestWastedCells, scenario.Container.Cells())},
		{"Generations", fmt.Sprintf("%d", stats.TotalGenerations)},
		{"Improved at generations", joinInts(stats.OptimaFoundAtGenerations)},
		{"Stop reason", string(stats.StopReason)},
		{"Elapsed", stats.Elapsed().Round(time.Millisecond).String()},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, row := range rows {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, row.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(190, 6, row.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	if len(layout.Skipped) == 0 {
		return
	}

	y += 6
	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetTextColor(200, 0, 0)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(200, 7, fmt.Sprintf("Items left out: %d", len(layout.Skipped)), "", 0, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	y += 8

	pdf.SetFont("Helvetica", "", 9)
	for _, idx := range layout.Skipped {
		if y > pageHeight-marginBottom-5 {
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, "...", "", 0, "L", false, 0, "")
			break
		}
		it := scenario.Items[idx]
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(200, 5, fmt.Sprintf("- #%d %s: %d x %d, benefit %d", idx, it.Label, it.Width, it.Height, it.Benefit), "", 0, "L", false, 0, "")
		y += 5
	}
}

// labelFontSize returns a font size that suits the rectangle.
func labelFontSize(w, h float64) float64 {
	switch minDim := math.Min(w, h); {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}

func itemLabel(p engine.Placement) string {
	if p.Item.Label != "" {
		return p.Item.Label
	}
	return fmt.Sprintf("#%d", p.Index)
}

func fillPercent(c model.Container, layout engine.Layout) float64 {
	if c.Cells() == 0 {
		return 0
	}
	used := 0
	for _, p := range layout.Placements {
		used += p.Item.Area()
	}
	return 100 * float64(used) / float64(c.Cells())
}

func joinInts(xs []int) string {
	if len(xs) == 0 {
		return "-"
	}
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprintf("%d", x)
	}
	return strings.Join(parts, ", ")
}
