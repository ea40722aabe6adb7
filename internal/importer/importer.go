// Package importer builds scenarios for the packer: randomly generated ones,
// the plain text scenario format, and item lists from CSV and Excel files.
// Tabular imports detect the delimiter and map columns by header name,
// case-insensitively.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/packga/internal/model"
)

// MaxItems caps the number of items a single scenario may expand to.
const MaxItems = 100000

// ImportResult holds the scenario read from a source together with every
// problem encountered. Rows with errors are left out of the scenario.
type ImportResult struct {
	Scenario model.Scenario
	Errors   []string
	Warnings []string
}

// OK reports whether the import produced a usable scenario.
func (r ImportResult) OK() bool {
	return len(r.Errors) == 0 && len(r.Scenario.Items) > 0
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A value of -1 means the column is absent.
type ColumnMapping struct {
	Label    int
	Width    int
	Height   int
	Benefit  int
	Quantity int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "item", "description", "desc", "id"},
	"width":    {"width", "w", "x"},
	"height":   {"height", "h", "y"},
	"benefit":  {"benefit", "value", "profit", "score", "b"},
	"quantity": {"quantity", "qty", "count", "pcs"},
}

var positionalMapping = ColumnMapping{Label: 0, Width: 1, Height: 2, Benefit: 3, Quantity: 4}

// DetectCSVDelimiter picks the delimiter among comma, semicolon, tab and
// pipe that splits the most rows into the same number of columns as the
// first row.
func DetectCSVDelimiter(data []byte) rune {
	best, bestScore := ',', 0

	for _, delim := range []rune{',', ';', '\t', '|'} {
		records, err := readRecords(bytes.NewReader(data), delim)
		if err != nil || len(records) == 0 {
			continue
		}
		cols := len(records[0])
		if cols < 2 {
			continue
		}

		consistent := 0
		for _, row := range records {
			if len(row) == cols {
				consistent++
			}
		}
		if score := consistent*10 + cols; score > bestScore {
			best, bestScore = delim, score
		}
	}
	return best
}

func readRecords(r io.Reader, delim rune) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.Comma = delim
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1
	return reader.ReadAll()
}

// DetectColumns examines a header row and returns a ColumnMapping. When no
// cell matches a known alias it returns the positional mapping
// (label, width, height, benefit, quantity) and false.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{Label: -1, Width: -1, Height: -1, Benefit: -1, Quantity: -1}
	slots := map[string]*int{
		"label":    &mapping.Label,
		"width":    &mapping.Width,
		"height":   &mapping.Height,
		"benefit":  &mapping.Benefit,
		"quantity": &mapping.Quantity,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}
	return mapping, true
}

// getCell returns the trimmed cell at idx, or "" when idx is out of range.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parsePositive(row []string, idx int, rowLabel, name string) (int, string) {
	raw := getCell(row, idx)
	if raw == "" {
		return 0, fmt.Sprintf("%s: Missing %s value", rowLabel, name)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, name, raw)
	}
	if n < 1 {
		return 0, fmt.Sprintf("%s: %s must be positive, got %d", rowLabel, strings.ToUpper(name[:1])+name[1:], n)
	}
	return n, ""
}

// parseRow extracts an item and its quantity from a row. It returns an
// error message instead of an item when the row is unusable.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (model.Item, int, string) {
	width, msg := parsePositive(row, mapping.Width, rowLabel, "width")
	if msg != "" {
		return model.Item{}, 0, msg
	}
	height, msg := parsePositive(row, mapping.Height, rowLabel, "height")
	if msg != "" {
		return model.Item{}, 0, msg
	}
	benefit, msg := parsePositive(row, mapping.Benefit, rowLabel, "benefit")
	if msg != "" {
		return model.Item{}, 0, msg
	}

	qty := 1
	if getCell(row, mapping.Quantity) != "" {
		qty, msg = parsePositive(row, mapping.Quantity, rowLabel, "quantity")
		if msg != "" {
			return model.Item{}, 0, msg
		}
		if qty > MaxItems {
			return model.Item{}, 0, fmt.Sprintf("%s: Quantity %d exceeds the limit of %d", rowLabel, qty, MaxItems)
		}
	}

	item := model.NewItem(width, height, benefit)
	item.Label = getCell(row, mapping.Label)
	return item, qty, ""
}

func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

func checkContainer(c model.Container) string {
	if c.Width < 1 || c.Height < 1 {
		return fmt.Sprintf("Container dimensions are required for item lists, got %dx%d", c.Width, c.Height)
	}
	return ""
}

// ImportCSV imports an item list from a CSV file into the given container.
// Comma, semicolon, tab and pipe delimiters are recognized.
func ImportCSV(path string, container model.Container) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}

	var warnings []string
	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		name := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		warnings = append(warnings, fmt.Sprintf("Detected %s delimiter", name))
	}

	records, err := readRecords(bytes.NewReader(data), delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", warnings, container)
}

// ImportCSVFromReader imports an item list from r using a known delimiter.
func ImportCSVFromReader(r io.Reader, delimiter rune, container model.Container) ImportResult {
	records, err := readRecords(r, delimiter)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}
	return importFromRows(records, "Line", nil, container)
}

// ImportExcel imports an item list from the first sheet of an .xlsx file.
func ImportExcel(path string, container model.Container) ImportResult {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open Excel file: %v", err)}}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ImportResult{Errors: []string{"Excel file has no sheets"}}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read Excel data: %v", err)}}
	}
	return importFromRows(rows, "Row", nil, container)
}

// ImportFile picks the importer by file extension. Text scenarios carry
// their own container, which a non-zero container argument overrides.
// Giving only one container dimension is an error for every format.
func ImportFile(path string, container model.Container) ImportResult {
	if (container.Width == 0) != (container.Height == 0) {
		return ImportResult{Errors: []string{
			fmt.Sprintf("Container width and height must be given together, got %dx%d", container.Width, container.Height),
		}}
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return ImportCSV(path, container)
	case ".xlsx", ".xlsm":
		return ImportExcel(path, container)
	default:
		result := ImportText(path)
		if container.Width > 0 && container.Height > 0 && len(result.Errors) == 0 {
			result.Scenario.Container = container
			result.Warnings = append(result.Warnings, fmt.Sprintf("Container overridden to %dx%d", container.Width, container.Height))
		}
		return result
	}
}

// importFromRows is the import logic shared by CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, warnings []string, container model.Container) ImportResult {
	result := ImportResult{
		Scenario: model.Scenario{Container: container},
		Warnings: warnings,
	}

	if msg := checkContainer(container); msg != "" {
		result.Errors = append(result.Errors, msg)
		return result
	}
	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		var missing []string
		if mapping.Width == -1 {
			missing = append(missing, "Width")
		}
		if mapping.Height == -1 {
			missing = append(missing, "Height")
		}
		if mapping.Benefit == -1 {
			missing = append(missing, "Benefit")
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if _, err := strconv.Atoi(getCell(rows[0], mapping.Width)); err != nil {
		// Unrecognized header: skip it but keep positional mapping.
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		item, qty, msg := parseRow(row, mapping, fmt.Sprintf("%s %d", rowPrefix, i+1))
		if msg != "" {
			result.Errors = append(result.Errors, msg)
			continue
		}
		if !item.Fits(container) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("%s %d: %dx%d item can never fit the %dx%d container", rowPrefix, i+1, item.Width, item.Height, container.Width, container.Height))
		}
		if len(result.Scenario.Items)+qty > MaxItems {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%s %d: item list exceeds the limit of %d items", rowPrefix, i+1, MaxItems))
			return result
		}
		for k := 0; k < qty; k++ {
			result.Scenario.Items = append(result.Scenario.Items, item)
		}
	}

	if len(result.Scenario.Items) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No items found")
	}
	return result
}
