package importer

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/piwi3910/packga/internal/model"
)

// ImportText reads the whitespace separated scenario format: container
// width, container height and item count, followed by one width, height,
// benefit triple per item.
func ImportText(path string) ImportResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot open file: %v", err)}}
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return ImportResult{Errors: []string{"File is empty"}}
	}
	return ImportTextFromReader(bytes.NewReader(data))
}

// ImportTextFromReader parses the text scenario format from r.
func ImportTextFromReader(r io.Reader) ImportResult {
	result := ImportResult{}

	scanner := bufio.NewScanner(r)
	scanner.Split(bufio.ScanWords)
	pos := 0
	next := func(what string) (int, bool) {
		pos++
		if !scanner.Scan() {
			result.Errors = append(result.Errors, fmt.Sprintf("Token %d: missing %s", pos, what))
			return 0, false
		}
		n, err := strconv.Atoi(scanner.Text())
		if err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("Token %d: invalid %s '%s'", pos, what, scanner.Text()))
			return 0, false
		}
		return n, true
	}

	width, ok := next("container width")
	if !ok {
		return result
	}
	height, ok := next("container height")
	if !ok {
		return result
	}
	count, ok := next("item count")
	if !ok {
		return result
	}
	if width < 1 || height < 1 {
		result.Errors = append(result.Errors, fmt.Sprintf("Container dimensions must be positive, got %dx%d", width, height))
		return result
	}
	if count < 1 {
		result.Errors = append(result.Errors, fmt.Sprintf("Item count must be positive, got %d", count))
		return result
	}
	result.Scenario.Container = model.Container{Width: width, Height: height}

	for i := 0; i < count; i++ {
		w, ok := next(fmt.Sprintf("width of item %d", i+1))
		if !ok {
			return result
		}
		h, ok := next(fmt.Sprintf("height of item %d", i+1))
		if !ok {
			return result
		}
		b, ok := next(fmt.Sprintf("benefit of item %d", i+1))
		if !ok {
			return result
		}
		if w < 1 || h < 1 || b < 1 {
			result.Errors = append(result.Errors, fmt.Sprintf("Item %d: width, height and benefit must be positive", i+1))
			continue
		}
		result.Scenario.Items = append(result.Scenario.Items, model.NewItem(w, h, b))
	}

	if scanner.Scan() {
		result.Warnings = append(result.Warnings, fmt.Sprintf("Ignoring trailing data after %d items", count))
	}
	return result
}
