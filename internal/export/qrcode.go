package export

import (
	"encoding/json"
	"fmt"

	qrcode "github.com/skip2/go-qrcode"

	"github.com/piwi3910/packga/internal/model"
)

// RunCode is the data encoded into the QR code of a PDF report. It is
// enough to look a run up in the history and to replay its solution.
type RunCode struct {
	RunID      string `json:"run_id"`
	Identifier string `json:"identifier"`
	Score      int    `json:"score"`
	MaxScore   int    `json:"max_score"`
	Solution   []int  `json:"solution"`
}

// NewRunCode collects the QR payload from the final statistics.
func NewRunCode(stats model.Stats) RunCode {
	return RunCode{
		RunID:      stats.RunID,
		Identifier: stats.BestIdentifier,
		Score:      stats.BestScore,
		MaxScore:   stats.MaxPossibleScore,
		Solution:   []int(stats.BestSolution.Clone()),
	}
}

// encodeRunCode renders the run code as a PNG QR image. Solutions too
// long for a QR code are left out; the identifier still names them.
func encodeRunCode(code RunCode) ([]byte, error) {
	img, err := encodeJSONQR(code)
	if err != nil && code.Solution != nil {
		code.Solution = nil
		img, err = encodeJSONQR(code)
	}
	return img, err
}

func encodeJSONQR(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal run code: %w", err)
	}
	img, err := qrcode.Encode(string(data), qrcode.Medium, 256)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return img, nil
}
