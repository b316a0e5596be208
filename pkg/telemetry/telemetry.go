// Package telemetry encodes per-round progress as single text lines so a
// host can follow a run over the device's serial console.
//
// Format: P,<round>,<max_rounds>,<has_deviation 0|1>,<response Y|N|T|->,<probed_ms>,<step_ms>,<best_ms>
// Example: P,3,10,1,Y,250,125,250
package telemetry

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/itohio/gotakt/pkg/staircase"
)

// Prefix marks a progress line; other console lines are free-form log output.
const Prefix = "P,"

const numFields = 8

// Format encodes p as a line without the trailing newline.
func Format(p staircase.Progress) string {
	buf := make([]byte, 0, 48)
	buf = append(buf, Prefix...)
	buf = strconv.AppendInt(buf, int64(p.Round), 10)
	buf = append(buf, ',')
	buf = strconv.AppendInt(buf, int64(p.MaxRounds), 10)
	buf = append(buf, ',')
	if p.HasDeviation {
		buf = append(buf, '1')
	} else {
		buf = append(buf, '0')
	}
	buf = append(buf, ',', responseCode(p.Response), ',')
	buf = strconv.AppendFloat(buf, float64(p.Probed), 'f', -1, 32)
	buf = append(buf, ',')
	buf = strconv.AppendFloat(buf, float64(p.Step), 'f', -1, 32)
	buf = append(buf, ',')
	buf = strconv.AppendFloat(buf, float64(p.Best), 'f', -1, 32)
	return string(buf)
}

// IsRecord reports whether line carries a progress record.
func IsRecord(line string) bool {
	return strings.HasPrefix(line, Prefix)
}

// Parse decodes a progress line.
func Parse(line string) (staircase.Progress, error) {
	parts := strings.Split(line, ",")
	if len(parts) != numFields {
		return staircase.Progress{}, fmt.Errorf("invalid line format: expected %d comma-separated values, got %d", numFields, len(parts))
	}
	if parts[0]+"," != Prefix {
		return staircase.Progress{}, fmt.Errorf("invalid record type %q", parts[0])
	}

	round, err := strconv.Atoi(parts[1])
	if err != nil || round < 0 {
		return staircase.Progress{}, fmt.Errorf("invalid round %q", parts[1])
	}
	maxRounds, err := strconv.Atoi(parts[2])
	if err != nil || maxRounds < 1 {
		return staircase.Progress{}, fmt.Errorf("invalid max rounds %q", parts[2])
	}

	var hasDeviation bool
	switch parts[3] {
	case "1":
		hasDeviation = true
	case "0":
	default:
		return staircase.Progress{}, fmt.Errorf("invalid deviation flag %q", parts[3])
	}

	if len(parts[4]) != 1 {
		return staircase.Progress{}, fmt.Errorf("invalid response %q", parts[4])
	}
	resp, ok := parseResponse(parts[4][0])
	if !ok {
		return staircase.Progress{}, fmt.Errorf("invalid response %q", parts[4])
	}

	probed, err := strconv.ParseFloat(parts[5], 32)
	if err != nil {
		return staircase.Progress{}, fmt.Errorf("invalid probed step: %w", err)
	}
	step, err := strconv.ParseFloat(parts[6], 32)
	if err != nil {
		return staircase.Progress{}, fmt.Errorf("invalid step: %w", err)
	}
	best, err := strconv.ParseFloat(parts[7], 32)
	if err != nil {
		return staircase.Progress{}, fmt.Errorf("invalid best threshold: %w", err)
	}

	return staircase.Progress{
		Round:        round,
		MaxRounds:    maxRounds,
		HasDeviation: hasDeviation,
		Response:     resp,
		Probed:       float32(probed),
		Step:         float32(step),
		Best:         float32(best),
	}, nil
}

func responseCode(r staircase.Response) byte {
	switch r {
	case staircase.ResponseYes:
		return 'Y'
	case staircase.ResponseNo:
		return 'N'
	case staircase.ResponseTimeout:
		return 'T'
	default:
		return '-'
	}
}

func parseResponse(c byte) (staircase.Response, bool) {
	switch c {
	case 'Y':
		return staircase.ResponseYes, true
	case 'N':
		return staircase.ResponseNo, true
	case 'T':
		return staircase.ResponseTimeout, true
	case '-':
		return staircase.ResponseNone, true
	}
	return staircase.ResponseNone, false
}

// Writer reports progress as lines on w. Write errors are dropped.
type Writer struct {
	w io.Writer
}

var _ staircase.Reporter = (*Writer)(nil)

// NewWriter creates a Writer on w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Report writes one progress line.
func (t *Writer) Report(p staircase.Progress) {
	io.WriteString(t.w, Format(p)+"\n")
}
