package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Result is the outcome of one aggregation request.
type Result struct {
	// Size is the requested element count after size resolution.
	Size int

	// Sum is the sum of x² over the even elements of the generated values.
	Sum uint64

	// Elapsed is the wall-clock time spent in the parallel reduction.
	Elapsed time.Duration
}

// String returns the three-line text form of r, without a trailing newline.
func (r Result) String() string {
	return fmt.Sprintf("Processed %d numbers\nResult: %d\nTime: %s",
		r.Size, r.Sum, FormatDuration(r.Elapsed))
}

// durationUnits is ordered largest first; "s" must come last when matching
// suffixes because every other unit also ends in "s".
var durationUnits = []struct {
	suffix string
	unit   time.Duration
}{
	{"ms", time.Millisecond},
	{"µs", time.Microsecond},
	{"ns", time.Nanosecond},
	{"s", time.Second},
}

// FormatDuration renders d with two decimals in the largest unit that keeps
// the integer part non-zero, e.g. "850.00ns", "3.20µs", "12.35ms", "1.50s".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	switch {
	case d >= time.Second:
		return fmt.Sprintf("%.2fs", d.Seconds())
	case d >= time.Millisecond:
		return fmt.Sprintf("%.2fms", float64(d)/float64(time.Millisecond))
	case d >= time.Microsecond:
		return fmt.Sprintf("%.2fµs", float64(d)/float64(time.Microsecond))
	default:
		return fmt.Sprintf("%.2fns", float64(d))
	}
}

// ParseDuration is the inverse of FormatDuration, up to its rounding.
func ParseDuration(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	for _, u := range durationUnits {
		num, ok := strings.CutSuffix(s, u.suffix)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(num, 64)
		if err != nil || v < 0 {
			return 0, fmt.Errorf("types: invalid duration %q", s)
		}
		return time.Duration(v * float64(u.unit)), nil
	}
	return 0, fmt.Errorf("types: duration %q has no known unit", s)
}

// ParseResult decodes the text form produced by Result.String.
// Trailing whitespace and a final newline are tolerated.
func ParseResult(text string) (Result, error) {
	lines := strings.Split(strings.TrimRight(text, "\r\n "), "\n")
	if len(lines) != 3 {
		return Result{}, fmt.Errorf("types: result has %d lines, want 3", len(lines))
	}

	var r Result
	sizeText, ok := strings.CutPrefix(lines[0], "Processed ")
	if ok {
		sizeText, ok = strings.CutSuffix(sizeText, " numbers")
	}
	if !ok {
		return Result{}, fmt.Errorf("types: malformed size line %q", lines[0])
	}
	size, err := strconv.Atoi(sizeText)
	if err != nil || size < 0 {
		return Result{}, fmt.Errorf("types: malformed size %q", sizeText)
	}
	r.Size = size

	sumText, ok := strings.CutPrefix(lines[1], "Result: ")
	if !ok {
		return Result{}, fmt.Errorf("types: malformed result line %q", lines[1])
	}
	if r.Sum, err = strconv.ParseUint(sumText, 10, 64); err != nil {
		return Result{}, fmt.Errorf("types: malformed sum %q: %w", sumText, err)
	}

	timeText, ok := strings.CutPrefix(lines[2], "Time: ")
	if !ok {
		return Result{}, fmt.Errorf("types: malformed time line %q", lines[2])
	}
	if r.Elapsed, err = ParseDuration(timeText); err != nil {
		return Result{}, err
	}
	return r, nil
}
