package types

import (
	"testing"
	"time"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0.00ns"},
		{850, "850.00ns"},
		{3200 * time.Nanosecond, "3.20µs"},
		{12346 * time.Microsecond, "12.35ms"},
		{1500 * time.Millisecond, "1.50s"},
		{-time.Second, "0.00ns"},
	}
	for _, tc := range tests {
		if got := FormatDuration(tc.in); got != tc.want {
			t.Errorf("FormatDuration(%v) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestResult_String(t *testing.T) {
	r := Result{Size: 100, Sum: 1234, Elapsed: 2500 * time.Microsecond}
	want := "Processed 100 numbers\nResult: 1234\nTime: 2.50ms"
	if got := r.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestParseResult(t *testing.T) {
	r, err := ParseResult("Processed 100 numbers\nResult: 1234\nTime: 2.50ms\n")
	if err != nil {
		t.Fatalf("ParseResult: %v", err)
	}
	if r.Size != 100 || r.Sum != 1234 {
		t.Errorf("got size=%d sum=%d, want 100/1234", r.Size, r.Sum)
	}
	if r.Elapsed != 2500*time.Microsecond {
		t.Errorf("Elapsed = %v, want 2.5ms", r.Elapsed)
	}
}

func TestParseResult_Malformed(t *testing.T) {
	for _, in := range []string{
		"",
		"Processed 100 numbers\nResult: 1234",
		"Processed x numbers\nResult: 1\nTime: 1.00s",
		"Processed 1 numbers\nResult: -1\nTime: 1.00s",
		"Processed 1 numbers\nSum: 1\nTime: 1.00s",
		"Processed 1 numbers\nResult: 1\nTime: 1.00h",
	} {
		if _, err := ParseResult(in); err == nil {
			t.Errorf("ParseResult(%q): expected error, got nil", in)
		}
	}
}

func TestParseDuration_Units(t *testing.T) {
	tests := map[string]time.Duration{
		"850.00ns": 850,
		"3.20µs":   3200,
		"1.50s":    1500 * time.Millisecond,
	}
	for in, want := range tests {
		got, err := ParseDuration(in)
		if err != nil {
			t.Fatalf("ParseDuration(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ParseDuration(%q) = %v, want %v", in, got, want)
		}
	}
}
