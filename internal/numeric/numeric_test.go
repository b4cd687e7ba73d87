package numeric

import "testing"

func TestToNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"   ", 0},
		{"abc", 0},
		{"12", 12},
		{" 12.5 ", 12.5},
		{"-3", -3},
		{"1e3", 1000},
		{"NaN", 0},
		{"Inf", 0},
		{"12abc", 0},
	}
	for _, tt := range tests {
		if got := ToNumber(tt.in); got != tt.want {
			t.Errorf("ToNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseReportsValidity(t *testing.T) {
	if _, ok := Parse(""); ok {
		t.Fatalf("empty string must not parse")
	}
	if _, ok := Parse("x"); ok {
		t.Fatalf("text must not parse")
	}
	if f, ok := Parse("0"); !ok || f != 0 {
		t.Fatalf("zero should parse, got %v %v", f, ok)
	}
}

func TestRound2(t *testing.T) {
	if got := Round2(110.004); got != 110 {
		t.Errorf("Round2(110.004) = %v", got)
	}
	if got := Round2(2.675); got != 2.68 && got != 2.67 {
		t.Errorf("Round2(2.675) = %v", got)
	}
	if got := Round2(-1.005); got > -1 || got < -1.01 {
		t.Errorf("Round2(-1.005) = %v", got)
	}
}

func TestFormatIndian(t *testing.T) {
	tests := []struct {
		v    float64
		d    int
		want string
	}{
		{0, 2, "0.00"},
		{999, 0, "999"},
		{1000, 2, "1,000.00"},
		{123456, 2, "1,23,456.00"},
		{12345678.5, 2, "1,23,45,678.50"},
		{-1180, 2, "-1,180.00"},
		{-0.001, 2, "0.00"},
	}
	for _, tt := range tests {
		if got := FormatIndian(tt.v, tt.d); got != tt.want {
			t.Errorf("FormatIndian(%v, %d) = %q, want %q", tt.v, tt.d, got, tt.want)
		}
	}
}
