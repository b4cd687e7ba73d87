package words

import (
	"math"
	"strings"
	"testing"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		name  string
		total float64
		want  string
	}{
		{"zero", 0, ZeroPhrase},
		{"rounds to zero", 0.004, ZeroPhrase},
		{"small", 7, "Rupees Seven Only"},
		{"teens", 19, "Rupees Nineteen Only"},
		{"tens", 40, "Rupees Forty Only"},
		{"grand total", 1180, "Rupees One Thousand One Hundred Eighty Only"},
		{"lakh", 250000, "Rupees Two Lakh Fifty Thousand Only"},
		{"crore", 12345678, "Rupees One Crore Twenty Three Lakh Forty Five Thousand Six Hundred Seventy Eight Only"},
		{"paise", 220.5, "Rupees Two Hundred Twenty and Fifty Paise Only"},
		{"only paise", 0.75, "Rupees Zero and Seventy Five Paise Only"},
		{"negative", -5, "Minus Rupees Five Only"},
		{"hundred crore", 1000000000, "Rupees One Hundred Crore Only"},
		{"past int64 paise", 1e17, "Rupees One Thousand Crore Crore Only"},
		{"past int64", 1e20, "Rupees Ten Lakh Crore Crore Only"},
		{"negative huge", -1e17, "Minus Rupees One Thousand Crore Crore Only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AmountInWords(tt.total); got != tt.want {
				t.Errorf("AmountInWords(%v) = %q, want %q", tt.total, got, tt.want)
			}
		})
	}
}

func TestAmountInWordsDeterministic(t *testing.T) {
	a := AmountInWords(98765.43)
	b := AmountInWords(98765.43)
	if a != b {
		t.Fatalf("non deterministic: %q vs %q", a, b)
	}
}

func TestAmountInWordsLargestFloat(t *testing.T) {
	got := AmountInWords(math.MaxFloat64)
	if got == ZeroPhrase || !strings.HasPrefix(got, "Rupees ") || !strings.HasSuffix(got, " Only") || !strings.Contains(got, "Crore Crore") {
		t.Fatalf("AmountInWords(MaxFloat64) = %q", got)
	}
}
