// Package words spells out rupee amounts using the Indian numbering system
// (crore, lakh, thousand).
package words

import (
	"math"
	"math/big"
	"strings"
)

// ZeroPhrase is returned for a zero amount.
const ZeroPhrase = "Rupees Zero Only"

var ones = []string{
	"", "One", "Two", "Three", "Four", "Five", "Six", "Seven", "Eight", "Nine",
	"Ten", "Eleven", "Twelve", "Thirteen", "Fourteen", "Fifteen", "Sixteen",
	"Seventeen", "Eighteen", "Nineteen",
}

var tens = []string{
	"", "", "Twenty", "Thirty", "Forty", "Fifty", "Sixty", "Seventy", "Eighty", "Ninety",
}

// AmountInWords renders total as "Rupees One Thousand One Hundred Eighty Only",
// adding "and N Paise" when the amount has a fractional part after rounding
// to two decimals. Deterministic and total over every finite input.
func AmountInWords(total float64) string {
	if math.IsNaN(total) || math.IsInf(total, 0) {
		return ZeroPhrase
	}
	neg := total < 0
	abs := math.Abs(total)
	var (
		rupees *big.Int
		paise  int64
	)
	if abs < 1<<53 {
		paiseTotal := int64(math.Round(abs * 100))
		if paiseTotal == 0 {
			return ZeroPhrase
		}
		rupees, paise = big.NewInt(paiseTotal/100), paiseTotal%100
	} else {
		// float64 values past 2^53 are whole numbers
		rupees, _ = new(big.Float).SetFloat64(abs).Int(nil)
	}

	var b strings.Builder
	if neg {
		b.WriteString("Minus ")
	}
	b.WriteString("Rupees ")
	if rupees.Sign() == 0 {
		b.WriteString("Zero")
	} else {
		b.WriteString(spellBig(rupees))
	}
	if paise > 0 {
		b.WriteString(" and ")
		b.WriteString(Spell(paise))
		b.WriteString(" Paise")
	}
	b.WriteString(" Only")
	return b.String()
}

// Spell spells a non-negative integer in Indian grouping. Spell(0) is "Zero".
func Spell(n int64) string {
	if n <= 0 {
		return "Zero"
	}
	var parts []string
	if crore := n / 10000000; crore > 0 {
		// amounts above 99 crore keep recursing: "One Hundred Crore"
		parts = append(parts, Spell(crore), "Crore")
		n %= 10000000
	}
	if lakh := n / 100000; lakh > 0 {
		parts = append(parts, belowHundred(lakh), "Lakh")
		n %= 100000
	}
	if thousand := n / 1000; thousand > 0 {
		parts = append(parts, belowHundred(thousand), "Thousand")
		n %= 1000
	}
	if hundred := n / 100; hundred > 0 {
		parts = append(parts, ones[hundred], "Hundred")
		n %= 100
	}
	if n > 0 {
		parts = append(parts, belowHundred(n))
	}
	return strings.Join(parts, " ")
}

var crore = big.NewInt(10000000)

// spellBig extends Spell past int64 by stacking crores.
func spellBig(n *big.Int) string {
	if n.IsInt64() {
		return Spell(n.Int64())
	}
	q, r := new(big.Int).QuoRem(n, crore, new(big.Int))
	out := spellBig(q) + " Crore"
	if r.Sign() > 0 {
		out += " " + Spell(r.Int64())
	}
	return out
}

func belowHundred(n int64) string {
	if n < 20 {
		return ones[n]
	}
	if n%10 == 0 {
		return tens[n/10]
	}
	return tens[n/10] + " " + ones[n%10]
}
