package utils

import (
	"math"
)

type Fl = float64

func MinInt(x, y int) int {
	if x < y {
		return x
	}
	return y
}

func MaxInt(x, y int) int {
	if x > y {
		return x
	}
	return y
}

func MinF(x, y Fl) Fl {
	if x < y {
		return x
	}
	return y
}

func MaxF(x, y Fl) Fl {
	if x > y {
		return x
	}
	return y
}

// Clamp restricts [v] to [lo, hi].
func Clamp(v, lo, hi Fl) Fl {
	return MaxF(lo, MinF(hi, v))
}

// IsFinite returns false for NaN and infinities.
func IsFinite(f Fl) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// RoundPrec rounds f with n digits precision
func RoundPrec(f Fl, n int) Fl {
	n10 := math.Pow10(n)
	return math.Round(f*n10) / n10
}

// Round rounds f with 6 digits precision
func Round(f Fl) Fl {
	return RoundPrec(f, 6)
}
