package semiring

import (
	"fmt"
	"math"
)

// --- Boolean ---------------------------------------------------------------

// Boolean is the recognition semiring ({false,true}, ∨, ∧, false, true).
type Boolean struct{}

var _ Semiring[bool] = Boolean{}

func (Boolean) Name() string              { return "boolean" }
func (Boolean) Zero() bool                { return false }
func (Boolean) One() bool                 { return true }
func (Boolean) Add(a, b bool) bool        { return a || b }
func (Boolean) Mul(a, b bool) bool        { return a && b }
func (Boolean) Star(a bool) (bool, error) { return true, nil }
func (Boolean) IsZero(a bool) bool        { return !a }
func (Boolean) Caps() Capability          { return Closed | Idempotent }
func (Boolean) Format(a bool) string      { return fmt.Sprintf("%v", a) }

// ApproxEqual is equality for Booleans.
func (Boolean) ApproxEqual(a, b bool, tol float64) bool { return a == b }

// Lift maps a probability to true if it is non-zero.
func (Boolean) Lift(p float64) bool { return p != 0 }

// --- Float -----------------------------------------------------------------

// Float is the real semiring (ℝ, +, ·, 0, 1) over float64.
type Float struct{}

// Real is an alias for Float.
type Real = Float

var _ Scaler[float64] = Float{}

func (Float) Name() string             { return "float" }
func (Float) Zero() float64            { return 0 }
func (Float) One() float64             { return 1 }
func (Float) Add(a, b float64) float64 { return a + b }
func (Float) Mul(a, b float64) float64 { return a * b }
func (Float) IsZero(a float64) bool    { return a == 0 }
func (Float) Caps() Capability         { return Closed | Divisible | Rescalable }
func (Float) Format(a float64) string  { return fmt.Sprintf("%.6g", a) }
func (Float) Lift(p float64) float64   { return p }
func (Float) Ln(a float64) float64     { return math.Log(math.Abs(a)) }
func (Float) Exp(x float64) float64    { return math.Exp(x) }

// ApproxEqual compares a and b up to tolerance tol, absolute or relative.
func (Float) ApproxEqual(a, b float64, tol float64) bool { return approx(a, b, tol) }

// Star is 1/(1−a), defined for a < 1.
func (f Float) Star(a float64) (float64, error) {
	if a >= 1 {
		return 0, divergent(f.Name(), a)
	}
	return 1 / (1 - a), nil
}

// Div is a/b.
func (f Float) Div(a, b float64) (float64, error) {
	if b == 0 {
		return 0, divByZero(f.Name())
	}
	return a / b, nil
}

// --- Log -------------------------------------------------------------------

// Log is the log semiring (ℝ ∪ {−∞}, logaddexp, +, −∞, 0). Weights are natural
// logarithms of probabilities.
type Log struct{}

var _ Scaler[float64] = Log{}

func (Log) Name() string            { return "log" }
func (Log) Zero() float64           { return math.Inf(-1) }
func (Log) One() float64            { return 0 }
func (Log) IsZero(a float64) bool   { return math.IsInf(a, -1) }
func (Log) Caps() Capability        { return Closed | Divisible | Rescalable }
func (Log) Format(a float64) string { return fmt.Sprintf("%.6g", a) }
func (Log) Lift(p float64) float64  { return math.Log(p) }
func (Log) Ln(a float64) float64    { return a }
func (Log) Exp(x float64) float64   { return x }

// ApproxEqual compares a and b up to tolerance tol, absolute or relative.
func (Log) ApproxEqual(a, b float64, tol float64) bool { return approx(a, b, tol) }

// Add is log(exp(a) + exp(b)), computed without leaving log space.
func (Log) Add(a, b float64) float64 {
	if math.IsInf(a, -1) {
		return b
	}
	if math.IsInf(b, -1) {
		return a
	}
	if a < b {
		a, b = b, a
	}
	return a + math.Log1p(math.Exp(b-a))
}

func (Log) Mul(a, b float64) float64 {
	if math.IsInf(a, -1) || math.IsInf(b, -1) {
		return math.Inf(-1)
	}
	return a + b
}

// Star is −log(1 − exp(a)), defined for a < 0.
func (l Log) Star(a float64) (float64, error) {
	if a >= 0 {
		return 0, divergent(l.Name(), a)
	}
	return -math.Log1p(-math.Exp(a)), nil
}

// Div is a − b.
func (l Log) Div(a, b float64) (float64, error) {
	if math.IsInf(b, -1) {
		return 0, divByZero(l.Name())
	}
	if math.IsInf(a, -1) {
		return a, nil
	}
	return a - b, nil
}

// --- MaxPlus ---------------------------------------------------------------

// MaxPlus is the tropical semiring (ℝ ∪ {−∞}, max, +, −∞, 0).
type MaxPlus struct{}

var _ Divider[float64] = MaxPlus{}

func (MaxPlus) Name() string             { return "maxplus" }
func (MaxPlus) Zero() float64            { return math.Inf(-1) }
func (MaxPlus) One() float64             { return 0 }
func (MaxPlus) Add(a, b float64) float64 { return math.Max(a, b) }
func (MaxPlus) IsZero(a float64) bool    { return math.IsInf(a, -1) }
func (MaxPlus) Caps() Capability         { return Closed | Divisible | Idempotent }
func (MaxPlus) Format(a float64) string  { return fmt.Sprintf("%.6g", a) }
func (MaxPlus) Lift(p float64) float64   { return math.Log(p) }

// ApproxEqual compares a and b up to tolerance tol, absolute or relative.
func (MaxPlus) ApproxEqual(a, b float64, tol float64) bool { return approx(a, b, tol) }

func (MaxPlus) Mul(a, b float64) float64 {
	if math.IsInf(a, -1) || math.IsInf(b, -1) {
		return math.Inf(-1)
	}
	return a + b
}

// Star is 0 for a ≤ 0, and +∞ otherwise.
func (MaxPlus) Star(a float64) (float64, error) {
	if a <= 0 {
		return 0, nil
	}
	return math.Inf(1), nil
}

// Div is a − b.
func (m MaxPlus) Div(a, b float64) (float64, error) {
	if math.IsInf(b, -1) {
		return 0, divByZero(m.Name())
	}
	if math.IsInf(a, -1) {
		return a, nil
	}
	return a - b, nil
}

// --- MaxTimes --------------------------------------------------------------

// MaxTimes is the Viterbi semiring ([0,∞), max, ·, 0, 1).
type MaxTimes struct{}

var _ Divider[float64] = MaxTimes{}

func (MaxTimes) Name() string             { return "maxtimes" }
func (MaxTimes) Zero() float64            { return 0 }
func (MaxTimes) One() float64             { return 1 }
func (MaxTimes) Add(a, b float64) float64 { return math.Max(a, b) }
func (MaxTimes) Mul(a, b float64) float64 { return a * b }
func (MaxTimes) IsZero(a float64) bool    { return a == 0 }
func (MaxTimes) Caps() Capability         { return Closed | Divisible | Idempotent }
func (MaxTimes) Format(a float64) string  { return fmt.Sprintf("%.6g", a) }
func (MaxTimes) Lift(p float64) float64   { return p }

// ApproxEqual compares a and b up to tolerance tol, absolute or relative.
func (MaxTimes) ApproxEqual(a, b float64, tol float64) bool { return approx(a, b, tol) }

// Star is 1 for a ≤ 1, and +∞ otherwise.
func (MaxTimes) Star(a float64) (float64, error) {
	if a <= 1 {
		return 1, nil
	}
	return math.Inf(1), nil
}

// Div is a/b.
func (m MaxTimes) Div(a, b float64) (float64, error) {
	if b == 0 {
		return 0, divByZero(m.Name())
	}
	return a / b, nil
}
