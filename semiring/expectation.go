package semiring

import (
	"fmt"
	"math"
)

// Pair is the weight type of the expectation semirings: a probability P
// together with an accumulated additive quantity R.
type Pair struct {
	P, R float64
}

func (p Pair) String() string {
	return fmt.Sprintf("⟨%.6g, %.6g⟩", p.P, p.R)
}

// Expectation is the first-order expectation semiring over pairs, with
//
//    (p₁,r₁) ⊕ (p₂,r₂) = (p₁+p₂, r₁+r₂)
//    (p₁,r₁) ⊗ (p₂,r₂) = (p₁p₂, p₁r₂ + r₁p₂)
//
// For a grammar with rule weights (p, p·r) the total weight of a string is
// (Σ p_d, Σ p_d·r_d), summing over derivations d with additive rule values r.
type Expectation struct{}

var _ Scaler[Pair] = Expectation{}

func (Expectation) Name() string         { return "expectation" }
func (Expectation) Zero() Pair           { return Pair{} }
func (Expectation) One() Pair            { return Pair{P: 1} }
func (Expectation) IsZero(a Pair) bool   { return a.P == 0 && a.R == 0 }
func (Expectation) Caps() Capability     { return Closed | Divisible | Rescalable }
func (Expectation) Format(a Pair) string { return a.String() }

func (Expectation) Add(a, b Pair) Pair {
	return Pair{P: a.P + b.P, R: a.R + b.R}
}

func (Expectation) Mul(a, b Pair) Pair {
	return Pair{P: a.P * b.P, R: a.P*b.R + a.R*b.P}
}

// Star is (p*, p*·r·p*) with p* = 1/(1−p).
func (e Expectation) Star(a Pair) (Pair, error) {
	ps, err := Float{}.Star(a.P)
	if err != nil {
		return Pair{}, divergent(e.Name(), a)
	}
	return Pair{P: ps, R: ps * a.R * ps}, nil
}

// Div is the inverse of ⊗: (a ⊘ b) ⊗ b = a.
func (e Expectation) Div(a, b Pair) (Pair, error) {
	if b.P == 0 {
		return Pair{}, divByZero(e.Name())
	}
	return Pair{P: a.P / b.P, R: (a.R*b.P - a.P*b.R) / (b.P * b.P)}, nil
}

// Ln is the natural logarithm of the probability component.
func (Expectation) Ln(a Pair) float64 { return math.Log(math.Abs(a.P)) }

// Exp is (eˣ, 0).
func (Expectation) Exp(x float64) Pair { return Pair{P: math.Exp(x)} }

func (Expectation) ApproxEqual(a, b Pair, tol float64) bool {
	return approx(a.P, b.P, tol) && approx(a.R, b.R, tol)
}

// Entropy is the expectation semiring with rule weights lifted to
// (p, p·log₂ p). The total weight (Z, r) of a string then yields the entropy
// of its derivation distribution as H = log₂ Z − r/Z.
type Entropy struct {
	Expectation
}

var _ Lifter[Pair] = Entropy{}

func (Entropy) Name() string { return "entropy" }

// Lift is (p, p·log₂ p).
func (Entropy) Lift(p float64) Pair {
	if p == 0 {
		return Pair{}
	}
	return Pair{P: p, R: p * math.Log2(p)}
}

// Star reports errors under the name of Entropy.
func (e Entropy) Star(a Pair) (Pair, error) {
	ps, err := Float{}.Star(a.P)
	if err != nil {
		return Pair{}, divergent(e.Name(), a)
	}
	return Pair{P: ps, R: ps * a.R * ps}, nil
}

// H returns the entropy in bits of the derivation distribution a total weight
// stands for.
func (Entropy) H(a Pair) float64 {
	if a.P == 0 {
		return 0
	}
	return math.Log2(a.P) - a.R/a.P
}
