package semiring

import (
	"fmt"
	"math"

	"github.com/npillmayer/wcfg"
)

// Capability is a set of flags a semiring announces to algorithms.
type Capability uint8

// Capabilities of semirings.
const (
	Closed     Capability = 1 << iota // Kleene-star is available
	Divisible                         // implements Divider
	Idempotent                        // a ⊕ a = a
	Rescalable                        // implements Scaler
)

// Has is true if all of cap's flags are set in c.
func (c Capability) Has(cap Capability) bool {
	return c&cap == cap
}

func (c Capability) String() string {
	s := ""
	for _, f := range []struct {
		c Capability
		n string
	}{{Closed, "closed"}, {Divisible, "divisible"}, {Idempotent, "idempotent"}, {Rescalable, "rescalable"}} {
		if c.Has(f.c) {
			if s != "" {
				s += "|"
			}
			s += f.n
		}
	}
	if s == "" {
		return "none"
	}
	return s
}

// Semiring is the algebra weights of type W live in. Implementations are
// stateless and safe for concurrent use.
type Semiring[W any] interface {
	Name() string
	Zero() W
	One() W
	Add(a, b W) W
	Mul(a, b W) W
	// Star returns a* = 1̄ ⊕ a ⊕ a⊗a ⊕ …, or an error wrapping
	// wcfg.ErrUnsupportedOperation for non-closed semirings and divergent sums.
	Star(a W) (W, error)
	IsZero(a W) bool
	ApproxEqual(a, b W, tol float64) bool
	Caps() Capability
	Format(a W) string
}

// Divider is implemented by semirings supporting division.
type Divider[W any] interface {
	// Div returns a ⊘ b. Division by 0̄ is an error.
	Div(a, b W) (W, error)
}

// Scaler is implemented by semirings which are able to rescale weights.
// Ln maps a weight onto the natural logarithm of its magnitude, Exp is the
// inverse mapping. For all scalers, Exp(Ln(a)+Ln(b)) ≈ a ⊗ b.
type Scaler[W any] interface {
	Divider[W]
	Ln(a W) float64
	Exp(x float64) W
}

// Lifter is implemented by semirings which can represent a probability.
type Lifter[W any] interface {
	Lift(p float64) W
}

// Sum folds weights with ⊕.
func Sum[W any](sr Semiring[W], ws ...W) W {
	acc := sr.Zero()
	for _, w := range ws {
		acc = sr.Add(acc, w)
	}
	return acc
}

// Product folds weights with ⊗.
func Product[W any](sr Semiring[W], ws ...W) W {
	acc := sr.One()
	for _, w := range ws {
		if sr.IsZero(w) {
			return sr.Zero()
		}
		acc = sr.Mul(acc, w)
	}
	return acc
}

// Divide returns a ⊘ b for divisible semirings and ErrUnsupportedOperation
// otherwise.
func Divide[W any](sr Semiring[W], a, b W) (W, error) {
	if d, ok := sr.(Divider[W]); ok {
		return d.Div(a, b)
	}
	return sr.Zero(), wcfg.Unsupported("semiring %s does not support division", sr.Name())
}

// Lift turns a probability into a weight of sr, or reports an error if sr
// cannot represent probabilities.
func Lift[W any](sr Semiring[W], p float64) (W, error) {
	if l, ok := sr.(Lifter[W]); ok {
		return l.Lift(p), nil
	}
	return sr.Zero(), wcfg.Unsupported("semiring %s cannot lift probabilities", sr.Name())
}

func approx(a, b, tol float64) bool {
	if a == b { // covers infinities
		return true
	}
	if math.IsInf(a, 0) || math.IsInf(b, 0) || math.IsNaN(a) || math.IsNaN(b) {
		return false
	}
	d := math.Abs(a - b)
	if d <= tol {
		return true
	}
	m := math.Max(math.Abs(a), math.Abs(b))
	return d <= tol*m
}

func divergent(name string, a interface{}) error {
	return wcfg.Unsupported("star of %v diverges in semiring %s", a, name)
}

func divByZero(name string) error {
	return fmt.Errorf("%w: division by zero in semiring %s", wcfg.ErrUnsupportedOperation, name)
}
