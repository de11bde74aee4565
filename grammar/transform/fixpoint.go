package transform

import (
	"github.com/npillmayer/wcfg"
	"github.com/npillmayer/wcfg/grammar"
	"github.com/npillmayer/wcfg/semiring"
	"github.com/npillmayer/wcfg/sparse"
)

// fixpoint computes, for every non-terminal A of g, the least solution of
//
//    x(A) = ⊕ { w ⊗ v(X₁) ⊗ … ⊗ v(Xₖ) | A → X₁…Xₖ @ w }
//
// where v(X) = x(X) for non-terminals and v(a) = terminal(a) for terminals.
// Idempotent semirings are iterated pass by pass and converge after at most
// |N| passes. For other semirings we use Newton's method, which converges
// linearly even for critical grammars, where plain iteration is sublinear.
func fixpoint[W any](g *grammar.Grammar[W], o options, what string, terminal func(string) W) ([]W, error) {
	sr := g.Semiring()
	n := g.NonTerminalCount()
	x := make([]W, n)
	for i := range x {
		x[i] = sr.Zero()
	}
	if sr.Caps().Has(semiring.Idempotent) {
		return jacobi(g, o, what, terminal, x, n+1, 0)
	}
	if !sr.Caps().Has(semiring.Closed) {
		return jacobi(g, o, what, terminal, x, o.maxIterations, o.tolerance)
	}
	return newton(g, o, what, terminal, x)
}

// jacobi recomputes all values from the previous pass, starting at x,
// until no value changes by more than tol.
func jacobi[W any](g *grammar.Grammar[W], o options, what string, terminal func(string) W,
	x []W, limit int, tol float64) ([]W, error) {
	//
	sr := g.Semiring()
	n := len(x)
	for pass := 1; pass <= limit; pass++ {
		next := make([]W, n)
		for id := 0; id < n; id++ {
			acc := sr.Zero()
			for _, r := range g.RulesForID(id) {
				v := r.Weight
				for _, s := range r.Body {
					if sr.IsZero(v) {
						break
					}
					v = sr.Mul(v, valueOf(g, s, x, terminal))
				}
				acc = sr.Add(acc, v)
			}
			next[id] = acc
		}
		converged := true
		for id := range x {
			if !sr.ApproxEqual(x[id], next[id], tol) {
				converged = false
				break
			}
		}
		x = next
		if converged {
			tracer().Debugf("%s of %s converged after %d passes", what, g.Name, pass)
			return x, nil
		}
	}
	tracer().Errorf("%s of %s did not converge after %d passes", what, g.Name, limit)
	return nil, wcfg.Exceeded("%s of grammar %s did not converge after %d passes", what, g.Name, limit)
}

// newton solves the fixpoint system with the subtraction-free variant of
// Newton's method for ω-continuous semirings:
//
//    ν⁽⁰⁾ = 0̄,   δ⁽⁰⁾ = F(0̄)
//    Δ⁽ᵏ⁾ = J(ν⁽ᵏ⁾)* · δ⁽ᵏ⁾
//    ν⁽ᵏ⁺¹⁾ = ν⁽ᵏ⁾ ⊕ Δ⁽ᵏ⁾
//
// where J is the Jacobian of F and δ⁽ᵏ⁺¹⁾ collects the terms of
// F(ν⁽ᵏ⁾ ⊕ Δ⁽ᵏ⁾) which are at least quadratic in Δ⁽ᵏ⁾. Over the reals,
// δ⁽ᵏ⁺¹⁾ = F(ν⁽ᵏ⁺¹⁾) − ν⁽ᵏ⁺¹⁾. If the linear system has no solution, we
// continue with plain iteration from the last approximation.
func newton[W any](g *grammar.Grammar[W], o options, what string, terminal func(string) W, x []W) ([]W, error) {
	sr := g.Semiring()
	n := len(x)
	delta := make([]W, n) // F(0̄): rules without non-terminals in their body
	for id := 0; id < n; id++ {
		delta[id] = sr.Zero()
		for _, r := range g.RulesForID(id) {
			delta[id] = sr.Add(delta[id], orders(g, r, x, x, terminal)[0])
		}
	}
	for step := 1; step <= o.maxIterations; step++ {
		star, err := sparse.Closure(jacobian(g, x, terminal))
		if err != nil {
			tracer().Infof("%s of %s: Newton step %d failed: %v", what, g.Name, step, err)
			return jacobi(g, o, what, terminal, x, o.maxIterations, o.tolerance)
		}
		dx := make([]W, n)
		for id := 0; id < n; id++ {
			acc := sr.Zero()
			star.Row(id, func(j int, w W) {
				acc = sr.Add(acc, sr.Mul(w, delta[j]))
			})
			dx[id] = acc
		}
		next := make([]W, n)
		converged := true
		for id := range x {
			next[id] = sr.Add(x[id], dx[id])
			if converged && !sr.ApproxEqual(x[id], next[id], o.tolerance) {
				converged = false
			}
		}
		if converged {
			tracer().Debugf("%s of %s converged after %d Newton steps", what, g.Name, step)
			return next, nil
		}
		for id := 0; id < n; id++ {
			delta[id] = sr.Zero()
			for _, r := range g.RulesForID(id) {
				delta[id] = sr.Add(delta[id], orders(g, r, x, dx, terminal)[2])
			}
		}
		x = next
	}
	tracer().Errorf("%s of %s did not converge after %d Newton steps", what, g.Name, o.maxIterations)
	return nil, wcfg.Exceeded("%s of grammar %s did not converge after %d passes", what, g.Name, o.maxIterations)
}

// orders expands the monomial of rule r at x ⊕ dx by the number of factors
// taken from dx: the result holds the terms of order 0, order 1, and order 2
// or higher.
func orders[W any](g *grammar.Grammar[W], r *grammar.Rule[W], x, dx []W, terminal func(string) W) [3]W {
	sr := g.Semiring()
	c := [3]W{r.Weight, sr.Zero(), sr.Zero()}
	for _, s := range r.Body {
		if s.IsTerminal() {
			t := terminal(s.Name)
			c = [3]W{sr.Mul(c[0], t), sr.Mul(c[1], t), sr.Mul(c[2], t)}
			continue
		}
		id := g.MustID(s)
		v, d := x[id], dx[id]
		c = [3]W{
			sr.Mul(c[0], v),
			sr.Add(sr.Mul(c[1], v), sr.Mul(c[0], d)),
			sr.Add(sr.Mul(c[2], sr.Add(v, d)), sr.Mul(c[1], d)),
		}
	}
	return c
}

// jacobian returns the matrix of partial derivatives ∂F(A)/∂x(B) at x.
func jacobian[W any](g *grammar.Grammar[W], x []W, terminal func(string) W) *sparse.Matrix[W] {
	sr := g.Semiring()
	n := len(x)
	J := sparse.New(sr, n, n)
	for id := 0; id < n; id++ {
		for _, r := range g.RulesForID(id) {
			k := len(r.Body)
			suffix := make([]W, k+1) // suffix[i] = v(Xᵢ) ⊗ … ⊗ v(Xₖ)
			suffix[k] = sr.One()
			for i := k - 1; i >= 0; i-- {
				suffix[i] = sr.Mul(valueOf(g, r.Body[i], x, terminal), suffix[i+1])
			}
			prefix := r.Weight
			for i, s := range r.Body {
				if !s.IsTerminal() {
					J.Add(id, g.MustID(s), sr.Mul(prefix, suffix[i+1]))
				}
				prefix = sr.Mul(prefix, valueOf(g, s, x, terminal))
			}
		}
	}
	return J
}

func valueOf[W any](g *grammar.Grammar[W], s grammar.Symbol, x []W, terminal func(string) W) W {
	if s.IsTerminal() {
		return terminal(s.Name)
	}
	return x[g.MustID(s)]
}

// NullWeights returns, for every non-terminal A (indexed by ID), the total
// weight null(A) of all derivations of the empty string from A.
func NullWeights[W any](g *grammar.Grammar[W], opts ...Option) ([]W, error) {
	sr := g.Semiring()
	return fixpoint(g, collect(opts), "null weights", func(string) W { return sr.Zero() })
}

// Partition returns, for every non-terminal A (indexed by ID), the total
// weight Z(A) of all derivations from A, over all strings.
func Partition[W any](g *grammar.Grammar[W], opts ...Option) ([]W, error) {
	sr := g.Semiring()
	return fixpoint(g, collect(opts), "partition function", func(string) W { return sr.One() })
}

// nullable returns the set of non-terminal IDs which derive ε with non-zero weight.
func nullable[W any](g *grammar.Grammar[W], null []W) map[int]bool {
	set := make(map[int]bool)
	for id, w := range null {
		if !g.Semiring().IsZero(w) {
			set[id] = true
		}
	}
	return set
}
