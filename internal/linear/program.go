// Package linear describes a linear program over binary decision variables in
// a form any MIP backend can consume: a weighted objective and a list of
// named linear constraints.
package linear

import (
	"fmt"
	"strings"
)

// Var indexes a binary variable of a Program.
type Var int

// Sense is the relation between a constraint's terms and its right-hand side.
type Sense int

const (
	LessOrEqual Sense = iota
	Equal
	GreaterOrEqual
)

func (s Sense) String() string {
	switch s {
	case LessOrEqual:
		return "<="
	case Equal:
		return "="
	case GreaterOrEqual:
		return ">="
	}
	return fmt.Sprintf("Sense(%d)", int(s))
}

// Term is coef * var.
type Term struct {
	Var  Var
	Coef float64
}

// Constraint is Σ terms (sense) RHS.
type Constraint struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Program maximizes or minimizes Σ Objective subject to Constraints. Every
// variable is binary.
type Program struct {
	names       []string
	Objective   []Term
	Maximize    bool
	Constraints []*Constraint
}

// NewVar adds a binary variable and returns its index.
func (p *Program) NewVar(name string) Var {
	p.names = append(p.names, name)
	return Var(len(p.names) - 1)
}

// NumVars is the number of variables added so far.
func (p *Program) NumVars() int { return len(p.names) }

// Name returns the name given to v.
func (p *Program) Name(v Var) string { return p.names[v] }

// Add appends a constraint and returns it so callers can keep adding terms.
func (p *Program) Add(name string, sense Sense, rhs float64) *Constraint {
	c := &Constraint{Name: name, Sense: sense, RHS: rhs}
	p.Constraints = append(p.Constraints, c)
	return c
}

// NewTerm appends coef * v to the constraint.
func (c *Constraint) NewTerm(coef float64, v Var) *Constraint {
	c.Terms = append(c.Terms, Term{Var: v, Coef: coef})
	return c
}

// Activity evaluates Σ terms at values.
func (c *Constraint) Activity(values []float64) float64 {
	total := 0.0
	for _, t := range c.Terms {
		total += t.Coef * values[t.Var]
	}
	return total
}

// Satisfied reports whether values meet the constraint within tol.
func (c *Constraint) Satisfied(values []float64, tol float64) bool {
	act := c.Activity(values)
	switch c.Sense {
	case LessOrEqual:
		return act <= c.RHS+tol
	case GreaterOrEqual:
		return act >= c.RHS-tol
	default:
		return act >= c.RHS-tol && act <= c.RHS+tol
	}
}

// Value evaluates the objective at values.
func (p *Program) Value(values []float64) float64 {
	total := 0.0
	for _, t := range p.Objective {
		total += t.Coef * values[t.Var]
	}
	return total
}

// Violated returns the first constraint values do not satisfy, or nil.
func (p *Program) Violated(values []float64, tol float64) *Constraint {
	for _, c := range p.Constraints {
		if !c.Satisfied(values, tol) {
			return c
		}
	}
	return nil
}

// Fixed collects the variables a single-term equality pins to a value.
func (p *Program) Fixed() map[Var]float64 {
	fixed := make(map[Var]float64)
	for _, c := range p.Constraints {
		if c.Sense == Equal && len(c.Terms) == 1 && c.Terms[0].Coef != 0 {
			fixed[c.Terms[0].Var] = c.RHS / c.Terms[0].Coef
		}
	}
	return fixed
}

// String renders the program in a compact LP-like text, mostly for debug
// logging of small models.
func (p *Program) String() string {
	var sb strings.Builder
	if p.Maximize {
		sb.WriteString("maximize\n ")
	} else {
		sb.WriteString("minimize\n ")
	}
	p.writeTerms(&sb, p.Objective)
	sb.WriteString("\nsubject to\n")
	for _, c := range p.Constraints {
		fmt.Fprintf(&sb, " %s: ", c.Name)
		p.writeTerms(&sb, c.Terms)
		fmt.Fprintf(&sb, " %s %g\n", c.Sense, c.RHS)
	}
	sb.WriteString("binary\n")
	for _, n := range p.names {
		fmt.Fprintf(&sb, " %s", n)
	}
	sb.WriteString("\nend\n")
	return sb.String()
}

func (p *Program) writeTerms(sb *strings.Builder, terms []Term) {
	for i, t := range terms {
		if i > 0 || t.Coef < 0 {
			if t.Coef < 0 {
				sb.WriteString(" - ")
			} else {
				sb.WriteString(" + ")
			}
		}
		coef := t.Coef
		if coef < 0 {
			coef = -coef
		}
		fmt.Fprintf(sb, "%g %s", coef, p.names[t.Var])
	}
}
