// Package milpsolver is a narrow linear/mixed-integer programming
// capability: add_var, add_le/add_ge/add_eq, set_obj, solve(time_limit).
// No solver-vendor concepts leak past this package; callers build a
// Problem, call Solve, and read back a Solution keyed by variable index.
//
// The LP relaxation is a dense Big-M simplex built on gonum's matrix type;
// integrality over the declared binary variables is enforced by a
// depth-first branch-and-bound search.
package milpsolver

import (
	"fmt"
	"math"

	log "gopkg.in/inconshreveable/log15.v2"
)

var logger log.Logger

// InitializeLogger binds this package's logger to a parent.
func InitializeLogger(parent log.Logger) {
	logger = parent.New("module", "milpsolver")
}

func init() {
	logger = log.New("module", "milpsolver")
}

// Sense is the optimization direction.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

type op int

const (
	opLE op = iota
	opGE
	opEQ
)

type constraint struct {
	coeffs map[int]float64
	op     op
	rhs    float64
}

// Problem is a mutable linear/mixed-integer program builder. All
// structural variables are implicitly bounded below by 0; an explicit
// upper bound is recorded per variable and enforced as a constraint row.
type Problem struct {
	names     []string
	ub        []float64
	isBinary  []bool
	cons      []constraint
	objCoeffs map[int]float64
	sense     Sense
}

// NewProblem returns an empty problem.
func NewProblem() *Problem {
	return &Problem{objCoeffs: make(map[int]float64)}
}

// AddVar declares a new continuous variable with lower bound 0 and the
// given upper bound (use math.Inf(1) for unbounded). It returns the
// variable's index for use in constraint/objective coefficient maps.
func (p *Problem) AddVar(name string, ub float64) int {
	p.names = append(p.names, name)
	p.ub = append(p.ub, ub)
	p.isBinary = append(p.isBinary, false)
	return len(p.names) - 1
}

// AddBinaryVar declares a new variable constrained to {0,1}.
func (p *Problem) AddBinaryVar(name string) int {
	idx := p.AddVar(name, 1)
	p.isBinary[idx] = true
	return idx
}

// NumVars returns the number of declared variables.
func (p *Problem) NumVars() int { return len(p.names) }

// AddLE adds a constraint sum(coeffs[i]*x_i) <= rhs.
func (p *Problem) AddLE(coeffs map[int]float64, rhs float64) {
	p.cons = append(p.cons, constraint{coeffs: clone(coeffs), op: opLE, rhs: rhs})
}

// AddGE adds a constraint sum(coeffs[i]*x_i) >= rhs.
func (p *Problem) AddGE(coeffs map[int]float64, rhs float64) {
	p.cons = append(p.cons, constraint{coeffs: clone(coeffs), op: opGE, rhs: rhs})
}

// AddEQ adds a constraint sum(coeffs[i]*x_i) == rhs.
func (p *Problem) AddEQ(coeffs map[int]float64, rhs float64) {
	p.cons = append(p.cons, constraint{coeffs: clone(coeffs), op: opEQ, rhs: rhs})
}

// SetObjective replaces the objective function and its sense.
func (p *Problem) SetObjective(coeffs map[int]float64, sense Sense) {
	p.objCoeffs = clone(coeffs)
	p.sense = sense
}

func clone(m map[int]float64) map[int]float64 {
	out := make(map[int]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Solution is the result of a successful Solve.
type Solution struct {
	Values    []float64
	Objective float64
}

// Value returns the solved value of variable idx, unrounded; use ValueInt
// for whole-second timestamps.
func (s Solution) Value(idx int) float64 {
	return s.Values[idx]
}

// ValueInt returns floor(Value(idx)), matching the extraction rule in the
// scheduling formulation: entry = floor(value(s[t,k])).
func (s Solution) ValueInt(idx int) int {
	return int(math.Floor(s.Values[idx] + 1e-6))
}

func (p *Problem) describe() string {
	return fmt.Sprintf("%d vars, %d constraints", len(p.names), len(p.cons))
}
