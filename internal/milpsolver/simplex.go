package milpsolver

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	bigM    = 1e9
	epsilon = 1e-7
)

// bound is a variable's effective [lo, hi] bound for this relaxation; hi
// may be +Inf.
type bound struct {
	lo, hi float64
}

// normalizeRHS flips a constraint's sign so its rhs is non-negative,
// swapping <=/>= as needed; = constraints are returned unchanged except
// for the sign flip. This must run before extra (slack/surplus/artificial)
// columns are counted, since a sign flip can change which kind of column a
// row needs.
func normalizeRHS(r constraint) constraint {
	if r.rhs >= 0 {
		return r
	}
	flipped := make(map[int]float64, len(r.coeffs))
	for k, v := range r.coeffs {
		flipped[k] = -v
	}
	op := r.op
	switch op {
	case opLE:
		op = opGE
	case opGE:
		op = opLE
	}
	return constraint{coeffs: flipped, op: op, rhs: -r.rhs}
}

// relax solves the LP relaxation of p with the given per-variable bound
// overrides (branch-and-bound tightens these away from the declared [0,ub]
// default) via a dense Big-M simplex tableau built on a gonum matrix.
func relax(p *Problem, overrides map[int]bound) ([]float64, float64, bool, error) {
	n := p.NumVars()
	bounds := make([]bound, n)
	for i := 0; i < n; i++ {
		bounds[i] = bound{lo: 0, hi: p.ub[i]}
	}
	for i, b := range overrides {
		bounds[i] = b
	}

	rows := make([]constraint, 0, len(p.cons)+2*n)
	for _, c := range p.cons {
		rows = append(rows, normalizeRHS(c))
	}
	for i := 0; i < n; i++ {
		if bounds[i].lo > epsilon {
			rows = append(rows, normalizeRHS(constraint{coeffs: map[int]float64{i: 1}, op: opGE, rhs: bounds[i].lo}))
		}
		if !math.IsInf(bounds[i].hi, 1) {
			rows = append(rows, normalizeRHS(constraint{coeffs: map[int]float64{i: 1}, op: opLE, rhs: bounds[i].hi}))
		}
	}

	m := len(rows)
	if m == 0 {
		values := make([]float64, n)
		return values, 0, true, nil
	}

	// Column layout: [0,n) structural, then one or two extra columns per
	// row (slack for <=, surplus+artificial for >=, artificial for =).
	extraCols := 0
	for _, r := range rows {
		switch r.op {
		case opLE:
			extraCols++
		case opGE:
			extraCols += 2
		case opEQ:
			extraCols++
		}
	}
	totalCols := n + extraCols + 1 // +1 rhs
	tab := mat.NewDense(m+1, totalCols, nil)

	basis := make([]int, m)
	artificialCols := map[int]bool{}

	col := n
	for i, r := range rows {
		for j, c := range r.coeffs {
			if c != 0 {
				tab.Set(i, j, c)
			}
		}
		rhs := r.rhs
		switch r.op {
		case opLE:
			tab.Set(i, col, 1)
			basis[i] = col
			col++
		case opGE:
			tab.Set(i, col, -1) // surplus
			col++
			tab.Set(i, col, 1) // artificial
			basis[i] = col
			artificialCols[col] = true
			col++
		case opEQ:
			tab.Set(i, col, 1) // artificial
			basis[i] = col
			artificialCols[col] = true
			col++
		}
		tab.Set(i, totalCols-1, rhs)
	}

	sense := 1.0
	if p.sense == Maximize {
		sense = -1.0
	}
	zRow := m
	for j, c := range p.objCoeffs {
		tab.Set(zRow, j, sense*c)
	}
	for ac := range artificialCols {
		tab.Set(zRow, ac, bigM)
	}
	for i := 0; i < m; i++ {
		if artificialCols[basis[i]] {
			for j := 0; j < totalCols; j++ {
				tab.Set(zRow, j, tab.At(zRow, j)-bigM*tab.At(i, j))
			}
		}
	}

	const maxIter = 20000
	for iter := 0; iter < maxIter; iter++ {
		pivotCol := -1
		best := -epsilon
		for j := 0; j < totalCols-1; j++ {
			v := tab.At(zRow, j)
			if v < best {
				best = v
				pivotCol = j
			}
		}
		if pivotCol == -1 {
			break
		}

		pivotRow := -1
		bestRatio := math.Inf(1)
		for i := 0; i < m; i++ {
			a := tab.At(i, pivotCol)
			if a <= epsilon {
				continue
			}
			ratio := tab.At(i, totalCols-1) / a
			if ratio < bestRatio-epsilon || (ratio < bestRatio+epsilon && (pivotRow == -1 || basis[i] < basis[pivotRow])) {
				bestRatio = ratio
				pivotRow = i
			}
		}
		if pivotRow == -1 {
			return nil, 0, false, fmt.Errorf("milpsolver: unbounded relaxation (%s)", p.describe())
		}

		pivotVal := tab.At(pivotRow, pivotCol)
		for j := 0; j < totalCols; j++ {
			tab.Set(pivotRow, j, tab.At(pivotRow, j)/pivotVal)
		}
		for i := 0; i <= m; i++ {
			if i == pivotRow {
				continue
			}
			factor := tab.At(i, pivotCol)
			if factor == 0 {
				continue
			}
			for j := 0; j < totalCols; j++ {
				tab.Set(i, j, tab.At(i, j)-factor*tab.At(pivotRow, j))
			}
		}
		basis[pivotRow] = pivotCol
	}

	for i := 0; i < m; i++ {
		if artificialCols[basis[i]] && tab.At(i, totalCols-1) > 1e-5 {
			return nil, 0, false, nil
		}
	}

	values := make([]float64, n)
	for i := 0; i < m; i++ {
		if basis[i] < n {
			values[basis[i]] = tab.At(i, totalCols-1)
		}
	}

	obj := 0.0
	for j, c := range p.objCoeffs {
		obj += c * values[j]
	}
	return values, obj, true, nil
}
