package milpsolver

import (
	"math"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestSolveSimpleLP(t *testing.T) {
	Convey("minimize x+y subject to x+2y>=10, x>=0, y>=0", t, func() {
		p := NewProblem()
		x := p.AddVar("x", math.Inf(1))
		y := p.AddVar("y", math.Inf(1))
		p.AddGE(map[int]float64{x: 1, y: 2}, 10)
		p.SetObjective(map[int]float64{x: 1, y: 1}, Minimize)

		sol, err := p.Solve(0)
		So(err, ShouldBeNil)
		So(sol.Objective, ShouldAlmostEqual, 5, 1e-4)
	})
}

func TestSolveBinaryDisjunction(t *testing.T) {
	Convey("big-M disjunction forces one ordering", t, func() {
		p := NewProblem()
		s1 := p.AddVar("s1", math.Inf(1))
		s2 := p.AddVar("s2", math.Inf(1))
		y := p.AddBinaryVar("y")

		const m = 1000.0
		// s1 >= s2 + 5 - M(1-y)  =>  -s1 + s2 + M*y <= M - 5
		p.AddLE(map[int]float64{s1: -1, s2: 1, y: m}, m-5)
		// s2 >= s1 + 5 - M*y  =>  s1 - s2 - M*y <= -5
		p.AddLE(map[int]float64{s1: 1, s2: -1, y: -m}, -5)
		p.SetObjective(map[int]float64{s1: 1, s2: 1}, Minimize)

		sol, err := p.Solve(5 * time.Second)
		So(err, ShouldBeNil)
		diff := math.Abs(sol.Value(s1) - sol.Value(s2))
		So(diff, ShouldBeGreaterThanOrEqualTo, 5-1e-3)
	})
}

func TestSolveInfeasible(t *testing.T) {
	Convey("contradictory bounds report infeasible", t, func() {
		p := NewProblem()
		x := p.AddVar("x", 5)
		p.AddGE(map[int]float64{x: 1}, 10)
		p.SetObjective(map[int]float64{x: 1}, Minimize)

		_, err := p.Solve(0)
		So(err, ShouldEqual, ErrInfeasible)
	})
}
