package smt_test

import (
	"testing"

	"pgregory.net/rapid"

	"github.com/cfmtoolbox/cfm-core/pkg/smt"
)

func TestSolver_SatisfiableLinearSystem(t *testing.T) {
	s := smt.NewSolver()
	x, err := s.DeclareInt("x", 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	y, err := s.DeclareInt("y", 0, 10)
	if err != nil {
		t.Fatal(err)
	}

	s.AddLinear(smt.Eq(smt.Add(x, y), smt.Const(7)))
	s.AddLinear(smt.Ge(x, smt.Const(3)))

	if !s.Check() {
		t.Fatal("expected satisfiable")
	}
	model := s.Model()
	if model["x"]+model["y"] != 7 {
		t.Errorf("model violates x+y=7: %v", model)
	}
	if model["x"] < 3 {
		t.Errorf("model violates x>=3: %v", model)
	}
}

func TestSolver_UnsatisfiableSystem(t *testing.T) {
	s := smt.NewSolver()
	x, _ := s.DeclareInt("x", 0, 5)

	s.AddLinear(smt.Ge(x, smt.Const(10)))

	if s.Check() {
		t.Fatal("expected unsatisfiable")
	}
	if s.Model() != nil {
		t.Error("expected nil model after failed check")
	}
}

func TestSolver_PushPop(t *testing.T) {
	s := smt.NewSolver()
	x, _ := s.DeclareInt("x", 0, 10)

	s.AddLinear(smt.Le(x, smt.Const(10)))
	if !s.Check() {
		t.Fatal("expected satisfiable before push")
	}

	s.Push()
	s.AddLinear(smt.Ge(x, smt.Const(100)))
	if s.Check() {
		t.Fatal("expected unsatisfiable after pushing an impossible constraint")
	}

	if err := s.Pop(); err != nil {
		t.Fatalf("Pop: %v", err)
	}
	if !s.Check() {
		t.Fatal("expected satisfiable again after pop")
	}
}

func TestSolver_PopWithoutPushErrors(t *testing.T) {
	s := smt.NewSolver()
	if err := s.Pop(); err == nil {
		t.Fatal("expected error popping the base frame")
	}
}

func TestSolver_DuplicateDeclarationErrors(t *testing.T) {
	s := smt.NewSolver()
	if _, err := s.DeclareInt("x", 0, 1); err != nil {
		t.Fatal(err)
	}
	if _, err := s.DeclareInt("x", 0, 1); err == nil {
		t.Fatal("expected error on duplicate declaration")
	}
}

func TestSolver_Implies(t *testing.T) {
	s := smt.NewSolver()
	wheat, _ := s.DeclareInt("wheat", 0, 1)
	tomato, _ := s.DeclareInt("tomato", 0, 1)

	s.AddLinear(smt.Implies(smt.Eq(wheat, smt.Const(1)), smt.Eq(tomato, smt.Const(1))))
	s.AddLinear(smt.Eq(wheat, smt.Const(1)))

	if !s.Check() {
		t.Fatal("expected satisfiable")
	}
	if s.Model()["tomato"] != 1 {
		t.Errorf("implication not enforced: %v", s.Model())
	}
}

// TestProperty_SolutionsSatisfyEveryAssertion checks that whatever model
// Check produces actually evaluates true against every active assertion,
// for a family of randomly generated two-variable linear systems.
func TestProperty_SolutionsSatisfyEveryAssertion(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		bound := rapid.Int64Range(1, 8).Draw(t, "bound")
		target := rapid.Int64Range(0, bound*2).Draw(t, "target")

		s := smt.NewSolver()
		x, _ := s.DeclareInt("x", 0, bound)
		y, _ := s.DeclareInt("y", 0, bound)
		constraint := smt.Eq(smt.Add(x, y), smt.Const(target))
		s.AddLinear(constraint)

		if s.Check() {
			model := s.Model()
			if !constraint.Eval(model) {
				t.Fatalf("model %v does not satisfy asserted constraint", model)
			}
		}
	})
}
