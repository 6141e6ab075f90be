package xmath

import "testing"

func approxEqual(a, b, eps float64) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d <= eps
}

func TestVec3Operations(t *testing.T) {
	v1 := NewVec3(1, 2, 3)
	v2 := NewVec3(4, 5, 6)

	if got := v1.Add(v2); got != NewVec3(5, 7, 9) {
		t.Errorf("Add: got %v", got)
	}
	if got := v2.Sub(v1); got != NewVec3(3, 3, 3) {
		t.Errorf("Sub: got %v", got)
	}
	if got := v1.Mul(2); got != NewVec3(2, 4, 6) {
		t.Errorf("Mul: got %v", got)
	}
	if got := v1.Dot(v2); got != 32 {
		t.Errorf("Dot: expected 32, got %v", got)
	}
	if got := Vec3Right.Cross(Vec3Up); got != Vec3Back {
		t.Errorf("Cross: got %v", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := NewVec3(3, 0, 0)
	n := v.Normalize()
	if !approxEqual(n.Length(), 1, 1e-12) {
		t.Errorf("expected unit length, got %v", n.Length())
	}
}

func TestQuadraticTwoRoots(t *testing.T) {
	// (t - 2)(t - 5) = t^2 - 7t + 10
	roots := Quadratic{A: 1, B: -7, C: 10}.Solve()
	if len(roots) != 2 {
		t.Fatalf("expected 2 roots, got %d", len(roots))
	}
	if !approxEqual(roots[0], 2, 1e-9) || !approxEqual(roots[1], 5, 1e-9) {
		t.Errorf("expected {2, 5} ascending, got %v", roots)
	}
}

func TestQuadraticOneRoot(t *testing.T) {
	// (t - 3)^2 = t^2 - 6t + 9
	roots := Quadratic{A: 1, B: -6, C: 9}.Solve()
	if len(roots) != 1 {
		t.Fatalf("expected 1 root, got %d", len(roots))
	}
	if !approxEqual(roots[0], 3, 1e-9) {
		t.Errorf("expected 3, got %v", roots[0])
	}
}

func TestQuadraticNoRoots(t *testing.T) {
	// t^2 + 1 = 0
	roots := Quadratic{A: 1, B: 0, C: 1}.Solve()
	if roots != nil {
		t.Errorf("expected no roots, got %v", roots)
	}
}

func TestMat4InverseRoundTrip(t *testing.T) {
	m := Mat4Translation(NewVec3(1, 2, 3)).Mul(Mat4RotationY(0.7)).Mul(Mat4Scale(NewVec3(2, 3, 4)))
	inv, ok := m.Inverse()
	if !ok {
		t.Fatal("expected invertible matrix")
	}
	p := NewVec3(5, -1, 2)
	roundTrip := inv.TransformPoint(m.TransformPoint(p))
	if !approxEqual(roundTrip.Distance(p), 0, 1e-9) {
		t.Errorf("round trip mismatch: got %v want %v", roundTrip, p)
	}
}

func TestMat4IdentityInverse(t *testing.T) {
	inv, ok := Mat4Identity().Inverse()
	if !ok || inv != Mat4Identity() {
		t.Errorf("identity inverse should be identity, got %v", inv)
	}
}
