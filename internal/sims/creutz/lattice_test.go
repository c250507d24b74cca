package creutz

import "testing"

func TestLatticeGroundState(t *testing.T) {
	l := NewLattice(4, 5)
	if l.X() != 4 || l.Y() != 5 || l.Sites() != 20 {
		t.Fatalf("unexpected dimensions %dx%d (%d sites)", l.X(), l.Y(), l.Sites())
	}
	if m := l.Magnetization(); m != 1.0 {
		t.Fatalf("ground state magnetization = %f, expected 1", m)
	}
	if got := l.LocalFieldSum(0, 0); got != 4 {
		t.Fatalf("corner field sum = %d, expected 4", got)
	}
	if got := l.FlipEnergy(2, 3, 1); got != 8 {
		t.Fatalf("flip energy = %d, expected 8", got)
	}
	if got := l.Energy(1); got != -40 {
		t.Fatalf("ground energy = %d, expected -40", got)
	}
}

func TestLatticePeriodicNeighbours(t *testing.T) {
	l := NewLattice(3, 4)
	// Flip the wrapped neighbours of (0, 0): up (2,0), down (1,0), left (0,3), right (0,1).
	l.Flip(2, 0)
	l.Flip(0, 3)
	if got := l.LocalFieldSum(0, 0); got != 0 {
		t.Fatalf("field sum = %d, expected 0 after flipping two wrapped neighbours", got)
	}
	l.Flip(1, 0)
	l.Flip(0, 1)
	if got := l.LocalFieldSum(0, 0); got != -4 {
		t.Fatalf("field sum = %d, expected -4", got)
	}
	if got := l.FlipEnergy(0, 0, 1); got != -8 {
		t.Fatalf("flip energy = %d, expected -8", got)
	}
}

func TestLatticeFlipAndMagnetization(t *testing.T) {
	l := NewLattice(2, 2)
	l.Flip(0, 0)
	if l.Spin(0, 0) != -1 {
		t.Fatal("flip should invert the spin")
	}
	if m := l.Magnetization(); m != 0.5 {
		t.Fatalf("magnetization = %f, expected 0.5", m)
	}
	l.Flip(0, 0)
	if m := l.Magnetization(); m != 1.0 {
		t.Fatalf("magnetization = %f, expected 1", m)
	}
}

func TestLatticeCouplingScalesFlipEnergy(t *testing.T) {
	l := NewLattice(3, 3)
	if got := l.FlipEnergy(1, 1, 3); got != 24 {
		t.Fatalf("flip energy with J=3 = %d, expected 24", got)
	}
}
