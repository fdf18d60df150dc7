package prng

import "testing"

func TestSameSeedSameSequence(t *testing.T) {
	a := New(42).Permutation(10)
	b := New(42).Permutation(10)

	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("permutation diverged at index %d: %v vs %v", i, a, b)
		}
	}
}

func TestDifferentSeedsDiffer(t *testing.T) {
	a := New(1).Permutation(20)
	b := New(2).Permutation(20)

	same := true
	for i := range a {
		if a[i] != b[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatal("expected different seeds to produce different permutations")
	}
}

func TestPermutationIsBijection(t *testing.T) {
	perm := New(7).Permutation(50)
	seen := make([]bool, 50)
	for _, v := range perm {
		if v < 0 || v >= 50 || seen[v] {
			t.Fatalf("permutation is not a bijection: %v", perm)
		}
		seen[v] = true
	}
}
