package trie

import "testing"

func TestExactGet(t *testing.T) {
	tr := New[int]()
	tr.Insert("-emit-module", 1)
	tr.Insert("-emit-module-path", 2)

	v, ok := tr.Get("-emit-module")
	if !ok || v != 1 {
		t.Fatalf("Get(-emit-module) = (%d, %v), want (1, true)", v, ok)
	}

	if _, ok := tr.Get("-emit-mod"); ok {
		t.Fatal("Get(-emit-mod) should miss: no exact key inserted")
	}
}

func TestLongestPrefix(t *testing.T) {
	tr := New[string]()
	tr.Insert("-emit-module", "emit_module")
	tr.Insert("-emit-module-path", "emit_module_path")
	tr.Insert("-emit", "emit")

	v, length, ok := tr.LongestPrefix("-emit-module-path=/tmp/a.swiftmodule")
	if !ok {
		t.Fatal("expected a match")
	}
	if v != "emit_module_path" {
		t.Errorf("value = %q, want emit_module_path", v)
	}
	if length != len("-emit-module-path") {
		t.Errorf("matched length = %d, want %d", length, len("-emit-module-path"))
	}
}

func TestLongestPrefixNoMatch(t *testing.T) {
	tr := New[int]()
	tr.Insert("-foo", 1)

	if _, _, ok := tr.LongestPrefix("-bar"); ok {
		t.Fatal("expected no match")
	}
}

func TestLenTracksDistinctKeys(t *testing.T) {
	tr := New[int]()
	tr.Insert("-a", 1)
	tr.Insert("-a", 2)
	tr.Insert("-b", 3)

	if tr.Len() != 2 {
		t.Errorf("Len() = %d, want 2", tr.Len())
	}
}
