package option

import (
	"strings"
	"testing"
)

func TestLongestPrefixBeatsShorterAlias(t *testing.T) {
	table := NewTable()
	opts, err := Parse([]string{"-emit-module-path=/tmp/a.swiftmodule"}, ModeBatchCompile, table)
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 1 {
		t.Fatalf("expected exactly one ParsedOption, got %d: %v", len(opts), opts)
	}
	if opts[0].ID != IDEmitModulePathEQ {
		t.Errorf("expected IDEmitModulePathEQ, got %v", opts[0].ID)
	}
	if opts[0].Value != "/tmp/a.swiftmodule" {
		t.Errorf("value = %q", opts[0].Value)
	}
}

func TestAliasResolvesToCanonical(t *testing.T) {
	table := NewTable()
	opts, err := Parse([]string{"-wmo"}, ModeBatchCompile, table)
	if err != nil {
		t.Fatal(err)
	}
	if opts[0].ID != IDWholeModuleOptimization {
		t.Errorf("expected -wmo to resolve to IDWholeModuleOptimization, got %v", opts[0].ID)
	}
}

func TestSeparateConsumesNextArg(t *testing.T) {
	table := NewTable()
	opts, err := Parse([]string{"-target", "x86_64-unknown-linux-gnu"}, ModeBatchCompile, table)
	if err != nil {
		t.Fatal(err)
	}
	if len(opts) != 1 || opts[0].Value != "x86_64-unknown-linux-gnu" {
		t.Fatalf("unexpected parse: %v", opts)
	}
}

func TestJoinedOrSeparateBothForms(t *testing.T) {
	table := NewTable()
	joined, err := Parse([]string{"-Ifoo"}, ModeBatchCompile, table)
	if err != nil {
		t.Fatal(err)
	}
	if joined[0].Value != "foo" {
		t.Errorf("joined form: value = %q", joined[0].Value)
	}

	separate, err := Parse([]string{"-I", "foo"}, ModeBatchCompile, table)
	if err != nil {
		t.Fatal(err)
	}
	if separate[0].Value != "foo" {
		t.Errorf("separate form: value = %q", separate[0].Value)
	}
}

func TestCommaJoined(t *testing.T) {
	table := NewTable()
	opts, err := Parse([]string{"-sanitize=address,thread"}, ModeBatchCompile, table)
	if err != nil {
		t.Fatal(err)
	}
	if len(opts[0].Values) != 2 || opts[0].Values[0] != "address" || opts[0].Values[1] != "thread" {
		t.Errorf("unexpected values: %v", opts[0].Values)
	}
}

func TestInputsAndDoubleDash(t *testing.T) {
	table := NewTable()
	opts, err := Parse([]string{"a.swift", "--", "-not-an-option", "b.swift"}, ModeBatchCompile, table)
	if err != nil {
		t.Fatal(err)
	}
	inputs := Inputs(opts)
	if len(inputs) != 3 || inputs[0] != "a.swift" || inputs[1] != "-not-an-option" || inputs[2] != "b.swift" {
		t.Fatalf("unexpected inputs: %v", inputs)
	}
}

func TestUnknownOptionErrors(t *testing.T) {
	table := NewTable()
	_, err := Parse([]string{"-this-flag-does-not-exist"}, ModeBatchCompile, table)
	if err == nil {
		t.Fatal("expected UnknownOptionError")
	}
	if _, ok := err.(*UnknownOptionError); !ok {
		t.Errorf("expected *UnknownOptionError, got %T", err)
	}
}

func TestMissingArgument(t *testing.T) {
	table := NewTable()
	_, err := Parse([]string{"-target"}, ModeBatchCompile, table)
	if _, ok := err.(*MissingArgumentError); !ok {
		t.Errorf("expected *MissingArgumentError, got %T (%v)", err, err)
	}
}

func TestHiddenExcludedFromHelp(t *testing.T) {
	table := NewTable()
	help := table.RenderHelp(ModeBatchCompile, false)
	helpHidden := table.RenderHelp(ModeBatchCompile, true)
	if len(helpHidden) <= len(help) {
		t.Fatalf("help-hidden should be a superset: len(help)=%d len(helpHidden)=%d", len(help), len(helpHidden))
	}
}

func TestHelpAlphabeticalOrder(t *testing.T) {
	table := NewTable()
	help := table.RenderHelp(ModeBatchCompile, true)
	if help == "" {
		t.Fatal("expected non-empty help text")
	}
	prev := ""
	for _, line := range strings.Split(help, "\n") {
		if !strings.HasPrefix(line, "  -") {
			continue
		}
		spelling := strings.Fields(line)[0]
		if spelling < prev {
			t.Errorf("help lists %q after %q; entries are not sorted by spelling", spelling, prev)
		}
		prev = spelling
	}
	if prev == "" {
		t.Fatal("no option lines found in help text")
	}
}
