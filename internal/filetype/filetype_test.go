package filetype

import "testing"

func TestDisplayNameRoundTrip(t *testing.T) {
	for _, ft := range All() {
		name := ft.DisplayName()
		got, ok := FromDisplayName(name)
		if !ok {
			t.Errorf("FromDisplayName(%q) not found for %v", name, ft)
			continue
		}
		if got != ft {
			t.Errorf("FromDisplayName(%q) = %v, want %v", name, got, ft)
		}
	}
}

func TestFromExtension(t *testing.T) {
	cases := []struct {
		ext  string
		want FileType
	}{
		{"swift", Swift},
		{"o", Object},
		{"swiftmodule", SwiftModule},
		{"private.swiftinterface", PrivateSwiftInterface},
		{"dia", Diagnostics},
	}
	for _, c := range cases {
		got, ok := FromExtension(c.ext)
		if !ok || got != c.want {
			t.Errorf("FromExtension(%q) = %v,%v want %v,true", c.ext, got, ok, c.want)
		}
	}
}

func TestPredicates(t *testing.T) {
	if !Swift.IsPartOfSwiftCompilation() {
		t.Error("Swift should be part of compilation")
	}
	if !Swift.RequiresSILGen() {
		t.Error("Swift requires SILGen on the path to SIL")
	}
	if RawSIL.RequiresSILGen() {
		t.Error("RawSIL is pre-SILGen output, should not require it")
	}
	if !Object.IsAfterLLVM() {
		t.Error("Object is produced after LLVM codegen")
	}
	if Swift.IsAfterLLVM() {
		t.Error("Swift source predates LLVM entirely")
	}
	if !Object.SupportsCaching() {
		t.Error("Object should support the content-addressed cache")
	}
}

func TestUnknownDefaults(t *testing.T) {
	if Unknown.DefaultExtension() != "" {
		t.Errorf("Unknown should have no default extension, got %q", Unknown.DefaultExtension())
	}
}
