package planner

import (
	"os/exec"
)

// Toolchain resolves the external tool paths the planner embeds into
// each Job. Discovery heuristics (SDK-aware search paths, Xcode
// toolchain bundles, …) belong to the caller; this interface only
// names what the planner needs.
type Toolchain interface {
	Frontend() (string, error)
	Linker() (string, error)
	AutolinkExtractTool() (string, error)
	ModuleWrapTool() (string, error)
	Indent() (string, error)
}

// PathToolchain resolves every tool via $PATH, optionally honoring the
// SWIFT_EXEC override for the frontend.
type PathToolchain struct {
	SwiftExecOverride string
}

func (t PathToolchain) Frontend() (string, error) {
	if t.SwiftExecOverride != "" {
		return t.SwiftExecOverride, nil
	}
	return lookPath("swift-frontend")
}

func (t PathToolchain) Linker() (string, error)              { return lookPath("clang") }
func (t PathToolchain) AutolinkExtractTool() (string, error)  { return lookPath("swift-autolink-extract") }
func (t PathToolchain) ModuleWrapTool() (string, error)       { return lookPath("swift-modulewrap") }
func (t PathToolchain) Indent() (string, error)               { return lookPath("swift-indent") }

func lookPath(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", &MissingToolError{Tool: name}
	}
	return path, nil
}
