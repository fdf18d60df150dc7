// Package option implements the declarative option schema, its lookup
// table, and the longest-prefix-match argument parser.
//
// The schema here is a hand-written, representative subset of the full
// few-hundred-entry table a real compiler driver carries, enough to
// exercise every Generator shape, every DriverMode, aliasing, hidden
// flags, and help rendering end to end. The frontend's own flag
// grammar belongs to the frontend.
package option

import "fmt"

// ID is a symbolic identifier for one schema entry.
type ID int

// DriverMode selects which subset of the schema is active, one per
// driver personality.
type DriverMode int

const (
	ModeInteractive DriverMode = iota // "swift"
	ModeBatchCompile                  // "swiftc"
	ModeFrontend                      // "swift -frontend" passthrough
	ModeAutolinkExtract               // "swift-autolink-extract"
	ModeIndent                        // "swift-indent"
	ModuleWrap                        // "swift-modulewrap"
)

func (m DriverMode) String() string {
	switch m {
	case ModeInteractive:
		return "swift"
	case ModeBatchCompile:
		return "swiftc"
	case ModeFrontend:
		return "frontend"
	case ModeAutolinkExtract:
		return "autolink-extract"
	case ModeIndent:
		return "indent"
	case ModuleWrap:
		return "module-wrap"
	default:
		return "unknown"
	}
}

// Generator classifies how an option's argument is shaped.
type Generator int

const (
	GenFlag Generator = iota
	GenJoined
	GenSeparate
	GenJoinedOrSeparate
	GenCommaJoined
	GenRemaining
	GenInput
)

// StoredOption is one schema entry: spelling, argument shape, and
// metadata for alias resolution, visibility, and help rendering.
type StoredOption struct {
	ID        ID
	Spelling  string
	Generator Generator

	IsAlias bool
	AliasOf ID

	IsHidden bool
	MetaVar  string
	HelpText string

	Modes []DriverMode
}

func (o StoredOption) appliesTo(mode DriverMode) bool {
	for _, m := range o.Modes {
		if m == mode {
			return true
		}
	}
	return false
}

// ParsedOption binds a matched option occurrence to its resolved
// (alias-followed) ID and value.
type ParsedOption struct {
	ID       ID
	Spelling string // as it appeared on the command line
	Kind     Generator

	Value  string   // GenJoined, GenSeparate, GenJoinedOrSeparate
	Values []string // GenCommaJoined, GenRemaining

	IsInput bool // positional input file (ID is IDInput)
}

func (p ParsedOption) String() string {
	switch {
	case p.IsInput:
		return fmt.Sprintf("input(%s)", p.Value)
	case len(p.Values) > 0:
		return fmt.Sprintf("%s=%v", p.Spelling, p.Values)
	case p.Value != "":
		return fmt.Sprintf("%s=%s", p.Spelling, p.Value)
	default:
		return p.Spelling
	}
}

// IDInput identifies a positional, non-option input file.
const IDInput ID = -1
