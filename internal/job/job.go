// Package job defines the typed description of a single external tool
// invocation: its kind, the tool to exec, a template of argument
// pieces that still need path placeholders resolved to concrete
// strings, and its typed inputs/outputs.
//
// The planner builds Jobs, and the compile command may still adjust a
// planned Job's response-file support, environment and arguments
// before execution; the ArgsResolver (internal/argsresolver) turns an
// ArgTemplate into a concrete argv, and the executor
// (internal/executor) runs the result.
package job

import (
	"fmt"

	"github.com/detentsh/driver/internal/vpath"
)

// Kind names the category of work a Job performs. Kept as a closed
// enum (not a string) so the executor's special-case handling, like
// scheduling the link job only after every compile has succeeded, can
// switch over it exhaustively.
type Kind int

const (
	KindUnknown Kind = iota
	KindCompile
	KindEmitModule
	KindMergeModules
	KindInterpret
	KindLink
	KindAutolinkExtract
	KindModuleWrap
	KindGeneratePCH
	KindVerifyModuleInterface
	KindIndent
	KindFrontendPassthrough
	KindREPL
)

func (k Kind) String() string {
	switch k {
	case KindCompile:
		return "compile"
	case KindEmitModule:
		return "emit-module"
	case KindMergeModules:
		return "merge-module"
	case KindInterpret:
		return "interpret"
	case KindLink:
		return "link"
	case KindAutolinkExtract:
		return "autolink-extract"
	case KindModuleWrap:
		return "module-wrap"
	case KindGeneratePCH:
		return "generate-pch"
	case KindVerifyModuleInterface:
		return "verify-module-interface"
	case KindIndent:
		return "indent"
	case KindFrontendPassthrough:
		return "frontend"
	case KindREPL:
		return "repl"
	default:
		return "unknown"
	}
}

// IsPostCompile reports whether this Job kind belongs in the
// post-compile phase: it must wait for every compile to succeed before
// it may run.
func (k Kind) IsPostCompile() bool {
	switch k {
	case KindMergeModules, KindLink, KindAutolinkExtract, KindVerifyModuleInterface:
		return true
	default:
		return false
	}
}

// ResponseFileSupport describes how a tool accepts @-response-file
// indirection.
type ResponseFileSupport int

const (
	ResponseFilesUnsupported ResponseFileSupport = iota
	ResponseFilesSupported
	ResponseFilesForced
)

// ArgPieceKind discriminates the ArgPiece tagged union.
type ArgPieceKind int

const (
	ArgLiteral ArgPieceKind = iota
	ArgPathPlaceholder
	ArgFilelistPlaceholder
	ArgResponseFileMarker
)

// ArgPiece is one element of a Job's ArgTemplate: a literal string, a
// placeholder that the ArgsResolver will resolve to a concrete path
// string, a filelist placeholder (materialized to a temp file and
// referenced via "@listfile"), or a marker indicating "the remaining
// template pieces may be redirected into a response file".
type ArgPiece struct {
	Kind    ArgPieceKind
	Literal string
	Path    vpath.Handle // valid when Kind is ArgPathPlaceholder or ArgFilelistPlaceholder
	Prefix  string        // e.g. "-o" joined form prefix like "-I" (optional, used for joined flags)
}

// Lit builds a literal ArgPiece.
func Lit(s string) ArgPiece { return ArgPiece{Kind: ArgLiteral, Literal: s} }

// PathArg builds a path-placeholder ArgPiece, optionally joined to a
// flag prefix (e.g. Prefix="-I" renders as "-I<resolved path>" with no
// space, matching "joined" option generators).
func PathArg(h vpath.Handle, prefix string) ArgPiece {
	return ArgPiece{Kind: ArgPathPlaceholder, Path: h, Prefix: prefix}
}

// FilelistArg builds a filelist-placeholder ArgPiece.
func FilelistArg(h vpath.Handle, prefix string) ArgPiece {
	return ArgPiece{Kind: ArgFilelistPlaceholder, Path: h, Prefix: prefix}
}

// Job is one planned external-process invocation.
type Job struct {
	Kind Kind

	Tool vpath.Handle

	ArgTemplate []ArgPiece

	Inputs        []vpath.TypedVirtualPath
	PrimaryInputs []vpath.TypedVirtualPath
	Outputs       []vpath.TypedVirtualPath

	ExtraEnv map[string]string

	RequiresInputs        bool
	SupportsResponseFiles ResponseFileSupport

	// DisplayName is the progress-stream "name" field; the planner and
	// the passthrough modes (swift-indent, swift-modulewrap) set it to
	// Kind.String().
	DisplayName string

	// BatchIndex distinguishes multiple compile Jobs produced from one
	// planner decision (batch mode), used to derive the synthetic
	// negative pid the progress reporter assigns to each compile Job
	// (one pid per Job, shared by all of its primaries).
	BatchIndex int
}

func (j *Job) String() string {
	return fmt.Sprintf("%s[%d inputs -> %d outputs]", j.DisplayName, len(j.Inputs), len(j.Outputs))
}

// Label renders a short node label suitable for DOT emission.
func (j *Job) Label(cache *vpath.Cache) string {
	if len(j.PrimaryInputs) == 1 {
		return fmt.Sprintf("%s\\n%s", j.DisplayName, cache.Basename(j.PrimaryInputs[0].Handle))
	}
	return j.DisplayName
}
