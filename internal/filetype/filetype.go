// Package filetype classifies every artifact the driver plans jobs
// around: sources, intermediate representations, object files, module
// metadata, and diagnostic byproducts. Each FileType carries a default
// filename extension and a handful of boolean properties the planner
// and executor consult when deriving output paths and scheduling
// decisions.
//
// The schema is a closed, hand-tabulated enum; the driver has no
// code-generation stage of its own.
package filetype

import "fmt"

// FileType is a closed enumeration of artifact kinds.
type FileType int

const (
	Unknown FileType = iota

	// Source-language inputs.
	Swift
	SIL
	RawSIL
	SIB
	RawSIB

	// LLVM-level intermediate representations, produced after SILGen
	// and SIL optimization have lowered away Swift-specific structure.
	LLVMIR
	LLVMBitcode
	Assembly

	// Final build products.
	Object
	Executable
	DynamicLibrary
	StaticArchive
	ImportLibrary

	// Module metadata.
	SwiftModule
	SwiftModuleDoc
	SwiftSourceInfo
	SwiftInterface
	PrivateSwiftInterface
	SwiftPackageInterface

	// Clang interop.
	PCH
	PCM
	ClangModuleMap
	ObjCHeader

	// Link-time metadata.
	TBD
	Autolink

	// Build bookkeeping and diagnostics.
	Dependencies
	Diagnostics
	SerializedDiagnostics
	IndexData
	ImportedModules
	ModuleTrace
	OptimizationRecord
	YAMLOptimizationRecord
	BitstreamOptimizationRecord
	FixItsSwiftSuggest
	SwiftDeps
	JSONArgs
	JSONCompilerOutput
	JSONDependencies
	ABIBaselineJSON
	RemapFile

	// Raw, untyped passthrough for driver-mode-specific tool invocations
	// (e.g. swift-indent's stdin/stdout) that carry no further meaning.
	Nothing
)

type properties struct {
	extension     string
	displayName   string
	isTextual     bool
	isSource      bool // isPartOfSwiftCompilation
	isAfterLLVM   bool
	requiresSIL   bool // requiresSILGen
	supportCaching bool
}

var table = map[FileType]properties{
	Unknown:                     {"", "unknown", false, false, false, false, false},
	Swift:                       {"swift", "swift", true, true, false, true, true},
	SIL:                         {"sil", "sil", true, true, false, false, true},
	RawSIL:                      {"sil", "raw-sil", true, true, false, false, false},
	SIB:                         {"sib", "sib", false, true, false, false, true},
	RawSIB:                      {"sib", "raw-sib", false, true, false, false, false},
	LLVMIR:                      {"ll", "llvm-ir", true, false, true, false, true},
	LLVMBitcode:                 {"bc", "llvm-bc", false, false, true, false, true},
	Assembly:                    {"s", "assembly", true, false, true, false, true},
	Object:                      {"o", "object", false, false, true, false, true},
	Executable:                  {"", "image", false, false, true, false, false},
	DynamicLibrary:              {"so", "dynamic-library", false, false, true, false, false},
	StaticArchive:               {"a", "archive", false, false, true, false, false},
	ImportLibrary:               {"lib", "import-lib", false, false, true, false, false},
	SwiftModule:                 {"swiftmodule", "swiftmodule", false, false, false, false, true},
	SwiftModuleDoc:              {"swiftdoc", "swiftdoc", false, false, false, false, true},
	SwiftSourceInfo:             {"swiftsourceinfo", "swiftsourceinfo", false, false, false, false, true},
	SwiftInterface:              {"swiftinterface", "swiftinterface", true, false, false, false, true},
	PrivateSwiftInterface:       {"private.swiftinterface", "private-swiftinterface", true, false, false, false, true},
	SwiftPackageInterface:       {"package.swiftinterface", "package-swiftinterface", true, false, false, false, true},
	PCH:                         {"pch", "pch", false, false, false, false, true},
	PCM:                         {"pcm", "pcm", false, false, false, false, true},
	ClangModuleMap:              {"modulemap", "clang-module-map", true, false, false, false, false},
	ObjCHeader:                  {"h", "objc-header", true, false, false, false, false},
	TBD:                         {"tbd", "tbd", true, false, true, false, false},
	Autolink:                    {"autolink", "autolink", true, false, true, false, false},
	Dependencies:                {"d", "dependencies", true, false, false, false, false},
	Diagnostics:                 {"dia", "diagnostics", true, false, false, false, false},
	SerializedDiagnostics:       {"dia", "serialized-diagnostics", false, false, false, false, false},
	IndexData:                   {"", "index-data", false, false, false, false, false},
	ImportedModules:             {"importedmodules", "imported-modules", true, false, false, false, false},
	ModuleTrace:                 {"trace.json", "module-trace", true, false, false, false, false},
	OptimizationRecord:          {"opt.ll", "opt-record", true, false, true, false, false},
	YAMLOptimizationRecord:      {"opt.yaml", "yaml-opt-record", true, false, true, false, false},
	BitstreamOptimizationRecord: {"opt.bitstream", "bitstream-opt-record", false, false, true, false, false},
	FixItsSwiftSuggest:          {"remap", "fixits", true, false, false, false, false},
	SwiftDeps:                   {"swiftdeps", "swift-dependencies", true, false, false, false, false},
	JSONArgs:                    {"args.json", "json-args", true, false, false, false, false},
	JSONCompilerOutput:          {"json", "json-compiler-output", true, false, false, false, false},
	JSONDependencies:            {"d.json", "json-dependencies", true, false, false, false, false},
	ABIBaselineJSON:             {"abi.json", "abi-baseline-json", true, false, false, false, false},
	RemapFile:                   {"remap", "remap", true, false, false, false, false},
	Nothing:                     {"", "nothing", false, false, false, false, false},
}

// reverse-lookup by display name, built once.
var byDisplayName map[string]FileType

func init() {
	byDisplayName = make(map[string]FileType, len(table))
	for ft, p := range table {
		byDisplayName[p.displayName] = ft
	}
}

// DefaultExtension returns the canonical filename extension for ft
// (without a leading dot). Compound extensions such as
// "private.swiftinterface" are single atomic extensions for the
// purposes of VirtualPath.ReplacingExtension.
func (ft FileType) DefaultExtension() string { return table[ft].extension }

// DisplayName returns the human-readable name used verbatim in
// progress JSON and output-file-map keys.
func (ft FileType) DisplayName() string { return table[ft].displayName }

// IsTextual reports whether the artifact is human-readable text (used
// to decide whether -v echo may safely print its contents).
func (ft FileType) IsTextual() bool { return table[ft].isTextual }

// IsPartOfSwiftCompilation reports whether ft is a source-language
// input that the frontend parses (Swift, SIL, SIB in their canonical
// or "raw" forms).
func (ft FileType) IsPartOfSwiftCompilation() bool { return table[ft].isSource }

// IsAfterLLVM reports whether ft is produced after LLVM codegen, i.e.
// downstream of SIL lowering.
func (ft FileType) IsAfterLLVM() bool { return table[ft].isAfterLLVM }

// RequiresSILGen reports whether producing this type requires running
// SILGen (true only for Swift source; the SIL and SIB forms, which are
// already past SILGen, report false).
func (ft FileType) RequiresSILGen() bool { return table[ft].requiresSIL }

// SupportsCaching reports whether this artifact kind is eligible for
// the (out-of-scope) content-addressed cache plugin.
func (ft FileType) SupportsCaching() bool { return table[ft].supportCaching }

// FromExtension looks up the FileType whose default extension matches
// ext (no leading dot) exactly. A compound extension such as
// "private.swiftinterface" matches only when ext is that whole string;
// no suffix of ext is tried.
func FromExtension(ext string) (FileType, bool) {
	// Iterate in enum order, not map order, so extensions shared by two
	// types ("sil" for SIL/RawSIL, "dia" for diagnostics) always resolve
	// to the canonical (lower-valued) type.
	for _, ft := range All() {
		if p := table[ft]; p.extension != "" && p.extension == ext {
			return ft, true
		}
	}
	return Unknown, false
}

// FromDisplayName is the reverse of DisplayName; it must succeed for
// every FileType's own display name (exercised by filetype_test.go).
func FromDisplayName(name string) (FileType, bool) {
	ft, ok := byDisplayName[name]
	return ft, ok
}

func (ft FileType) String() string {
	if p, ok := table[ft]; ok {
		return p.displayName
	}
	return fmt.Sprintf("filetype(%d)", int(ft))
}

// All returns every registered FileType in a stable, deterministic
// order (ascending by enum value), useful for exhaustive tests and for
// -help-hidden style dumps.
func All() []FileType {
	out := make([]FileType, 0, len(table))
	for ft := range table {
		out = append(out, ft)
	}
	// simple insertion sort: the table is small and this runs once
	// per process at most, keeping the dependency surface to stdlib.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j] < out[j-1]; j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}
