package planner

import (
	"github.com/detentsh/driver/internal/filetype"
	"github.com/detentsh/driver/internal/option"
)

// primaryModeFlag pairs an option ID that selects a primary compiler
// mode with the FileType its compile jobs emit.
type primaryModeFlag struct {
	id          option.ID
	mode        CompilerMode
	primaryType filetype.FileType
}

// primaryModeFlags enumerates every mutually exclusive primary-action
// flag; at most one may be active per invocation.
// -c/-emit-object both select Object output; WMO and batch only affect
// how primaries are grouped, not what they emit, so they are read
// separately in selectMode below.
var primaryModeFlags = []primaryModeFlag{
	{option.IDEmitAssembly, ModeSingleFile, filetype.Assembly},
	{option.IDEmitIR, ModeSingleFile, filetype.LLVMIR},
	{option.IDEmitBC, ModeSingleFile, filetype.LLVMBitcode},
	{option.IDEmitSIL, ModeSingleFile, filetype.SIL},
	{option.IDEmitSIB, ModeSingleFile, filetype.SIB},
	{option.IDParse, ModeSingleFile, filetype.Nothing},
	{option.IDTypecheck, ModeSingleFile, filetype.Nothing},
	{option.IDSyntaxOnly, ModeSingleFile, filetype.Assembly},
	{option.IDCompileOnly, ModeSingleFile, filetype.Object},
	{option.IDEmitObject, ModeSingleFile, filetype.Object},
}

// selectMode inspects the parsed options for conflicting primary-action
// flags, then resolves the CompilerMode (single-file/batch/whole-module)
// and the FileType each compile Job's primary output should have.
// Absent any explicit primary flag, the default goal is Object (destined
// for linking), matching swiftc's "compile and link" default.
func selectMode(opts []option.ParsedOption) (CompilerMode, filetype.FileType, error) {
	if option.Has(opts, option.IDRepl) {
		return ModeREPL, filetype.Nothing, nil
	}

	var selected *primaryModeFlag
	for i, f := range primaryModeFlags {
		if !option.Has(opts, f.id) {
			continue
		}
		if selected != nil {
			return 0, filetype.Unknown, &ConflictingOptionsError{
				First:  spellingOf(opts, selected.id),
				Second: spellingOf(opts, primaryModeFlags[i].id),
			}
		}
		cp := primaryModeFlags[i]
		selected = &cp
	}

	primaryType := filetype.Object
	if selected != nil {
		primaryType = selected.primaryType
	}

	grouping := ModeSingleFile
	switch {
	case option.Has(opts, option.IDWholeModuleOptimization):
		grouping = ModeWholeModule
	case option.Has(opts, option.IDDriverBatchCount), option.Has(opts, option.IDDriverBatchSizeLimit):
		grouping = ModeBatch
	}

	return grouping, primaryType, nil
}

func spellingOf(opts []option.ParsedOption, id option.ID) string {
	if v, ok := option.Get(opts, id); ok {
		return v.Spelling
	}
	return "?"
}
