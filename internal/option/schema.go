package option

// Schema ID block, grouped by concern. IDs are assigned by iota, so
// inserting an option renumbers every ID after it.
const (
	IDHelp ID = iota + 1
	IDHelpHidden
	IDVersion
	IDVerbose   // -v
	IDDriverPrintJobs // -###

	IDOutput // -o
	IDModuleName
	IDEmitModule
	IDEmitModulePathEQ
	IDEmitLibrary
	IDEmitExecutable
	IDEmitObject
	IDEmitAssembly
	IDEmitIR
	IDEmitBC
	IDEmitSIL
	IDEmitSIB
	IDEmitDependencies
	IDCompileOnly // -c
	IDSyntaxOnly  // -S (kept distinct from emit-assembly for the spelling's sake)
	IDParse
	IDTypecheck
	IDRepl
	IDInterpret

	IDTarget
	IDSDK
	IDResourceDir
	IDModuleCachePath

	IDImportPath // -I
	IDLibraryPath // -L
	IDFrameworkPath // -F
	IDLinkLibrary // -l

	IDXlinker
	IDXcc
	IDXfrontend

	IDNumThreads
	IDParallelJobs // -j
	IDDriverBatchCount
	IDDriverBatchSeed
	IDDriverBatchSizeLimit
	IDWholeModuleOptimization
	IDWMOAlias
	IDSaveTemps
	IDForceResponseFiles
	IDDriverUseFilelists
	IDContinueBuildingAfterErrors
	IDIncremental

	IDParseableOutput
	IDUseFrontendParseableOutput

	IDOutputFileMap
	IDImportObjCHeader
	IDStaticLink
	IDDynamicLink
	IDDebugInfo // -g
	IDSanitizeEQ

	IDDriverModeEQ

	IDFrontend // "-frontend" subcommand marker under ModeInteractive

	IDRemaining // "--"
)

// schemaEntries is the complete option schema; NewTable builds a Table
// and its derived lookup structures from it.
var schemaEntries = []StoredOption{
	{ID: IDHelp, Spelling: "-help", Generator: GenFlag, HelpText: "Display available options",
		Modes: allModes},
	{ID: IDHelp, Spelling: "--help", Generator: GenFlag, IsAlias: true, AliasOf: IDHelp, Modes: allModes},
	{ID: IDHelpHidden, Spelling: "-help-hidden", Generator: GenFlag, IsHidden: true,
		HelpText: "Display available options, including hidden options", Modes: allModes},
	{ID: IDVersion, Spelling: "-version", Generator: GenFlag, HelpText: "Print the compiler version",
		Modes: allModes},
	{ID: IDVerbose, Spelling: "-v", Generator: GenFlag, HelpText: "Show commands to run and use verbose output",
		Modes: allModes},
	{ID: IDDriverPrintJobs, Spelling: "-###", Generator: GenFlag,
		HelpText: "Print the jobs that would be run without running them", Modes: allModes},

	{ID: IDOutput, Spelling: "-o", Generator: GenJoinedOrSeparate, MetaVar: "<file>",
		HelpText: "Write output to <file>", Modes: allModes},
	{ID: IDModuleName, Spelling: "-module-name", Generator: GenSeparate, MetaVar: "<name>",
		HelpText: "Name of the module to build", Modes: compileModes},
	{ID: IDEmitModule, Spelling: "-emit-module", Generator: GenFlag,
		HelpText: "Emit an importable module", Modes: compileModes},
	{ID: IDEmitModulePathEQ, Spelling: "-emit-module-path=", Generator: GenJoined, MetaVar: "<path>",
		HelpText: "Emit an importable module to <path>", Modes: compileModes},
	{ID: IDEmitLibrary, Spelling: "-emit-library", Generator: GenFlag,
		HelpText: "Emit a linked library", Modes: compileModes},
	{ID: IDEmitExecutable, Spelling: "-emit-executable", Generator: GenFlag,
		HelpText: "Emit a linked executable", Modes: compileModes},
	{ID: IDEmitObject, Spelling: "-emit-object", Generator: GenFlag,
		HelpText: "Emit object file(s)", Modes: compileModes},
	{ID: IDEmitAssembly, Spelling: "-emit-assembly", Generator: GenFlag,
		HelpText: "Emit assembly file(s)", Modes: compileModes},
	{ID: IDEmitIR, Spelling: "-emit-ir", Generator: GenFlag, IsHidden: true,
		HelpText: "Emit LLVM IR file(s)", Modes: compileModes},
	{ID: IDEmitBC, Spelling: "-emit-bc", Generator: GenFlag, IsHidden: true,
		HelpText: "Emit LLVM BC file(s)", Modes: compileModes},
	{ID: IDEmitSIL, Spelling: "-emit-sil", Generator: GenFlag, IsHidden: true,
		HelpText: "Emit canonical SIL file(s)", Modes: compileModes},
	{ID: IDEmitSIB, Spelling: "-emit-sib", Generator: GenFlag, IsHidden: true,
		HelpText: "Emit canonical SIB file(s)", Modes: compileModes},
	{ID: IDEmitDependencies, Spelling: "-emit-dependencies", Generator: GenFlag,
		HelpText: "Emit basic Make-compatible dependencies files", Modes: compileModes},
	{ID: IDCompileOnly, Spelling: "-c", Generator: GenFlag,
		HelpText: "Compile without linking", Modes: compileModes},
	{ID: IDSyntaxOnly, Spelling: "-S", Generator: GenFlag, IsHidden: true,
		HelpText: "Emit assembly and stop", Modes: compileModes},
	{ID: IDParse, Spelling: "-parse", Generator: GenFlag, IsHidden: true,
		HelpText: "Parse input file(s)", Modes: compileModes},
	{ID: IDTypecheck, Spelling: "-typecheck", Generator: GenFlag, IsHidden: true,
		HelpText: "Parse and type-check input file(s)", Modes: compileModes},
	{ID: IDRepl, Spelling: "-repl", Generator: GenFlag,
		HelpText: "REPL mode (requires -deprecated-integrated-repl)", Modes: []DriverMode{ModeInteractive}},
	{ID: IDInterpret, Spelling: "-i", Generator: GenFlag, IsHidden: true,
		HelpText: "Immediate mode", Modes: []DriverMode{ModeInteractive}},

	{ID: IDTarget, Spelling: "-target", Generator: GenSeparate, MetaVar: "<triple>",
		HelpText: "Generate code for the given target <triple>", Modes: allModes},
	{ID: IDSDK, Spelling: "-sdk", Generator: GenSeparate, MetaVar: "<sdk>",
		HelpText: "Compile against <sdk>", Modes: allModes},
	{ID: IDResourceDir, Spelling: "-resource-dir", Generator: GenSeparate, IsHidden: true,
		MetaVar: "<value>", HelpText: "The directory that holds the compiler resource files", Modes: compileModes},
	{ID: IDModuleCachePath, Spelling: "-module-cache-path", Generator: GenSeparate, IsHidden: true,
		MetaVar: "<path>", HelpText: "Specifies the Clang module cache path", Modes: compileModes},

	{ID: IDImportPath, Spelling: "-I", Generator: GenJoinedOrSeparate, MetaVar: "<directory>",
		HelpText: "Add directory to the import search path", Modes: compileModes},
	{ID: IDLibraryPath, Spelling: "-L", Generator: GenJoinedOrSeparate, MetaVar: "<directory>",
		HelpText: "Add directory to library link search path", Modes: compileModes},
	{ID: IDFrameworkPath, Spelling: "-F", Generator: GenJoinedOrSeparate, MetaVar: "<directory>",
		HelpText: "Add directory to framework search path", Modes: compileModes},
	{ID: IDLinkLibrary, Spelling: "-l", Generator: GenJoined, MetaVar: "<library>",
		HelpText: "Specifies a library which should be linked against", Modes: compileModes},

	{ID: IDXlinker, Spelling: "-Xlinker", Generator: GenSeparate, MetaVar: "<arg>",
		HelpText: "Specifies an option which should be passed to the linker", Modes: compileModes},
	{ID: IDXcc, Spelling: "-Xcc", Generator: GenSeparate, MetaVar: "<arg>",
		HelpText: "Specifies an option which should be passed to the Clang importer", Modes: compileModes},
	{ID: IDXfrontend, Spelling: "-Xfrontend", Generator: GenSeparate, IsHidden: true,
		MetaVar: "<arg>", HelpText: "Specifies an option which should be passed to the frontend", Modes: compileModes},

	{ID: IDNumThreads, Spelling: "-num-threads", Generator: GenSeparate, IsHidden: true,
		MetaVar: "<n>", HelpText: "Enable multi-threading and specify thread count", Modes: compileModes},
	{ID: IDParallelJobs, Spelling: "-j", Generator: GenJoinedOrSeparate, MetaVar: "<n>",
		HelpText: "Controls the number of jobs to run simultaneously", Modes: compileModes},
	{ID: IDDriverBatchCount, Spelling: "-driver-batch-count", Generator: GenSeparate, IsHidden: true,
		MetaVar: "<n>", HelpText: "Specify the number of batch-mode partitions to use", Modes: compileModes},
	{ID: IDDriverBatchSeed, Spelling: "-driver-batch-seed", Generator: GenSeparate, IsHidden: true,
		MetaVar: "<n>", HelpText: "Specify the extra seed to use for batch-mode partitioning", Modes: compileModes},
	{ID: IDDriverBatchSizeLimit, Spelling: "-driver-batch-size-limit", Generator: GenSeparate, IsHidden: true,
		MetaVar: "<n>", HelpText: "Specify the maximum number of primaries in a batch", Modes: compileModes},
	{ID: IDWholeModuleOptimization, Spelling: "-whole-module-optimization", Generator: GenFlag,
		HelpText: "Optimize input files together instead of individually", Modes: compileModes},
	{ID: IDWMOAlias, Spelling: "-wmo", Generator: GenFlag, IsAlias: true, AliasOf: IDWholeModuleOptimization,
		Modes: compileModes},
	{ID: IDSaveTemps, Spelling: "-save-temps", Generator: GenFlag,
		HelpText: "Save intermediate compilation results", Modes: compileModes},
	{ID: IDForceResponseFiles, Spelling: "-driver-force-response-files", Generator: GenFlag, IsHidden: true,
		HelpText: "Force the use of response files for testing", Modes: compileModes},
	{ID: IDDriverUseFilelists, Spelling: "-driver-use-filelists", Generator: GenFlag, IsHidden: true,
		HelpText: "Pass input files as filelists whenever possible", Modes: compileModes},
	{ID: IDContinueBuildingAfterErrors, Spelling: "-continue-building-after-errors", Generator: GenFlag,
		IsHidden: true, HelpText: "Continue building subsequent jobs after a job failed", Modes: compileModes},
	{ID: IDIncremental, Spelling: "-incremental", Generator: GenFlag,
		HelpText: "Perform an incremental build if possible", Modes: compileModes},

	{ID: IDParseableOutput, Spelling: "-parseable-output", Generator: GenFlag,
		HelpText: "Emit textual output in a parseable format", Modes: compileModes},
	{ID: IDUseFrontendParseableOutput, Spelling: "-use-frontend-parseable-output", Generator: GenFlag,
		IsHidden: true, HelpText: "Have the frontend emit parseable output", Modes: compileModes},

	{ID: IDOutputFileMap, Spelling: "-output-file-map", Generator: GenSeparate, MetaVar: "<path>",
		HelpText: "A file which specifies the location of outputs", Modes: compileModes},
	{ID: IDImportObjCHeader, Spelling: "-import-objc-header", Generator: GenSeparate, MetaVar: "<path>",
		HelpText: "Implicitly imports an Objective-C header file", Modes: compileModes},
	{ID: IDStaticLink, Spelling: "-static", Generator: GenFlag, HelpText: "Link the Swift standard library statically",
		Modes: compileModes},
	{ID: IDDynamicLink, Spelling: "-dynamic", Generator: GenFlag, IsHidden: true, Modes: compileModes},
	{ID: IDDebugInfo, Spelling: "-g", Generator: GenFlag,
		HelpText: "Emit debug info suitable for debugging with LLDB", Modes: compileModes},
	{ID: IDSanitizeEQ, Spelling: "-sanitize=", Generator: GenCommaJoined, MetaVar: "<check>,...",
		HelpText: "Turn on runtime checks for erroneous behavior", Modes: compileModes},

	{ID: IDDriverModeEQ, Spelling: "--driver-mode=", Generator: GenJoined, IsHidden: true, Modes: allModes},
	{ID: IDFrontend, Spelling: "-frontend", Generator: GenFlag, IsHidden: true, Modes: []DriverMode{ModeInteractive}},

	{ID: IDRemaining, Spelling: "--", Generator: GenRemaining, Modes: allModes},
}

var allModes = []DriverMode{
	ModeInteractive, ModeBatchCompile, ModeFrontend, ModeAutolinkExtract, ModeIndent, ModuleWrap,
}

var compileModes = []DriverMode{ModeInteractive, ModeBatchCompile}
