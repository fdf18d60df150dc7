// Package planner turns parsed options, classified inputs, and a
// target triple into a DAG of Jobs. It is the largest single component
// by design: mode selection, batch partitioning, PCH/module/link/
// autolink-extract job insertion, and the filelist-vs-individual-flags
// decision all live here.
package planner

import (
	"fmt"
	"path/filepath"

	"github.com/detentsh/driver/internal/filetype"
	"github.com/detentsh/driver/internal/job"
	"github.com/detentsh/driver/internal/ofm"
	"github.com/detentsh/driver/internal/option"
	"github.com/detentsh/driver/internal/triple"
	"github.com/detentsh/driver/internal/vpath"
)

// CompilerMode is the planner's primary-mode decision, derived from
// the -emit-*/-c/-S/-parse/-typecheck/-repl flag set.
type CompilerMode int

const (
	ModeSingleFile CompilerMode = iota
	ModeBatch
	ModeWholeModule
	ModeREPL
)

// LinkMode names what, if anything, the planner should link.
type LinkMode int

const (
	LinkNone LinkMode = iota
	LinkExecutable
	LinkDynamicLibrary
	LinkStaticArchive
)

// DefaultFilelistThreshold is the combined input+output argument count
// above which a Job's paths are emitted via a filelist instead of
// individual flags.
const DefaultFilelistThreshold = 128

// Request bundles everything the planner needs beyond the parsed
// option list: the resolved target, working directory, and a
// Toolchain for resolving tool paths.
type Request struct {
	Target     triple.Triple
	WorkDir    string
	Toolchain  Toolchain
	BatchSeed  uint64 // 0 if -driver-batch-seed was not given
	FilelistThreshold int

	// OutputFileMap, when non-nil, overrides default output-path
	// derivation per (input, FileType) pair; missing entries still fall
	// back to the defaults.
	OutputFileMap *ofm.Map
}

// Result is everything the planner produced: the job graph and the
// primary output artifact's type, useful for CLI summary messages.
type Result struct {
	Graph        *job.Graph
	PrimaryType  filetype.FileType
	ModuleName   string
}

// Plan builds the job DAG for a single driver invocation.
func Plan(opts []option.ParsedOption, cache *vpath.Cache, req Request) (*Result, error) {
	if req.FilelistThreshold <= 0 {
		req.FilelistThreshold = DefaultFilelistThreshold
	}

	mode, primaryType, err := selectMode(opts)
	if err != nil {
		return nil, err
	}
	if mode == ModeREPL {
		// The REPL is an interactive-mode personality; this planner only
		// builds batch job graphs.
		return nil, &UnsupportedModeError{Mode: "repl"}
	}

	inputPaths, err := expandInputs(option.Inputs(opts))
	if err != nil {
		return nil, err
	}
	var sources []vpath.TypedVirtualPath
	for _, p := range inputPaths {
		ft := classifyInput(p)
		sources = append(sources, cache.InternTyped(p, ft))
	}
	if len(sources) == 0 {
		return nil, &NoInputsError{}
	}

	moduleName := moduleNameOf(opts, inputPaths, req.WorkDir)
	emitModule := option.Has(opts, option.IDEmitModule) || option.Has(opts, option.IDEmitModulePathEQ)
	wmo := option.Has(opts, option.IDWholeModuleOptimization)

	var pchOutput *vpath.TypedVirtualPath
	graph := job.NewGraph()

	frontend, err := req.Toolchain.Frontend()
	if err != nil {
		return nil, err
	}
	frontendTool := cache.Intern(frontend)

	if header, ok := option.Get(opts, option.IDImportObjCHeader); ok {
		out := cache.InternTyped(header.Value+".pch", filetype.PCH)
		headerPath := cache.InternTyped(header.Value, filetype.ObjCHeader)
		pchJob := &job.Job{
			Kind:        job.KindGeneratePCH,
			DisplayName: job.KindGeneratePCH.String(),
			Tool:        frontendTool,
			Inputs:      []vpath.TypedVirtualPath{headerPath},
			Outputs:     []vpath.TypedVirtualPath{out},
			ArgTemplate: []job.ArgPiece{
				job.Lit("-frontend"), job.Lit("-emit-pch"),
				job.PathArg(headerPath.Handle, ""), job.Lit("-o"), job.PathArg(out.Handle, ""),
			},
		}
		if _, err := graph.Add(pchJob); err != nil {
			return nil, err
		}
		pchOutput = &out
	}

	var batches [][]vpath.TypedVirtualPath
	switch mode {
	case ModeWholeModule:
		batches = [][]vpath.TypedVirtualPath{sources}
	case ModeBatch:
		explicit := 0
		if v, ok := option.Get(opts, option.IDDriverBatchCount); ok {
			fmt.Sscanf(v.Value, "%d", &explicit)
		}
		sizeLimit := 0
		if v, ok := option.Get(opts, option.IDDriverBatchSizeLimit); ok {
			fmt.Sscanf(v.Value, "%d", &sizeLimit)
		}
		count := batchCount(len(sources), explicit, sizeLimit)
		groups := partitionBatches(len(sources), count, req.BatchSeed)
		for _, g := range groups {
			var batch []vpath.TypedVirtualPath
			for _, idx := range g {
				batch = append(batch, sources[idx])
			}
			batches = append(batches, batch)
		}
	default: // ModeSingleFile
		for _, s := range sources {
			batches = append(batches, []vpath.TypedVirtualPath{s})
		}
	}

	var compileIdxs []int
	var moduleParts []vpath.TypedVirtualPath
	var objects []vpath.TypedVirtualPath

	for i, primaries := range batches {
		primaryPath := cache.Lookup(primaries[0].Handle).String()
		outDir := filepath.Dir(primaryPath)
		base := cache.BasenameWithoutAllExts(primaries[0].Handle)

		primaryOut := cache.InternTyped(
			derivedOutput(req, primaryPath, filepath.Join(outDir, base+"."+primaryType.DefaultExtension()), primaryType),
			primaryType)

		inputs := append([]vpath.TypedVirtualPath{}, sources...)
		if pchOutput != nil {
			inputs = append(inputs, *pchOutput)
		}
		outputs := []vpath.TypedVirtualPath{primaryOut}

		if primaryType == filetype.Object {
			objects = append(objects, primaryOut)
		}

		argTemplate := buildCompileArgTemplate(cache, opts, req, primaries, inputs, primaryOut, pchOutput, req.FilelistThreshold)

		var modulePart vpath.TypedVirtualPath
		if emitModule && !wmo {
			modulePart = cache.InternTyped(
				derivedOutput(req, primaryPath, filepath.Join(outDir, base+"-partial.swiftmodule"), filetype.SwiftModule),
				filetype.SwiftModule)
			outputs = append(outputs, modulePart)
			moduleParts = append(moduleParts, modulePart)
			argTemplate = append(argTemplate, job.Lit("-emit-module-path"), job.PathArg(modulePart.Handle, ""))
		}
		if option.Has(opts, option.IDEmitDependencies) {
			dep := cache.InternTyped(
				derivedOutput(req, primaryPath, filepath.Join(outDir, base+".d"), filetype.Dependencies),
				filetype.Dependencies)
			outputs = append(outputs, dep)
			argTemplate = append(argTemplate, job.Lit("-emit-dependencies"), job.Lit("-emit-dependencies-path"), job.PathArg(dep.Handle, ""))
		}

		j := &job.Job{
			Kind:          job.KindCompile,
			DisplayName:   job.KindCompile.String(),
			Tool:          frontendTool,
			Inputs:        inputs,
			PrimaryInputs: primaries,
			Outputs:       outputs,
			ArgTemplate:   argTemplate,
			BatchIndex:    i,
			RequiresInputs:        true,
			SupportsResponseFiles: job.ResponseFilesSupported,
		}
		idx, err := graph.Add(j)
		if err != nil {
			return nil, err
		}
		compileIdxs = append(compileIdxs, idx)
	}

	if emitModule {
		var moduleOut vpath.TypedVirtualPath
		if v, ok := option.Get(opts, option.IDEmitModulePathEQ); ok {
			moduleOut = cache.InternTyped(v.Value, filetype.SwiftModule)
		} else if p, ok := req.OutputFileMap.WholeModuleOutput(filetype.SwiftModule); ok {
			moduleOut = cache.InternTyped(p, filetype.SwiftModule)
		} else {
			moduleOut = cache.InternTyped(filepath.Join(req.WorkDir, moduleName+".swiftmodule"), filetype.SwiftModule)
		}

		if wmo {
			// The single WMO compile job already emits the module
			// directly; nothing further to merge.
			compileJob := graph.Jobs[compileIdxs[0]]
			compileJob.Outputs = append(compileJob.Outputs, moduleOut)
			compileJob.ArgTemplate = append(compileJob.ArgTemplate,
				job.Lit("-emit-module-path"), job.PathArg(moduleOut.Handle, ""))
		} else {
			mergeJob := &job.Job{
				Kind:        job.KindMergeModules,
				DisplayName: job.KindMergeModules.String(),
				Tool:        frontendTool,
				Inputs:      moduleParts,
				Outputs:     []vpath.TypedVirtualPath{moduleOut},
				ArgTemplate: buildMergeModulesArgTemplate(moduleParts, moduleOut),
				RequiresInputs:        true,
				SupportsResponseFiles: job.ResponseFilesSupported,
			}
			if _, err := graph.Add(mergeJob); err != nil {
				return nil, err
			}
		}
	}

	linkMode := selectLinkMode(opts, primaryType)
	if linkMode != LinkNone {
		var autolinkOutputs []vpath.TypedVirtualPath
		if !req.Target.IsDarwin() && option.Has(opts, option.IDStaticLink) {
			extractTool, err := req.Toolchain.AutolinkExtractTool()
			if err != nil {
				return nil, err
			}
			extractToolHandle := cache.Intern(extractTool)
			for _, obj := range objects {
				out := cache.InternTyped(cache.Lookup(obj.Handle).String()+".autolink", filetype.Autolink)
				aj := &job.Job{
					Kind:        job.KindAutolinkExtract,
					DisplayName: job.KindAutolinkExtract.String(),
					Tool:        extractToolHandle,
					Inputs:      []vpath.TypedVirtualPath{obj},
					Outputs:     []vpath.TypedVirtualPath{out},
					ArgTemplate: []job.ArgPiece{job.PathArg(obj.Handle, ""), job.Lit("-o"), job.PathArg(out.Handle, "")},
				}
				if _, err := graph.Add(aj); err != nil {
					return nil, err
				}
				autolinkOutputs = append(autolinkOutputs, out)
			}
		}

		outputName := moduleName
		if v, ok := option.Get(opts, option.IDOutput); ok {
			outputName = v.Value
		}
		var linkOutType filetype.FileType
		switch linkMode {
		case LinkDynamicLibrary:
			linkOutType = filetype.DynamicLibrary
		case LinkStaticArchive:
			linkOutType = filetype.StaticArchive
		default:
			linkOutType = filetype.Executable
		}
		linkOut := cache.InternTyped(filepath.Join(req.WorkDir, outputName), linkOutType)

		linkTool, err := req.Toolchain.Linker()
		if err != nil {
			return nil, err
		}
		linkInputs := append([]vpath.TypedVirtualPath{}, objects...)
		linkInputs = append(linkInputs, autolinkOutputs...)

		linkJob := &job.Job{
			Kind:        job.KindLink,
			DisplayName: job.KindLink.String(),
			Tool:        cache.Intern(linkTool),
			Inputs:      linkInputs,
			Outputs:     []vpath.TypedVirtualPath{linkOut},
			ArgTemplate: buildLinkArgTemplate(cache, opts, objects, autolinkOutputs, linkOut, req.FilelistThreshold),
			RequiresInputs:        true,
			SupportsResponseFiles: job.ResponseFilesSupported,
		}
		if _, err := graph.Add(linkJob); err != nil {
			return nil, err
		}
	}

	if err := graph.Validate(); err != nil {
		return nil, err
	}

	return &Result{Graph: graph, PrimaryType: primaryType, ModuleName: moduleName}, nil
}

// derivedOutput returns the output path for primaryPath's ft artifact:
// the output file map's entry when it has one, fallback otherwise.
func derivedOutput(req Request, primaryPath, fallback string, ft filetype.FileType) string {
	if p, ok := req.OutputFileMap.Output(primaryPath, ft); ok {
		return p
	}
	return fallback
}

func classifyInput(path string) filetype.FileType {
	ext := trimDot(filepath.Ext(path))
	if ft, ok := filetype.FromExtension(ext); ok {
		return ft
	}
	return filetype.Swift
}

func trimDot(ext string) string {
	if len(ext) > 0 && ext[0] == '.' {
		return ext[1:]
	}
	return ext
}

func moduleNameOf(opts []option.ParsedOption, inputs []string, workDir string) string {
	if v, ok := option.Get(opts, option.IDModuleName); ok {
		return v.Value
	}
	if len(inputs) == 1 {
		base := filepath.Base(inputs[0])
		return base[:len(base)-len(filepath.Ext(base))]
	}
	return filepath.Base(workDir)
}

func selectLinkMode(opts []option.ParsedOption, primaryType filetype.FileType) LinkMode {
	switch {
	case option.Has(opts, option.IDEmitLibrary):
		if option.Has(opts, option.IDStaticLink) {
			return LinkStaticArchive
		}
		return LinkDynamicLibrary
	case option.Has(opts, option.IDEmitExecutable):
		return LinkExecutable
	case primaryType == filetype.Object && !option.Has(opts, option.IDCompileOnly) && !option.Has(opts, option.IDEmitObject):
		// default goal with no -c/-emit-object flag and no other
		// primary-mode flag changing the output type: link an
		// executable from the compiled objects.
		return LinkExecutable
	default:
		return LinkNone
	}
}
