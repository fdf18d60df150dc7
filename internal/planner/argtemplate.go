package planner

import (
	"github.com/detentsh/driver/internal/job"
	"github.com/detentsh/driver/internal/option"
	"github.com/detentsh/driver/internal/vpath"
)

// buildCompileArgTemplate assembles the ArgTemplate for one compile Job.
// Primaries are marked with "-primary-file" so the frontend knows which
// of its several input files to emit for this invocation; every other
// classified source is passed along as context only.
func buildCompileArgTemplate(
	cache *vpath.Cache,
	opts []option.ParsedOption,
	req Request,
	primaries []vpath.TypedVirtualPath,
	allInputs []vpath.TypedVirtualPath,
	primaryOut vpath.TypedVirtualPath,
	pch *vpath.TypedVirtualPath,
	filelistThreshold int,
) []job.ArgPiece {
	var pieces []job.ArgPiece
	pieces = append(pieces, job.Lit("-frontend"), job.Lit("-c"))

	isPrimary := make(map[vpath.Handle]bool, len(primaries))
	for _, p := range primaries {
		isPrimary[p.Handle] = true
	}

	if len(allInputs)+1 > filelistThreshold {
		pieces = append(pieces, job.FilelistArg(allInputs[0].Handle, "-filelist"))
		for _, p := range primaries {
			pieces = append(pieces, job.Lit("-primary-file"), job.PathArg(p.Handle, ""))
		}
	} else {
		for _, in := range allInputs {
			if isPrimary[in.Handle] {
				pieces = append(pieces, job.Lit("-primary-file"))
			}
			pieces = append(pieces, job.PathArg(in.Handle, ""))
		}
	}

	if pch != nil {
		pieces = append(pieces, job.Lit("-import-objc-header"), job.PathArg(pch.Handle, ""))
	}

	for _, t := range option.All(opts, option.IDTarget) {
		pieces = append(pieces, job.Lit("-target"), job.Lit(t.Value))
	}
	for _, s := range option.All(opts, option.IDSDK) {
		pieces = append(pieces, job.Lit("-sdk"), job.Lit(s.Value))
	}
	for _, p := range option.All(opts, option.IDImportPath) {
		pieces = append(pieces, job.Lit("-I"+p.Value))
	}
	for _, x := range option.All(opts, option.IDXfrontend) {
		pieces = append(pieces, job.Lit(x.Value))
	}

	pieces = append(pieces, job.Lit("-o"), job.PathArg(primaryOut.Handle, ""))
	return pieces
}

// buildMergeModulesArgTemplate assembles the ArgTemplate for the job
// that combines per-batch partial modules into the module's final
// .swiftmodule.
func buildMergeModulesArgTemplate(parts []vpath.TypedVirtualPath, out vpath.TypedVirtualPath) []job.ArgPiece {
	pieces := []job.ArgPiece{job.Lit("-frontend"), job.Lit("-merge-modules")}
	for _, p := range parts {
		pieces = append(pieces, job.PathArg(p.Handle, ""))
	}
	pieces = append(pieces, job.Lit("-o"), job.PathArg(out.Handle, ""))
	return pieces
}

// buildLinkArgTemplate assembles the ArgTemplate for the final link
// job, collapsing object inputs into a filelist once the job's
// combined input+output count (objects, autolink outputs, and the
// linked output) crosses filelistThreshold.
func buildLinkArgTemplate(
	cache *vpath.Cache,
	opts []option.ParsedOption,
	objects []vpath.TypedVirtualPath,
	autolink []vpath.TypedVirtualPath,
	out vpath.TypedVirtualPath,
	filelistThreshold int,
) []job.ArgPiece {
	var pieces []job.ArgPiece

	if len(objects) > 0 && len(objects)+len(autolink)+1 > filelistThreshold {
		pieces = append(pieces, job.FilelistArg(objects[0].Handle, "-filelist"))
	} else {
		for _, o := range objects {
			pieces = append(pieces, job.PathArg(o.Handle, ""))
		}
	}
	for _, a := range autolink {
		pieces = append(pieces, job.PathArg(a.Handle, ""))
	}
	for _, p := range option.All(opts, option.IDLibraryPath) {
		pieces = append(pieces, job.Lit("-L"+p.Value))
	}
	for _, l := range option.All(opts, option.IDLinkLibrary) {
		pieces = append(pieces, job.Lit("-l"+l.Value))
	}
	for _, x := range option.All(opts, option.IDXlinker) {
		pieces = append(pieces, job.Lit(x.Value))
	}
	pieces = append(pieces, job.Lit("-o"), job.PathArg(out.Handle, ""))
	return pieces
}
