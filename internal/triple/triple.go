// Package triple parses autoconf-style target strings of the form
// "arch-vendor-os-env[-objfmt]" into a structured, immutable Triple and
// answers platform-feature queries against it.
//
// Parsing never fails: any component that cannot be recognized against
// the known keyword tables becomes its "unknown" variant, and the raw
// input string is always preserved verbatim.
package triple

import "strings"

// Arch identifies the target instruction-set architecture.
type Arch int

const (
	ArchUnknown Arch = iota
	ArchX86
	ArchX86_64
	ArchARM
	ArchARM64
	ArchARM64_32
	ArchThumb
	ArchPowerPC
	ArchPowerPC64
	ArchPowerPC64LE
	ArchSystemZ
	ArchMIPS
	ArchMIPSEL
	ArchMIPS64
	ArchMIPS64EL
	ArchRISCV32
	ArchRISCV64
	ArchWASM32
	ArchBPFEL
	ArchBPFEB
)

// SubArch narrows an Arch to a specific instruction-set revision, as
// recorded by arm/thumb/aarch64 variants such as "armv7" or "thumbv6".
type SubArch int

const (
	SubArchNone SubArch = iota
	SubArchARMv6
	SubArchARMv7
	SubArchARMv7K
	SubArchARMv7S
	SubArchARM64E
	SubArchARM64EC
)

// Vendor identifies the triple's second component.
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorApple
	VendorPC
	VendorIBM
	VendorNone
)

// OS identifies the target operating system family.
type OS int

const (
	OSUnknown OS = iota
	OSDarwin
	OSMacOSX
	OSIOS
	OSTvOS
	OSWatchOS
	OSVisionOS
	OSLinux
	OSFreeBSD
	OSWindows
	OSWASI
	OSAIX
	OSPS4
	OSHaiku
	OSNoneOS
)

// Environment identifies the ABI/environment component.
type Environment int

const (
	EnvUnknown Environment = iota
	EnvGNU
	EnvGNUABIN32
	EnvGNUABI64
	EnvEABI
	EnvEABIHF
	EnvAndroid
	EnvMSVC
	EnvGNUEABI
	EnvGNUEABIHF
	EnvSimulator
	EnvMacABI
)

// ObjectFormat identifies the target's native object-file container.
type ObjectFormat int

const (
	ObjectFormatUnknown ObjectFormat = iota
	ObjectFormatELF
	ObjectFormatMachO
	ObjectFormatCOFF
	ObjectFormatXCOFF
	ObjectFormatWasm
)

// DarwinPlatform identifies a specific Apple platform/SDK combination.
type DarwinPlatform int

const (
	DarwinPlatformNone DarwinPlatform = iota
	DarwinPlatformMacOS
	DarwinPlatformIOS
	DarwinPlatformIOSSimulator
	DarwinPlatformTvOS
	DarwinPlatformTvOSSimulator
	DarwinPlatformWatchOS
	DarwinPlatformWatchOSSimulator
	DarwinPlatformVisionOS
	DarwinPlatformVisionOSSimulator
	DarwinPlatformMacCatalyst
)

// Version is a (major, minor, micro) version number with missing
// components defaulting to 0.
type Version struct {
	Major, Minor, Micro int
}

// FeatureAvailability names a compiler/runtime feature whose
// availability depends on the target platform and OS version.
type FeatureAvailability int

const (
	FeatureConcurrency FeatureAvailability = iota
	FeatureBackDeployedConcurrency
	FeatureObjCInterop
	FeatureOpaqueTypeErasure
	FeaturePointerBoundsSafety
)

// Triple is an immutable, parsed target descriptor. Every field has an
// "unknown"/zero variant; raw is always the exact input string.
type Triple struct {
	raw          string
	arch         Arch
	subArch      SubArch
	vendor       Vendor
	os           OS
	osVersionStr string
	env          Environment
	objectFormat ObjectFormat
}

// Raw returns the exact string this Triple was parsed from.
func (t Triple) Raw() string { return t.raw }

// Arch returns the target architecture.
func (t Triple) Arch() Arch { return t.arch }

// SubArch returns the architecture revision, if any.
func (t Triple) SubArch() SubArch { return t.subArch }

// Vendor returns the target vendor.
func (t Triple) Vendor() Vendor { return t.vendor }

// OS returns the target operating system.
func (t Triple) OS() OS { return t.os }

// Environment returns the target ABI/environment.
func (t Triple) Environment() Environment { return t.env }

// ObjectFormat returns the target's native object-file container,
// either explicit in the raw triple or derived from (arch, os).
func (t Triple) ObjectFormat() ObjectFormat { return t.objectFormat }

// archTable lists recognized arch spellings; order does not matter for
// exact matches but fallback subroutines below run after the table miss.
var archTable = map[string]Arch{
	"i386": ArchX86, "i486": ArchX86, "i586": ArchX86, "i686": ArchX86, "i786": ArchX86,
	"x86_64": ArchX86_64, "amd64": ArchX86_64,
	"arm64":     ArchARM64,
	"arm64_32":  ArchARM64_32,
	"powerpc":   ArchPowerPC,
	"ppc":       ArchPowerPC,
	"powerpc64": ArchPowerPC64,
	"ppc64":     ArchPowerPC64,
	"powerpc64le": ArchPowerPC64LE,
	"ppc64le":     ArchPowerPC64LE,
	"s390x":       ArchSystemZ,
	"mips":        ArchMIPS,
	"mipsel":      ArchMIPSEL,
	"mips64":      ArchMIPS64,
	"mips64el":    ArchMIPS64EL,
	"riscv32":     ArchRISCV32,
	"riscv64":     ArchRISCV64,
	"wasm32":      ArchWASM32,
}

// parseArch resolves the first triple component, falling back to
// prefix-based subroutines for the arm/thumb/aarch64/bpf families whose
// spellings carry an embedded sub-architecture revision.
func parseArch(s string) (Arch, SubArch) {
	if a, ok := archTable[s]; ok {
		return a, SubArchNone
	}
	switch {
	case s == "aarch64" || s == "aarch64_32" || strings.HasPrefix(s, "aarch64"):
		if strings.HasSuffix(s, "_32") {
			return ArchARM64_32, SubArchNone
		}
		if strings.HasSuffix(s, "e") {
			return ArchARM64, SubArchARM64E
		}
		return ArchARM64, SubArchNone
	case strings.HasPrefix(s, "arm64e"):
		return ArchARM64, SubArchARM64E
	case strings.HasPrefix(s, "arm64ec"):
		return ArchARM64, SubArchARM64EC
	case strings.HasPrefix(s, "armv7k"):
		return ArchARM, SubArchARMv7K
	case strings.HasPrefix(s, "armv7s"):
		return ArchARM, SubArchARMv7S
	case strings.HasPrefix(s, "armv7"):
		return ArchARM, SubArchARMv7
	case strings.HasPrefix(s, "armv6"):
		return ArchARM, SubArchARMv6
	case strings.HasPrefix(s, "arm"):
		return ArchARM, SubArchNone
	case strings.HasPrefix(s, "thumbv7"):
		return ArchThumb, SubArchARMv7
	case strings.HasPrefix(s, "thumb"):
		return ArchThumb, SubArchNone
	case strings.HasPrefix(s, "bpfel"):
		return ArchBPFEL, SubArchNone
	case strings.HasPrefix(s, "bpfeb"):
		return ArchBPFEB, SubArchNone
	case strings.HasPrefix(s, "bpf"):
		return ArchBPFEL, SubArchNone
	}
	return ArchUnknown, SubArchNone
}

var vendorTable = map[string]Vendor{
	"apple": VendorApple,
	"pc":    VendorPC,
	"ibm":   VendorIBM,
	"none":  VendorNone,
	"unknown": VendorUnknown,
}

// osPrefixes is ordered: longer, more specific prefixes must precede
// shorter ones so that e.g. "macosx" is matched before a hypothetical
// bare "mac" entry would steal it.
var osPrefixes = []struct {
	prefix string
	os     OS
}{
	{"macosx", OSMacOSX},
	{"macos", OSMacOSX},
	{"darwin", OSDarwin},
	{"ios", OSIOS},
	{"tvos", OSTvOS},
	{"watchos", OSWatchOS},
	{"xros", OSVisionOS},
	{"visionos", OSVisionOS},
	{"linux", OSLinux},
	{"freebsd", OSFreeBSD},
	{"windows", OSWindows},
	{"wasi", OSWASI},
	{"aix", OSAIX},
	{"ps4", OSPS4},
	{"haiku", OSHaiku},
	{"none", OSNoneOS},
}

// envPrefixes is ordered: "gnueabihf" must precede "gnueabi" must
// precede "gnu" for correct longest-prefix resolution.
var envPrefixes = []struct {
	prefix string
	env    Environment
}{
	{"gnuabin32", EnvGNUABIN32},
	{"gnuabi64", EnvGNUABI64},
	{"gnueabihf", EnvGNUEABIHF},
	{"gnueabi", EnvGNUEABI},
	{"eabihf", EnvEABIHF},
	{"eabi", EnvEABI},
	{"gnu", EnvGNU},
	{"android", EnvAndroid},
	{"msvc", EnvMSVC},
	{"simulator", EnvSimulator},
	{"macabi", EnvMacABI},
}

// objFormatSuffixes is ordered: "xcoff" must precede "coff" since
// "xcoff" would otherwise match the shorter "coff" suffix check first.
var objFormatSuffixes = []struct {
	suffix string
	format ObjectFormat
}{
	{"xcoff", ObjectFormatXCOFF},
	{"coff", ObjectFormatCOFF},
	{"elf", ObjectFormatELF},
	{"macho", ObjectFormatMachO},
	{"wasm", ObjectFormatWasm},
}

func parseOS(s string) (OS, string) {
	bestLen := -1
	var best OS
	for _, e := range osPrefixes {
		if strings.HasPrefix(s, e.prefix) && len(e.prefix) > bestLen {
			bestLen = len(e.prefix)
			best = e.os
		}
	}
	if bestLen < 0 {
		return OSUnknown, ""
	}
	return best, s[bestLen:]
}

func parseEnv(s string) Environment {
	bestLen := -1
	var best Environment
	for _, e := range envPrefixes {
		if strings.HasPrefix(s, e.prefix) && len(e.prefix) > bestLen {
			bestLen = len(e.prefix)
			best = e.env
		}
	}
	if bestLen < 0 {
		return EnvUnknown
	}
	return best
}

func parseObjectFormat(s string) (ObjectFormat, bool) {
	for _, e := range objFormatSuffixes {
		if strings.HasSuffix(s, e.suffix) {
			return e.format, true
		}
	}
	return ObjectFormatUnknown, false
}

// defaultObjectFormat derives an object format from (arch, os) when the
// fourth component does not name one explicitly.
func defaultObjectFormat(arch Arch, os OS) ObjectFormat {
	switch {
	case os == OSDarwin || os == OSMacOSX || os == OSIOS || os == OSTvOS || os == OSWatchOS || os == OSVisionOS:
		return ObjectFormatMachO
	case os == OSWindows:
		return ObjectFormatCOFF
	case os == OSAIX && (arch == ArchPowerPC || arch == ArchPowerPC64):
		return ObjectFormatXCOFF
	case arch == ArchWASM32:
		return ObjectFormatWasm
	default:
		return ObjectFormatELF
	}
}

// Parse splits raw on "-" (at most 3 splits, so the 4th field may itself
// contain a dash) and classifies each component. Parsing never fails;
// unrecognized components become their "unknown" variant.
func Parse(raw string) Triple {
	parts := strings.SplitN(raw, "-", 4)
	for len(parts) < 4 {
		parts = append(parts, "")
	}

	archStr, vendorStr, osStr, rest := parts[0], parts[1], parts[2], parts[3]

	arch, subArch := parseArch(archStr)
	vendor := vendorTable[vendorStr]

	os, osVersionStr := parseOS(osStr)

	var env Environment
	if rest != "" {
		env = parseEnv(rest)
	} else {
		// MIPS subarchitecture strings at index 0 may imply an ABI when
		// the environment component is absent entirely.
		switch {
		case strings.Contains(archStr, "n32"):
			env = EnvGNUABIN32
		case arch == ArchMIPS64 || arch == ArchMIPS64EL:
			env = EnvGNUABI64
		case arch == ArchMIPS || arch == ArchMIPSEL:
			env = EnvGNU
		default:
			env = EnvUnknown
		}
	}

	objFormat, explicit := parseObjectFormat(rest)
	if !explicit {
		objFormat = defaultObjectFormat(arch, os)
	}

	return Triple{
		raw:          raw,
		arch:         arch,
		subArch:      subArch,
		vendor:       vendor,
		os:           os,
		osVersionStr: osVersionStr,
		env:          env,
		objectFormat: objFormat,
	}
}

// OSName returns the canonical name of the target OS family.
func (t Triple) OSName() string {
	switch t.os {
	case OSMacOSX:
		return "macosx"
	case OSDarwin:
		return "darwin"
	case OSIOS:
		return "ios"
	case OSTvOS:
		return "tvos"
	case OSWatchOS:
		return "watchos"
	case OSVisionOS:
		return "xros"
	case OSLinux:
		return "linux"
	case OSFreeBSD:
		return "freebsd"
	case OSWindows:
		return "windows"
	case OSWASI:
		return "wasi"
	case OSAIX:
		return "aix"
	case OSPS4:
		return "ps4"
	case OSHaiku:
		return "haiku"
	case OSNoneOS:
		return "none"
	default:
		return "unknown"
	}
}

// osCanonicalPrefix returns the string OSVersion must strip from the raw
// OS component before reading numeric fields.
func (t Triple) osCanonicalPrefix() string {
	for _, e := range osPrefixes {
		if e.os == t.os {
			return e.prefix
		}
	}
	return ""
}

// OSVersion splits the OS component on "." after stripping the canonical
// OS-name prefix (already done by Parse) and reads up to three integer
// fields; missing fields read as 0. This is the literal version carried
// by the triple string; use GetMacOSXVersion for the Darwin-version-skew
// adjusted macOS release.
func (t Triple) OSVersion() Version {
	fields := strings.SplitN(t.osVersionStr, ".", 3)
	nums := [3]int{}
	for i := 0; i < len(fields) && i < 3; i++ {
		nums[i] = atoiSafe(fields[i])
	}
	return Version{Major: nums[0], Minor: nums[1], Micro: nums[2]}
}

func atoiSafe(s string) int {
	n := 0
	for _, r := range s {
		if r < '0' || r > '9' {
			return n
		}
		n = n*10 + int(r-'0')
	}
	return n
}

// GetMacOSXVersion returns the macOS version this triple implies. A
// bare "darwinN" triple (N >= 4) maps to macOS 10.(N-4).M, matching the
// historical Darwin/macOS major-version offset; a "macosxM.m.p" triple
// reports its version unchanged.
func (t Triple) GetMacOSXVersion() Version {
	switch t.os {
	case OSMacOSX:
		return t.OSVersion()
	case OSDarwin:
		v := t.OSVersion()
		if v.Major >= 4 {
			return Version{Major: 10, Minor: v.Major - 4, Micro: v.Minor}
		}
		return Version{}
	default:
		return Version{Major: 10, Minor: 9, Micro: 0}
	}
}

// IsDarwin reports whether the target is any Apple platform.
func (t Triple) IsDarwin() bool {
	switch t.os {
	case OSDarwin, OSMacOSX, OSIOS, OSTvOS, OSWatchOS, OSVisionOS:
		return true
	default:
		return false
	}
}

// IsWindows reports whether the target OS is Windows.
func (t Triple) IsWindows() bool { return t.os == OSWindows }

// IsSimulator reports whether the environment component names a
// simulator ABI (arm64-apple-ios17.0-simulator, etc).
func (t Triple) IsSimulator() bool { return t.env == EnvSimulator }

// IsMacCatalyst reports whether this is the "Mac Catalyst" ABI variant
// of iOS running on macOS.
func (t Triple) IsMacCatalyst() bool { return t.os == OSIOS && t.env == EnvMacABI }

// DarwinPlatform returns the specific Apple platform/simulator-or-not
// pairing this triple names, or DarwinPlatformNone for non-Apple
// targets.
func (t Triple) DarwinPlatform() DarwinPlatform {
	switch t.os {
	case OSMacOSX, OSDarwin:
		return DarwinPlatformMacOS
	case OSIOS:
		if t.IsMacCatalyst() {
			return DarwinPlatformMacCatalyst
		}
		if t.IsSimulator() {
			return DarwinPlatformIOSSimulator
		}
		return DarwinPlatformIOS
	case OSTvOS:
		if t.IsSimulator() {
			return DarwinPlatformTvOSSimulator
		}
		return DarwinPlatformTvOS
	case OSWatchOS:
		if t.IsSimulator() {
			return DarwinPlatformWatchOSSimulator
		}
		return DarwinPlatformWatchOS
	case OSVisionOS:
		if t.IsSimulator() {
			return DarwinPlatformVisionOSSimulator
		}
		return DarwinPlatformVisionOS
	default:
		return DarwinPlatformNone
	}
}

// PlatformName returns the human platform identifier matching
// DarwinPlatform, or ("", false) for non-Apple targets.
func (t Triple) PlatformName() (string, bool) {
	switch t.DarwinPlatform() {
	case DarwinPlatformMacOS:
		return "macosx", true
	case DarwinPlatformIOS:
		return "iphoneos", true
	case DarwinPlatformIOSSimulator:
		return "iphonesimulator", true
	case DarwinPlatformTvOS:
		return "appletvos", true
	case DarwinPlatformTvOSSimulator:
		return "appletvsimulator", true
	case DarwinPlatformWatchOS:
		return "watchos", true
	case DarwinPlatformWatchOSSimulator:
		return "watchsimulator", true
	case DarwinPlatformVisionOS:
		return "xros", true
	case DarwinPlatformVisionOSSimulator:
		return "xrsimulator", true
	case DarwinPlatformMacCatalyst:
		return "maccatalyst", true
	default:
		return "", false
	}
}

// DefaultDeploymentVersion returns the default minimum OS version for a
// bare-OS-name triple (no explicit version component): iOS defaults to
// major 7 on arm64 and 5 otherwise; watchOS defaults to 2; every other
// platform defaults to whatever OSVersion already parsed.
func (t Triple) DefaultDeploymentVersion() Version {
	if t.osVersionStr != "" {
		return t.OSVersion()
	}
	switch t.os {
	case OSIOS:
		if t.arch == ArchARM64 {
			return Version{Major: 7}
		}
		return Version{Major: 5}
	case OSWatchOS:
		return Version{Major: 2}
	default:
		return t.OSVersion()
	}
}

// Supports answers a feature-availability query for this target.
// FeatureConcurrency back-deploys to macOS 10.15 / iOS 13 and onward;
// the other Apple platforms answer true without a version check. It is
// always available on non-Darwin targets
// (ABI-stable runtime concurrency support is a driver/runtime packaging
// concern outside this core, so non-Darwin always answers true here).
func (t Triple) Supports(f FeatureAvailability) bool {
	if !t.IsDarwin() {
		return true
	}
	v := t.GetMacOSXVersion()
	switch f {
	case FeatureConcurrency, FeatureBackDeployedConcurrency:
		switch t.DarwinPlatform() {
		case DarwinPlatformMacOS, DarwinPlatformMacCatalyst:
			return v.Major > 10 || (v.Major == 10 && v.Minor >= 15)
		case DarwinPlatformIOS, DarwinPlatformIOSSimulator:
			return t.OSVersion().Major >= 13
		default:
			return true
		}
	case FeatureObjCInterop:
		return true
	case FeatureOpaqueTypeErasure:
		return v.Major > 10 || (v.Major == 10 && v.Minor >= 14)
	case FeaturePointerBoundsSafety:
		return false
	default:
		return false
	}
}

// DarwinLibraryNameSuffix returns the per-platform runtime-library
// filename suffix (e.g. "osx", "ios", "iossim") used to select the
// correct Darwin runtime archive, or ("", false) for non-Apple targets.
func (t Triple) DarwinLibraryNameSuffix(distinguishSimulator bool) (string, bool) {
	switch t.DarwinPlatform() {
	case DarwinPlatformMacOS:
		return "osx", true
	case DarwinPlatformIOS:
		return "ios", true
	case DarwinPlatformIOSSimulator:
		if distinguishSimulator {
			return "iossim", true
		}
		return "ios", true
	case DarwinPlatformTvOS:
		return "tvos", true
	case DarwinPlatformTvOSSimulator:
		if distinguishSimulator {
			return "tvossim", true
		}
		return "tvos", true
	case DarwinPlatformWatchOS:
		return "watchos", true
	case DarwinPlatformWatchOSSimulator:
		if distinguishSimulator {
			return "watchossim", true
		}
		return "watchos", true
	case DarwinPlatformVisionOS:
		return "xros", true
	case DarwinPlatformVisionOSSimulator:
		if distinguishSimulator {
			return "xrossim", true
		}
		return "xros", true
	case DarwinPlatformMacCatalyst:
		return "maccatalyst", true
	default:
		return "", false
	}
}
