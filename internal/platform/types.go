// Package platform detects the host operating system and CPU architecture
// and resolves them to the release target triple used to name prebuilt
// capture archives.
//
// Detection uses runtime.GOOS/GOARCH, with Linux distribution details from
// gopsutil. Distribution details are informational only: they are exposed
// to capture.lua through the read-only platform table but never influence
// which archive is downloaded.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"
	FamilyRHEL    = "rhel"
	FamilyFedora  = "fedora"
	FamilySUSE    = "suse"
	FamilyArch    = "arch"
	FamilyAlpine  = "alpine"
	FamilyUnknown = "unknown"
)

// Info contains platform detection information.
type Info struct {
	OS       string // "linux", "darwin", ...
	Arch     string // release naming input: "x64", "arm64" (aliases normalized)
	ArchRaw  string // original GOARCH (e.g., "amd64")
	Platform string // distro ID (Linux only, e.g., "ubuntu")
	Family   string // canonical family (e.g., "debian")
	Version  string // distro version (Linux only)
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsMacOS returns true if the platform is macOS.
func (i *Info) IsMacOS() bool {
	return i.OS == "darwin"
}

// IsX64 returns true for 64-bit x86 hosts.
func (i *Info) IsX64() bool {
	return i.Arch == ArchX64
}

// IsARM64 returns true for 64-bit ARM hosts.
func (i *Info) IsARM64() bool {
	return i.Arch == ArchARM64
}

// IsAppleSilicon returns true if running on Apple Silicon (macOS + arm64).
func (i *Info) IsAppleSilicon() bool {
	return i.IsMacOS() && i.IsARM64()
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}

// StaticDetector reports fixed OS and architecture identifiers. It is used
// when the caller overrides host detection (e.g. cross-installing into a
// package that will be shipped to another machine).
type StaticDetector struct {
	OS   string
	Arch string
}

// Detect returns the configured identifiers without touching the host.
func (d StaticDetector) Detect(ctx context.Context) (*Info, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Info{
		OS:      d.OS,
		Arch:    normalizeArch(d.Arch),
		ArchRaw: d.Arch,
	}, nil
}
