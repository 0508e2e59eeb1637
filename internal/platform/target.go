package platform

import "fmt"

// Architecture keys accepted by Resolve.
const (
	ArchX64   = "x64"
	ArchARM64 = "arm64"
)

// platformSuffixes maps an OS identifier to the suffix of the release triple.
var platformSuffixes = map[string]string{
	"linux":  "unknown-linux-gnu",
	"darwin": "apple-darwin",
}

// archNames maps an architecture key to its name in the release triple.
var archNames = map[string]string{
	ArchX64:   "x86_64",
	ArchARM64: "aarch64",
}

// Target identifies the release artifact built for one host.
type Target struct {
	OS     string
	Arch   string
	Triple string // <arch>-<platform-suffix>, e.g. x86_64-unknown-linux-gnu
}

func (t Target) String() string {
	return t.Triple
}

// UnsupportedPlatformError is returned when no release is built for an OS.
type UnsupportedPlatformError struct {
	OS string
}

func (e *UnsupportedPlatformError) Error() string {
	return fmt.Sprintf("Unsupported platform: %s", e.OS)
}

// UnsupportedArchitectureError is returned when no release is built for a
// CPU architecture.
type UnsupportedArchitectureError struct {
	Arch string
}

func (e *UnsupportedArchitectureError) Error() string {
	return fmt.Sprintf("Unsupported architecture: %s", e.Arch)
}

// Resolve maps raw OS and architecture identifiers to a release target.
// Identifiers are matched exactly; the only alias is Go's "amd64" for
// "x64". The OS is checked before the architecture.
func Resolve(goos, arch string) (Target, error) {
	suffix, ok := platformSuffixes[goos]
	if !ok {
		return Target{}, &UnsupportedPlatformError{OS: goos}
	}

	archKey := normalizeArch(arch)
	name, ok := archNames[archKey]
	if !ok {
		return Target{}, &UnsupportedArchitectureError{Arch: arch}
	}

	return Target{
		OS:     goos,
		Arch:   archKey,
		Triple: name + "-" + suffix,
	}, nil
}

// ResolveInfo resolves the target for detected host information.
func ResolveInfo(info *Info) (Target, error) {
	if info == nil {
		return Target{}, fmt.Errorf("platform info is required")
	}
	arch := info.Arch
	if info.ArchRaw != "" {
		arch = info.ArchRaw
	}
	return Resolve(info.OS, arch)
}

// SupportedTargets lists every triple a release is published for, in a
// stable order.
func SupportedTargets() []Target {
	var targets []Target
	for _, goos := range []string{"darwin", "linux"} {
		for _, arch := range []string{ArchARM64, ArchX64} {
			t, _ := Resolve(goos, arch)
			targets = append(targets, t)
		}
	}
	return targets
}
