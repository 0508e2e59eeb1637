package platform

import "strings"

var familyMap = map[string]string{
	"debian":   FamilyDebian,
	"ubuntu":   FamilyDebian,
	"rhel":     FamilyRHEL,
	"centos":   FamilyRHEL,
	"rocky":    FamilyRHEL,
	"fedora":   FamilyFedora,
	"suse":     FamilySUSE,
	"opensuse": FamilySUSE,
	"arch":     FamilyArch,
	"manjaro":  FamilyArch,
	"alpine":   FamilyAlpine,
}

// archAliases maps GOARCH spellings that differ from the architecture
// table keys. GOARCH "arm64" already matches.
var archAliases = map[string]string{
	"amd64": ArchX64,
}

// normalizeArch maps architecture aliases onto "x64"/"arm64". Anything
// else is returned unchanged so error messages show what the host said.
func normalizeArch(arch string) string {
	if canonical, ok := archAliases[arch]; ok {
		return canonical
	}
	return arch
}

func normalizeID(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func mapFamily(family string) string {
	if canonical, ok := familyMap[normalizeID(family)]; ok {
		return canonical
	}
	return FamilyUnknown
}
