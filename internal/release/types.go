package release

import (
	"fmt"
	"strings"
	"time"

	"github.com/AloisH/capture-cli/internal/config"
	"github.com/AloisH/capture-cli/internal/platform"
)

// VerificationMethod indicates how an archive was verified.
type VerificationMethod int

const (
	// VerificationNone means the archive was installed without a check.
	VerificationNone VerificationMethod = iota
	VerificationSHA256
	VerificationGPG
	VerificationSigstore
)

// String returns the string representation of the verification method
func (v VerificationMethod) String() string {
	switch v {
	case VerificationNone:
		return "None"
	case VerificationSHA256:
		return "SHA256"
	case VerificationGPG:
		return "GPG"
	case VerificationSigstore:
		return "Sigstore"
	default:
		return "Unknown"
	}
}

func methodFor(mode config.VerifyMode) VerificationMethod {
	switch mode {
	case config.VerifySHA256:
		return VerificationSHA256
	case config.VerifyGPG:
		return VerificationGPG
	case config.VerifySigstore:
		return VerificationSigstore
	default:
		return VerificationNone
	}
}

// Asset describes one release archive and its companion files.
type Asset struct {
	Target  platform.Target
	Version string
	Name    string // capture-<triple>.tar.gz
	URL     string

	ChecksumURL  string // <asset>.sha256
	SignatureURL string // <asset>.asc
	BundleURL    string // <asset>.sigstore.json
}

// NewAsset builds download URLs for target.
// Pattern: <base>/<owner>/<repo>/releases/download/v<version>/<binary>-<triple>.tar.gz
func NewAsset(cfg *config.InstallConfig, target platform.Target) Asset {
	base := fmt.Sprintf("%s/%s/releases/download/%s",
		strings.TrimSuffix(cfg.BaseURL, "/"), cfg.Repo, cfg.Tag())
	name := fmt.Sprintf("%s-%s.tar.gz", cfg.BinaryName, target.Triple)
	url := base + "/" + name

	return Asset{
		Target:       target,
		Version:      strings.TrimPrefix(cfg.Version, "v"),
		Name:         name,
		URL:          url,
		ChecksumURL:  url + ".sha256",
		SignatureURL: url + ".asc",
		BundleURL:    url + ".sigstore.json",
	}
}

// Result describes a completed installation.
type Result struct {
	Target     platform.Target
	Version    string
	URL        string
	BinaryPath string
	Verified   VerificationMethod
	Replaced   bool // an executable binary was already installed
	Duration   time.Duration
}
