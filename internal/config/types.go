package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultRepo is the GitHub repository releases are published under.
	DefaultRepo = "AloisH/capture-cli"
	// DefaultBaseURL is the release host.
	DefaultBaseURL = "https://github.com"
	// DefaultBinaryName is the executable inside every release archive.
	DefaultBinaryName = "capture"
	// DefaultNativeDir is the directory under the package root that
	// receives the binary.
	DefaultNativeDir = "native"
	// DefaultMaxRedirects bounds the redirect chain of a download.
	DefaultMaxRedirects = 10
	// MaxRedirectsLimit is the largest value accepted for MaxRedirects.
	MaxRedirectsLimit = 50

	// ManifestFile is the npm package manifest carrying the version.
	ManifestFile = "package.json"
	// LuaConfigFile is the optional override file in the package root.
	LuaConfigFile = "capture.lua"
)

// VerifyMode selects how a downloaded archive is checked before extraction.
type VerifyMode string

const (
	VerifyNone     VerifyMode = "none"
	VerifySHA256   VerifyMode = "sha256"
	VerifyGPG      VerifyMode = "gpg"
	VerifySigstore VerifyMode = "sigstore"
)

// ExtractorKind selects the archive extraction backend.
type ExtractorKind string

const (
	// ExtractorNative extracts in-process with archive/tar.
	ExtractorNative ExtractorKind = "native"
	// ExtractorTar runs the system tar binary.
	ExtractorTar ExtractorKind = "tar"
)

var (
	repoPattern    = regexp.MustCompile(`^[A-Za-z0-9_.-]+/[A-Za-z0-9_.-]+$`)
	versionPattern = regexp.MustCompile(`^v?[0-9]+\.[0-9]+\.[0-9]+([-+][0-9A-Za-z.-]+)?$`)
)

// InstallConfig holds everything one installer run needs.
type InstallConfig struct {
	Repo       string
	Version    string // without leading "v"
	BaseURL    string
	BinaryName string

	// PackageRoot is the npm package directory; NativeDir is relative to it
	// unless absolute.
	PackageRoot string
	NativeDir   string

	MaxRedirects int
	// Timeout bounds the whole download; zero means no limit.
	Timeout time.Duration

	Verify       VerifyMode
	Keyring      string // armored or binary OpenPGP keyring (gpg)
	TrustedRoot  string // sigstore trusted_root.json; empty fetches via TUF
	CertIdentity string // sigstore SAN regexp
	CertIssuer   string // sigstore OIDC issuer

	Extractor ExtractorKind
}

// DefaultInstallConfig returns the built-in defaults.
func DefaultInstallConfig() InstallConfig {
	return InstallConfig{
		Repo:         DefaultRepo,
		BaseURL:      DefaultBaseURL,
		BinaryName:   DefaultBinaryName,
		NativeDir:    DefaultNativeDir,
		MaxRedirects: DefaultMaxRedirects,
		Verify:       VerifyNone,
		CertIssuer:   "https://token.actions.githubusercontent.com",
		Extractor:    ExtractorNative,
	}
}

// DestDir returns the absolute-or-root-relative directory receiving the binary.
func (c *InstallConfig) DestDir() string {
	if filepath.IsAbs(c.NativeDir) {
		return c.NativeDir
	}
	return filepath.Join(c.PackageRoot, c.NativeDir)
}

// ArchivePath returns where the downloaded archive is written.
func (c *InstallConfig) ArchivePath() string {
	return filepath.Join(c.DestDir(), c.BinaryName+".tar.gz")
}

// BinaryPath returns the path of the installed executable.
func (c *InstallConfig) BinaryPath() string {
	return filepath.Join(c.DestDir(), c.BinaryName)
}

// Tag returns the release tag for the configured version.
func (c *InstallConfig) Tag() string {
	return "v" + strings.TrimPrefix(c.Version, "v")
}

// Validate checks the configuration for values the installer cannot use.
func (c *InstallConfig) Validate() error {
	if !repoPattern.MatchString(c.Repo) {
		return &ValidationError{Field: "repo", Message: fmt.Sprintf("expected owner/name, got %q", c.Repo)}
	}

	if c.Version == "" {
		return &ValidationError{Field: "version", Message: "version is required"}
	}
	if !versionPattern.MatchString(c.Version) {
		return &ValidationError{Field: "version", Message: fmt.Sprintf("invalid semantic version %q", c.Version)}
	}

	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Host == "" {
		return &ValidationError{Field: "base_url", Message: fmt.Sprintf("invalid URL %q", c.BaseURL)}
	}
	if u.Scheme != "https" && u.Scheme != "http" {
		return &ValidationError{Field: "base_url", Message: fmt.Sprintf("unsupported scheme %q", u.Scheme)}
	}

	if c.BinaryName == "" || strings.ContainsAny(c.BinaryName, `/\`) {
		return &ValidationError{Field: "binary", Message: fmt.Sprintf("invalid binary name %q", c.BinaryName)}
	}

	if c.MaxRedirects < 0 || c.MaxRedirects > MaxRedirectsLimit {
		return &ValidationError{
			Field:   "max_redirects",
			Message: fmt.Sprintf("must be between 0 and %d, got %d", MaxRedirectsLimit, c.MaxRedirects),
		}
	}

	if c.Timeout < 0 {
		return &ValidationError{Field: "timeout", Message: "cannot be negative"}
	}

	switch c.Verify {
	case VerifyNone, VerifySHA256:
	case VerifyGPG:
		if c.Keyring == "" {
			return &ValidationError{Field: "keyring", Message: "required when verify = \"gpg\""}
		}
	case VerifySigstore:
		if c.CertIdentity == "" {
			return &ValidationError{Field: "cert_identity", Message: "required when verify = \"sigstore\""}
		}
		if _, err := regexp.Compile(c.CertIdentity); err != nil {
			return &ValidationError{Field: "cert_identity", Message: err.Error()}
		}
	default:
		return &ValidationError{Field: "verify", Message: fmt.Sprintf("unknown mode %q", c.Verify)}
	}

	switch c.Extractor {
	case ExtractorNative, ExtractorTar:
	default:
		return &ValidationError{Field: "extractor", Message: fmt.Sprintf("unknown extractor %q", c.Extractor)}
	}

	return nil
}

// ValidationError reports an unusable configuration value.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}
