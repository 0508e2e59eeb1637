package main

import (
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/AloisH/capture-cli/internal/config"
	"github.com/AloisH/capture-cli/internal/platform"
	"github.com/AloisH/capture-cli/internal/release"
	"github.com/spf13/cobra"
)

type installOptions struct {
	packageRoot  string
	version      string
	repo         string
	baseURL      string
	verify       string
	keyring      string
	trustedRoot  string
	certIdentity string
	certIssuer   string
	extractor    string
	maxRedirects int
	timeout      time.Duration
	goos         string
	arch         string
	verbose      bool
	progress     bool
}

func newRootCmd() *cobra.Command {
	opts := &installOptions{}

	cmd := &cobra.Command{
		Use:   "capture-install",
		Short: "Download the capture binary for this platform",
		Long: "capture-install resolves the host platform, downloads the matching capture\n" +
			"release archive from GitHub, extracts it into <package-root>/native and marks\n" +
			"the binary executable. Settings come from package.json, an optional\n" +
			"capture.lua in the package root, and the flags below.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.packageRoot, "package-root", ".", "npm package directory containing package.json")
	f.StringVar(&opts.version, "release", "", "release version to install (default: package.json version)")
	f.StringVar(&opts.repo, "repo", "", "GitHub repository as owner/name")
	f.StringVar(&opts.baseURL, "base-url", "", "release host URL")
	f.StringVar(&opts.verify, "verify", "", "archive verification: none, sha256, gpg or sigstore")
	f.StringVar(&opts.keyring, "keyring", "", "OpenPGP keyring for --verify=gpg")
	f.StringVar(&opts.trustedRoot, "trusted-root", "", "sigstore trusted_root.json (default: fetch via TUF)")
	f.StringVar(&opts.certIdentity, "cert-identity", "", "regexp the signing certificate SAN must match")
	f.StringVar(&opts.certIssuer, "cert-issuer", "", "OIDC issuer of the signing certificate")
	f.StringVar(&opts.extractor, "extractor", "", "archive extractor: native or tar")
	f.IntVar(&opts.maxRedirects, "max-redirects", config.DefaultMaxRedirects, "maximum redirects to follow")
	f.DurationVar(&opts.timeout, "timeout", 0, "overall download timeout (0 = none)")
	f.StringVar(&opts.goos, "os", "", "install for this OS instead of the host's (targets: "+supportedTargets()+")")
	f.StringVar(&opts.arch, "arch", "", "install for this architecture instead of the host's")
	f.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	f.BoolVar(&opts.progress, "progress", false, "show a download progress bar")

	return cmd
}

func runInstall(cmd *cobra.Command, opts *installOptions) error {
	ctx := cmd.Context()
	stdout := cmd.OutOrStdout()
	stderr := cmd.ErrOrStderr()

	logger := config.NewLogger(stderr, opts.verbose || config.DebugEnabled())
	detector := newDetector(opts)

	cfg, err := config.NewLoader(detector, logger).Load(ctx, opts.packageRoot)
	if err != nil {
		return fmt.Errorf("load config: %s", config.FormatError(err, opts.verbose))
	}
	applyFlags(cmd, opts, &cfg)

	var progress io.Writer
	if opts.progress {
		progress = stderr
	}

	inst, err := release.NewInstaller(cfg, release.Options{
		Detector: detector,
		Logger:   logger,
		Progress: progress,
	})
	if err != nil {
		return err
	}

	asset, err := inst.Resolve(ctx)
	if err != nil {
		logger.Debug("no release for host", "targets", supportedTargets())
		return err
	}

	fmt.Fprintf(stdout, "Downloading capture %s (%s)...\n", asset.Version, asset.Target.Triple)

	result, err := inst.InstallAsset(ctx, asset)
	if err != nil {
		return err
	}

	logger.Debug("install complete", "binary", result.BinaryPath, "verified", result.Verified.String(), "replaced", result.Replaced, "duration", result.Duration)
	fmt.Fprintln(stdout, "capture installed successfully")
	return nil
}

// supportedTargets renders the published os/arch pairs, e.g. "linux/x64".
func supportedTargets() string {
	var pairs []string
	for _, t := range platform.SupportedTargets() {
		pairs = append(pairs, t.OS+"/"+t.Arch)
	}
	return strings.Join(pairs, ", ")
}

// newDetector honours --os/--arch, filling the other half from the host.
func newDetector(opts *installOptions) platform.Detector {
	if opts.goos == "" && opts.arch == "" {
		return platform.NewDetector()
	}

	d := platform.StaticDetector{OS: opts.goos, Arch: opts.arch}
	if d.OS == "" {
		d.OS = runtime.GOOS
	}
	if d.Arch == "" {
		d.Arch = runtime.GOARCH
	}
	return d
}

// applyFlags layers explicitly set flags over the loaded configuration.
// Relative paths from capture.lua are taken from the package root, those
// given as flags from the working directory.
func applyFlags(cmd *cobra.Command, opts *installOptions, cfg *config.InstallConfig) {
	cfg.Keyring = underRoot(cfg.PackageRoot, cfg.Keyring)
	cfg.TrustedRoot = underRoot(cfg.PackageRoot, cfg.TrustedRoot)

	f := cmd.Flags()
	set := func(name string, dst *string, value string) {
		if f.Changed(name) {
			*dst = value
		}
	}

	set("release", &cfg.Version, opts.version)
	set("repo", &cfg.Repo, opts.repo)
	set("base-url", &cfg.BaseURL, opts.baseURL)
	set("cert-identity", &cfg.CertIdentity, opts.certIdentity)
	set("cert-issuer", &cfg.CertIssuer, opts.certIssuer)

	if f.Changed("keyring") {
		cfg.Keyring = absPath(opts.keyring)
	}
	if f.Changed("trusted-root") {
		cfg.TrustedRoot = absPath(opts.trustedRoot)
	}
	if f.Changed("verify") {
		cfg.Verify = config.VerifyMode(opts.verify)
	}
	if f.Changed("extractor") {
		cfg.Extractor = config.ExtractorKind(opts.extractor)
	}
	if f.Changed("max-redirects") {
		cfg.MaxRedirects = opts.maxRedirects
	}
	if f.Changed("timeout") {
		cfg.Timeout = opts.timeout
	}
}

func underRoot(root, path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(root, path)
}

func absPath(path string) string {
	if path == "" {
		return ""
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
