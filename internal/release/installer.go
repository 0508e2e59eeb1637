package release

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"time"

	"github.com/AloisH/capture-cli/internal/config"
	"github.com/AloisH/capture-cli/internal/platform"
)

// Options carries the collaborators of an Installer. Zero values select
// production defaults.
type Options struct {
	Detector  platform.Detector
	Extractor Extractor
	Logger    config.Logger
	// Progress receives a download progress bar; nil disables it.
	Progress io.Writer
	// Client replaces the HTTP client (tests, proxies). Its CheckRedirect
	// is overridden.
	Client *http.Client
}

// Installer runs resolve → download → verify → extract for one package.
type Installer struct {
	cfg        config.InstallConfig
	detector   platform.Detector
	downloader *Downloader
	verifier   *Verifier
	extractor  Extractor
	logger     config.Logger
}

// NewInstaller validates cfg and wires the pipeline stages.
func NewInstaller(cfg config.InstallConfig, opts Options) (*Installer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := opts.Logger
	if logger == nil {
		logger = config.NopLogger()
	}

	detector := opts.Detector
	if detector == nil {
		detector = platform.NewDetector()
	}

	extractor := opts.Extractor
	if extractor == nil {
		var err error
		extractor, err = NewExtractor(cfg.Extractor)
		if err != nil {
			return nil, err
		}
	}

	downloader := NewDownloader(cfg.MaxRedirects)
	if opts.Client != nil {
		client := *opts.Client
		client.CheckRedirect = downloader.client.CheckRedirect
		downloader.client = &client
	}
	downloader.userAgent = DefaultUserAgent + "/" + cfg.Version
	downloader.progress = opts.Progress
	downloader.logger = logger

	inst := &Installer{
		cfg:        cfg,
		detector:   detector,
		downloader: downloader,
		extractor:  extractor,
		logger:     logger,
	}
	inst.verifier = NewVerifier(&inst.cfg, downloader, logger)
	return inst, nil
}

// Resolve detects the host and maps it to a release asset. It performs no
// network or filesystem access.
func (i *Installer) Resolve(ctx context.Context) (Asset, error) {
	info, err := i.detector.Detect(ctx)
	if err != nil {
		return Asset{}, fmt.Errorf("detect platform: %w", err)
	}

	target, err := platform.ResolveInfo(info)
	if err != nil {
		return Asset{}, err
	}

	return NewAsset(&i.cfg, target), nil
}

// Install downloads and installs the binary for the detected host.
func (i *Installer) Install(ctx context.Context) (*Result, error) {
	asset, err := i.Resolve(ctx)
	if err != nil {
		return nil, err
	}
	return i.InstallAsset(ctx, asset)
}

// InstallAsset downloads and installs a resolved asset.
func (i *Installer) InstallAsset(ctx context.Context, asset Asset) (*Result, error) {
	start := time.Now()

	if i.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, i.cfg.Timeout)
		defer cancel()
	}

	archivePath := i.cfg.ArchivePath()
	destDir := i.cfg.DestDir()

	replaced, err := i.IsInstalled()
	if err != nil {
		return nil, err
	}
	if replaced {
		i.logger.Debug("replacing installed binary", "binary", i.cfg.BinaryPath())
	}
	i.logger.Debug("downloading", "url", asset.URL, "archive", archivePath)

	if err := i.downloader.DownloadToFile(ctx, asset.URL, archivePath); err != nil {
		return nil, err
	}

	method, err := i.verifier.Verify(ctx, asset, archivePath)
	if err != nil {
		// never leave an archive that failed its check lying around
		_ = os.Remove(archivePath)
		return nil, err
	}

	if err := i.extractor.Extract(ctx, archivePath, destDir); err != nil {
		return nil, &ExtractionError{Archive: archivePath, Err: err}
	}

	if err := os.Remove(archivePath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, &ExtractionError{Archive: archivePath, Err: fmt.Errorf("remove archive: %w", err)}
	}

	binaryPath := i.cfg.BinaryPath()
	if _, err := os.Stat(binaryPath); err != nil {
		return nil, &ExtractionError{Archive: archivePath, Err: fmt.Errorf("binary %s not found after extraction: %w", i.cfg.BinaryName, err)}
	}
	if err := SetExecutable(binaryPath); err != nil {
		return nil, &ExtractionError{Archive: archivePath, Err: err}
	}

	result := &Result{
		Target:     asset.Target,
		Version:    asset.Version,
		URL:        asset.URL,
		BinaryPath: binaryPath,
		Verified:   method,
		Replaced:   replaced,
		Duration:   time.Since(start),
	}
	i.logger.Debug("installed", "binary", binaryPath, "verified", method.String(), "duration", result.Duration)
	return result, nil
}

// IsInstalled reports whether an executable binary is already present.
func (i *Installer) IsInstalled() (bool, error) {
	info, err := os.Stat(i.cfg.BinaryPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("stat binary: %w", err)
	}
	return info.Mode().IsRegular() && info.Mode().Perm()&0100 != 0, nil
}
