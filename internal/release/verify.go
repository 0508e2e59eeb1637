package release

import (
	"bufio"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/AloisH/capture-cli/internal/config"
	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// Verifier checks a downloaded archive according to the configured mode,
// fetching the companion file (checksum, signature or bundle) itself.
type Verifier struct {
	cfg        *config.InstallConfig
	downloader *Downloader
	logger     config.Logger
}

// NewVerifier creates a verifier that fetches companion files with d.
func NewVerifier(cfg *config.InstallConfig, d *Downloader, logger config.Logger) *Verifier {
	if logger == nil {
		logger = config.NopLogger()
	}
	return &Verifier{cfg: cfg, downloader: d, logger: logger}
}

// Verify checks archivePath, which was downloaded from asset.URL.
// Companion files are written next to the archive and removed afterwards.
func (v *Verifier) Verify(ctx context.Context, asset Asset, archivePath string) (VerificationMethod, error) {
	method := methodFor(v.cfg.Verify)
	if method == VerificationNone {
		return VerificationNone, nil
	}

	var companionURL string
	switch method {
	case VerificationSHA256:
		companionURL = asset.ChecksumURL
	case VerificationGPG:
		companionURL = asset.SignatureURL
	case VerificationSigstore:
		companionURL = asset.BundleURL
	}

	companionPath := archivePath + filepath.Ext(companionURL)
	if err := v.downloader.DownloadToFile(ctx, companionURL, companionPath); err != nil {
		return method, &VerificationError{Method: method, Err: fmt.Errorf("fetch %s: %w", filepath.Base(companionURL), err)}
	}
	defer os.Remove(companionPath)

	var err error
	switch method {
	case VerificationSHA256:
		err = verifySHA256(archivePath, companionPath, asset.Name)
	case VerificationGPG:
		err = verifyGPG(archivePath, companionPath, v.cfg.Keyring)
	case VerificationSigstore:
		err = verifySigstore(archivePath, companionPath, v.cfg)
	}
	if err != nil {
		return method, &VerificationError{Method: method, Err: err}
	}

	v.logger.Debug("archive verified", "method", method.String(), "asset", asset.Name)
	return method, nil
}

// verifyGPG checks a detached signature (armored or binary) over the archive.
func verifyGPG(archivePath, signaturePath, keyringPath string) error {
	keyring, err := loadKeyring(keyringPath)
	if err != nil {
		return fmt.Errorf("load keyring: %w", err)
	}

	archive, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archive.Close()

	sig, err := os.Open(signaturePath)
	if err != nil {
		return fmt.Errorf("open signature: %w", err)
	}
	defer sig.Close()

	_, err = openpgp.CheckArmoredDetachedSignature(keyring, archive, sig, nil)
	if err != nil {
		// Try non-armored signature
		if _, serr := archive.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("rewind archive: %w", serr)
		}
		if _, serr := sig.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("rewind signature: %w", serr)
		}
		_, err = openpgp.CheckDetachedSignature(keyring, archive, sig, nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}
	return nil
}

// verifySHA256 compares the archive digest with the entry for assetName in
// checksumPath.
func verifySHA256(archivePath, checksumPath, assetName string) error {
	actual, err := calculateSHA256(archivePath)
	if err != nil {
		return fmt.Errorf("calculate checksum: %w", err)
	}

	expected, err := findChecksum(checksumPath, assetName)
	if err != nil {
		return fmt.Errorf("find checksum: %w", err)
	}

	if !strings.EqualFold(actual, expected) {
		return fmt.Errorf("checksum mismatch:\nactual:   %s\nexpected: %s", actual, expected)
	}
	return nil
}

// calculateSHA256 calculates the SHA256 checksum of a file
func calculateSHA256(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}

// findChecksum finds the checksum for filename in a sha256sum-style file.
// Format: "abc123def456  filename.tar.gz" ("*filename" for binary mode).
// A single-entry file holding only the digest applies to any filename.
func findChecksum(checksumPath, filename string) (string, error) {
	file, err := os.Open(checksumPath)
	if err != nil {
		return "", fmt.Errorf("open checksum file: %w", err)
	}
	defer file.Close()

	var lone string
	lines := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		parts := strings.Fields(scanner.Text())
		if len(parts) == 0 {
			continue
		}
		lines++

		if len(parts) == 1 {
			lone = parts[0]
			continue
		}

		name := strings.TrimPrefix(parts[1], "*")
		if name == filename || filepath.Base(name) == filename {
			return parts[0], nil
		}
	}

	if err := scanner.Err(); err != nil {
		return "", fmt.Errorf("scan checksum file: %w", err)
	}

	if lines == 1 && lone != "" {
		return lone, nil
	}

	return "", fmt.Errorf("checksum not found for %s", filename)
}
