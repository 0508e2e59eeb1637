package release

import (
	"fmt"
	"os"

	"github.com/AloisH/capture-cli/internal/config"
	"github.com/sigstore/sigstore-go/pkg/bundle"
	"github.com/sigstore/sigstore-go/pkg/root"
	"github.com/sigstore/sigstore-go/pkg/verify"
)

// verifySigstore checks a Sigstore bundle over the archive. The signing
// certificate must chain to the trusted root and carry the configured
// identity.
func verifySigstore(archivePath, bundlePath string, cfg *config.InstallConfig) error {
	b, err := bundle.LoadJSONFromPath(bundlePath)
	if err != nil {
		return fmt.Errorf("load bundle: %w", err)
	}

	trusted, err := loadTrustedRoot(cfg.TrustedRoot)
	if err != nil {
		return err
	}

	verifier, err := verify.NewVerifier(trusted,
		verify.WithSignedCertificateTimestamps(1),
		verify.WithTransparencyLog(1),
		verify.WithObserverTimestamps(1),
	)
	if err != nil {
		return fmt.Errorf("create verifier: %w", err)
	}

	identity, err := verify.NewShortCertificateIdentity(cfg.CertIssuer, "", "", cfg.CertIdentity)
	if err != nil {
		return fmt.Errorf("certificate identity: %w", err)
	}

	archive, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archive.Close()

	policy := verify.NewPolicy(verify.WithArtifact(archive), verify.WithCertificateIdentity(identity))
	if _, err := verifier.Verify(b, policy); err != nil {
		return fmt.Errorf("verify bundle: %w", err)
	}
	return nil
}

// loadTrustedRoot reads trusted_root.json from path, or fetches the public
// good instance root over TUF when path is empty.
func loadTrustedRoot(path string) (root.TrustedMaterial, error) {
	if path != "" {
		tr, err := root.NewTrustedRootFromPath(path)
		if err != nil {
			return nil, fmt.Errorf("load trusted root: %w", err)
		}
		return tr, nil
	}

	tr, err := root.FetchTrustedRoot()
	if err != nil {
		return nil, fmt.Errorf("fetch trusted root: %w", err)
	}
	return tr, nil
}
