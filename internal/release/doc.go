// Package release downloads, verifies and installs prebuilt capture
// binaries published as GitHub release archives.
//
// # Pipeline
//
// An install run is strictly sequential:
//
//  1. Resolve the host to a release target (platform.Resolve)
//  2. Download capture-<triple>.tar.gz, following at most MaxRedirects
//     redirects
//  3. Optionally verify the archive (SHA256, OpenPGP or Sigstore)
//  4. Extract into the destination directory, delete the archive and
//     chmod the binary 0755
//
// Every stage returns a typed error (DownloadError, NetworkError,
// ExtractionError, ...). Nothing in this package exits the process;
// mapping errors to exit codes is left to the command.
//
// # Usage
//
//	inst, err := release.NewInstaller(cfg, release.Options{
//	    Detector: platform.NewDetector(),
//	    Logger:   logger,
//	})
//	if err != nil {
//	    return err
//	}
//	result, err := inst.Install(ctx)
package release
