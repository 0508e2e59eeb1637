package release

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/AloisH/capture-cli/internal/config"
)

// Extractor unpacks a gzip-compressed tar archive into a directory,
// replacing files that already exist there.
type Extractor interface {
	Extract(ctx context.Context, archivePath, destDir string) error
}

// NewExtractor returns the extractor for kind.
func NewExtractor(kind config.ExtractorKind) (Extractor, error) {
	switch kind {
	case config.ExtractorNative, "":
		return NativeExtractor{}, nil
	case config.ExtractorTar:
		return CommandExtractor{Command: "tar"}, nil
	default:
		return nil, fmt.Errorf("unknown extractor: %s", kind)
	}
}

// NativeExtractor extracts in-process with archive/tar.
type NativeExtractor struct{}

// Extract extracts a .tar.gz archive to a destination directory
func (NativeExtractor) Extract(ctx context.Context, archivePath, destDir string) error {
	archiveFile, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("open archive: %w", err)
	}
	defer archiveFile.Close()

	gzipReader, err := gzip.NewReader(archiveFile)
	if err != nil {
		return fmt.Errorf("create gzip reader: %w", err)
	}
	defer gzipReader.Close()

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	root := filepath.Clean(destDir) + string(os.PathSeparator)
	tarReader := tar.NewReader(gzipReader)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		header, err := tarReader.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read tar header: %w", err)
		}

		// Reject entries escaping destDir ("../x", "/etc/x").
		target := filepath.Join(destDir, header.Name)
		if !strings.HasPrefix(target+string(os.PathSeparator), root) {
			return fmt.Errorf("illegal file path: %s", header.Name)
		}

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0755); err != nil {
				return fmt.Errorf("create directory %s: %w", target, err)
			}

		case tar.TypeReg:
			if err := writeEntry(target, tarReader, header.FileInfo().Mode().Perm()); err != nil {
				return err
			}

		case tar.TypeSymlink:
			if filepath.IsAbs(header.Linkname) ||
				!strings.HasPrefix(filepath.Join(filepath.Dir(target), header.Linkname)+string(os.PathSeparator), root) {
				return fmt.Errorf("illegal symlink target: %s -> %s", header.Name, header.Linkname)
			}
			_ = os.Remove(target)
			if err := os.Symlink(header.Linkname, target); err != nil {
				return fmt.Errorf("create symlink %s: %w", target, err)
			}

		default:
			// devices, fifos and hard links are never part of a release
			continue
		}
	}
}

// writeEntry replaces target with the contents of r.
func writeEntry(target string, r io.Reader, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("create parent dir for %s: %w", target, err)
	}

	// Remove first so a running or read-only old binary does not block the write.
	_ = os.Remove(target)
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("create file %s: %w", target, err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("write file %s: %w", target, err)
	}
	return out.Close()
}

// CommandExtractor runs `<Command> xzf <archive>` inside the destination
// directory.
type CommandExtractor struct {
	Command string
}

// Extract invokes the external tar binary.
func (e CommandExtractor) Extract(ctx context.Context, archivePath, destDir string) error {
	absArchive, err := filepath.Abs(archivePath)
	if err != nil {
		return fmt.Errorf("resolve archive path: %w", err)
	}
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return fmt.Errorf("create dest dir: %w", err)
	}

	cmd := exec.CommandContext(ctx, e.Command, "xzf", absArchive)
	cmd.Dir = destDir
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s xzf: %w: %s", e.Command, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// SetExecutable sets executable permissions on a file
func SetExecutable(path string) error {
	if err := os.Chmod(path, 0755); err != nil {
		return fmt.Errorf("set executable: %w", err)
	}
	return nil
}
