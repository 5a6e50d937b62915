package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/mholt/archiver/v4"
)

// Extract materializes the upload at archivePath into a fresh working
// directory under the ingester's work root and returns that directory.
//
// The container format is chosen by filename suffix, case-sensitively:
// .zip, .tar.gz, .tgz and .tar are unpacked; any other suffix is treated
// as a plain file and copied in unchanged. Extraction is all-or-nothing
// for the caller: on error the returned directory is "", though a
// partially populated directory may remain on disk for the caller's
// cleanup routine.
func (i *Ingester) Extract(ctx context.Context, archivePath string) (string, error) {
	if _, err := os.Stat(archivePath); err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	workDir, err := i.newWorkDir(archivePath)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrExtraction, err)
	}

	name := filepath.Base(archivePath)
	switch {
	case strings.HasSuffix(name, ".zip"):
		err = i.unpack(ctx, archivePath, workDir, archiver.Zip{})
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		err = i.unpack(ctx, archivePath, workDir, archiver.CompressedArchive{
			Archival:    archiver.Tar{},
			Compression: archiver.Gz{},
		})
	case strings.HasSuffix(name, ".tar"):
		err = i.unpack(ctx, archivePath, workDir, archiver.Tar{})
	default:
		err = copyIntoDir(archivePath, workDir)
	}
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrExtraction, archivePath, err)
	}
	return workDir, nil
}

// newWorkDir derives the working directory for an upload: the base name
// with its outermost extension stripped, plus a generated suffix so that
// same-named uploads cannot collide.
func (i *Ingester) newWorkDir(archivePath string) (string, error) {
	base := filepath.Base(archivePath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	if stem == "" {
		stem = "dataset"
	}

	dir := filepath.Join(i.workRoot, stem+"-"+uuid.NewString())
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

func (i *Ingester) unpack(ctx context.Context, archivePath string, workDir string, format archiver.Extractor) error {
	src, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer src.Close()

	return format.Extract(ctx, src, nil, func(ctx context.Context, f archiver.File) error {
		dest, err := securePath(workDir, f.NameInArchive)
		if err != nil {
			return err
		}
		if f.IsDir() {
			return os.MkdirAll(dest, 0755)
		}

		// entries may arrive before their parent directory entry
		if err := os.MkdirAll(filepath.Dir(dest), 0755); err != nil {
			return err
		}

		entry, err := f.Open()
		if err != nil {
			return err
		}
		defer entry.Close()

		perm := f.Mode().Perm()
		if perm == 0 {
			perm = 0644
		}
		out, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
		if err != nil {
			return err
		}
		defer out.Close()

		_, err = io.Copy(out, entry)
		return err
	})
}

// securePath joins name under root, refusing entries that would escape it.
func securePath(root string, name string) (string, error) {
	dest := filepath.Join(root, name)
	if dest != root && !strings.HasPrefix(dest, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive entry escapes the working directory: %s", name)
	}
	return dest, nil
}

func copyIntoDir(srcPath string, dir string) error {
	src, err := os.Open(srcPath)
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(dir, filepath.Base(srcPath)))
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}
