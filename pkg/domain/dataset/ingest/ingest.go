// Package ingest turns uploaded dataset archives into canonical summaries.
//
// The pipeline is: extract the archive into a working directory, pick the
// parser for the caller-declared format, and read class/image counts out of
// the annotation files. Everything runs synchronously on the caller; the
// package keeps no state between invocations beyond the working directories
// it leaves behind, whose ownership passes to the caller.
package ingest

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/labstack/gommon/log"
	"github.com/weftml/weft/pkg/domain"
)

// DefaultAnnotationSampleCap bounds how many Pascal VOC annotation files
// are read for class discovery.
const DefaultAnnotationSampleCap = 100

// DefaultImageExtensions are the file suffixes counted as images in YOLO
// split directories. Matching is case-sensitive.
func DefaultImageExtensions() []string {
	return []string{".jpg", ".jpeg", ".png"}
}

// Ingester runs the ingestion pipeline. Construct with New; the zero value
// is not usable.
type Ingester struct {
	workRoot  string
	sampleCap int
	imageExts []string
	logger    *log.Logger
}

type Option func(*Ingester)

// WithLogger replaces the default silent logger.
func WithLogger(l *log.Logger) Option {
	return func(i *Ingester) {
		if l != nil {
			i.logger = l
		}
	}
}

// WithAnnotationSampleCap sets how many Pascal VOC annotation files are
// read for class discovery. Non-positive caps disable sampling and read
// every file.
func WithAnnotationSampleCap(cap int) Option {
	return func(i *Ingester) {
		i.sampleCap = cap
	}
}

// WithImageExtensions replaces the suffixes counted as images in YOLO
// split directories.
func WithImageExtensions(exts ...string) Option {
	return func(i *Ingester) {
		if len(exts) != 0 {
			i.imageExts = exts
		}
	}
}

// New creates an Ingester extracting uploads into workRoot.
//
// # Args
//
// - workRoot: directory under which per-upload working directories are
// created. It is created on first use if absent.
//
// - options: see WithLogger, WithAnnotationSampleCap, WithImageExtensions.
func New(workRoot string, options ...Option) *Ingester {
	i := &Ingester{
		workRoot:  workRoot,
		sampleCap: DefaultAnnotationSampleCap,
		imageExts: DefaultImageExtensions(),
		logger:    silentLogger(),
	}
	for _, opt := range options {
		opt(i)
	}
	return i
}

func silentLogger() *log.Logger {
	l := log.New("ingest")
	l.SetOutput(io.Discard)
	l.SetLevel(log.OFF)
	return l
}

// Ingest runs the whole pipeline for one upload: extract, dispatch on the
// declared format label, parse.
//
// # Args
//
// - ctx: cancels extraction between archive entries.
//
// - archivePath: an already-persisted upload. The file is left in place.
//
// - formatLabel: the caller-declared annotation format. Matched against
// the supported formats case-insensitively.
//
// Returns:
//
// - string: the working directory holding the extracted contents. It is
// set whenever extraction succeeded, also when a later stage failed, so
// that the caller can clean it up. The caller owns it from then on.
//
// - domain.DatasetSummary: the canonical summary.
//
// - error: ErrExtraction, ErrUnsupportedFormat or a parser error.
func (i *Ingester) Ingest(ctx context.Context, archivePath string, formatLabel string) (string, domain.DatasetSummary, error) {
	workDir, err := i.Extract(ctx, archivePath)
	if err != nil {
		return "", domain.DatasetSummary{}, err
	}
	i.logger.Debugf("extracted %s into %s", archivePath, workDir)

	format, err := domain.AsDatasetFormat(formatLabel)
	if err != nil {
		return workDir, domain.DatasetSummary{}, fmt.Errorf(
			"%w: %s", ErrUnsupportedFormat, formatLabel,
		)
	}
	i.logger.Infof("parsing %s as %s", workDir, format)

	summary, err := i.Parse(workDir, format)
	if err != nil {
		return workDir, domain.DatasetSummary{}, err
	}
	return workDir, summary, nil
}

// Parse summarizes an already-extracted dataset in the given format.
func (i *Ingester) Parse(workDir string, format domain.DatasetFormat) (domain.DatasetSummary, error) {
	switch format {
	case domain.FormatCOCO:
		return i.ParseCOCO(workDir)
	case domain.FormatYOLO:
		return i.ParseYOLO(workDir)
	case domain.FormatPascalVOC:
		return i.ParsePascalVOC(workDir)
	default:
		return domain.DatasetSummary{}, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// firstMatch picks the lexicographically first regular file in dir whose
// name satisfies match. When the pick is ambiguous it logs which candidate
// won. Unreadable or missing directories yield no match.
func (i *Ingester) firstMatch(dir string, match func(name string) bool) (string, bool) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", false
	}

	found := []string{}
	for _, e := range entries {
		if e.IsDir() || !match(e.Name()) {
			continue
		}
		found = append(found, e.Name())
	}
	if len(found) == 0 {
		return "", false
	}
	if 1 < len(found) {
		i.logger.Warnf(
			"%d candidate files in %s; picking %s", len(found), dir, found[0],
		)
	}
	return filepath.Join(dir, found[0]), true
}
