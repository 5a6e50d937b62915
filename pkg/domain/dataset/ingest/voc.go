package ingest

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/weftml/weft/pkg/domain"
)

// ParsePascalVOC summarizes a Pascal VOC dataset: one XML annotation file
// per image under Annotations/ (or annotations/).
//
// Every .xml file counts as one image. Class names are read from the
// lexicographically first files only, up to the configured sample cap, so
// classes first appearing beyond the cap are missed.
func (i *Ingester) ParsePascalVOC(workDir string) (domain.DatasetSummary, error) {
	annotDir := filepath.Join(workDir, "Annotations")
	if fi, err := os.Stat(annotDir); err != nil || !fi.IsDir() {
		annotDir = filepath.Join(workDir, "annotations")
		if fi, err := os.Stat(annotDir); err != nil || !fi.IsDir() {
			return domain.DatasetSummary{}, fmt.Errorf(
				"%w: neither Annotations/ nor annotations/ in %s",
				ErrMissingAnnotationDir, workDir,
			)
		}
	}

	entries, err := os.ReadDir(annotDir)
	if err != nil {
		return domain.DatasetSummary{}, fmt.Errorf("%w: %v", ErrMissingAnnotationDir, err)
	}
	annotFiles := []string{}
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".xml") {
			annotFiles = append(annotFiles, e.Name())
		}
	}

	sample := annotFiles
	if 0 < i.sampleCap && i.sampleCap < len(sample) {
		sample = sample[:i.sampleCap]
		i.logger.Debugf(
			"sampling %d of %d annotation files in %s for class discovery",
			i.sampleCap, len(annotFiles), annotDir,
		)
	}

	classes := map[string]struct{}{}
	for _, name := range sample {
		if err := collectObjectNames(filepath.Join(annotDir, name), classes); err != nil {
			return domain.DatasetSummary{}, err
		}
	}

	classNames := make([]string, 0, len(classes))
	for name := range classes {
		classNames = append(classNames, name)
	}
	sort.Strings(classNames)

	return domain.DatasetSummary{
		NumClasses: len(classes),
		NumImages:  len(annotFiles),
		ClassNames: classNames,
	}, nil
}

// collectObjectNames scans one annotation file and adds the text of each
// <object>'s <name> child to classes. Objects at any depth count; a <name>
// must be a direct child of its <object>.
func collectObjectNames(path string, classes map[string]struct{}) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedAnnotation, err)
	}
	defer f.Close()

	type frame struct {
		name    string
		hasName bool
	}

	decoder := xml.NewDecoder(f)
	stack := []frame{}
	text := strings.Builder{}
	captureAt := -1 // stack index of the <name> being read, -1 when idle

	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrMalformedAnnotation, path, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			parentIsObject := 0 < len(stack) && stack[len(stack)-1].name == "object"
			if t.Name.Local == "name" && parentIsObject && captureAt < 0 {
				stack[len(stack)-1].hasName = true
				captureAt = len(stack)
				text.Reset()
			}
			stack = append(stack, frame{name: t.Name.Local})

		case xml.CharData:
			if 0 <= captureAt {
				text.Write(t)
			}

		case xml.EndElement:
			top := len(stack) - 1
			if top == captureAt {
				classes[text.String()] = struct{}{}
				captureAt = -1
			}
			if stack[top].name == "object" && !stack[top].hasName {
				return fmt.Errorf(
					"%w: %s: object without a name", ErrMalformedAnnotation, path,
				)
			}
			stack = stack[:top]
		}
	}
	return nil
}
