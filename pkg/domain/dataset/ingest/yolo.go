package ingest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/weftml/weft/pkg/domain"
	"gopkg.in/yaml.v3"
)

// ParseYOLO summarizes a YOLO dataset: a YAML manifest naming the classes
// plus train/val/test image directories.
//
// The manifest is data.yaml in workDir or, failing that, the first other
// .yaml/.yml file there.
func (i *Ingester) ParseYOLO(workDir string) (domain.DatasetSummary, error) {
	manifest := filepath.Join(workDir, "data.yaml")
	if _, err := os.Stat(manifest); err != nil {
		isYAML := func(name string) bool {
			return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
		}
		found, ok := i.firstMatch(workDir, isYAML)
		if !ok {
			return domain.DatasetSummary{}, fmt.Errorf(
				"%w: no data.yaml or other YAML in %s", ErrMissingManifest, workDir,
			)
		}
		manifest = found
	}

	classNames, err := classNamesOf(manifest)
	if err != nil {
		return domain.DatasetSummary{}, err
	}

	numImages := 0
	for _, split := range []string{"train", "val", "test"} {
		numImages += i.countImages(filepath.Join(workDir, split, "images"))
	}

	return domain.DatasetSummary{
		NumClasses: len(classNames),
		NumImages:  numImages,
		ClassNames: classNames,
	}, nil
}

// classNamesOf reads the manifest's names field.
//
// names is either a sequence, taken verbatim, or a mapping from integer
// class id to name. Mappings are densified: the result spans ids 0..max,
// with "" placeholders at the ids the manifest does not mention.
func classNamesOf(manifestPath string) ([]string, error) {
	raw, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedManifest, err)
	}

	manifest := struct {
		Names *yaml.Node `yaml:"names"`
	}{}
	if err := yaml.Unmarshal(raw, &manifest); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrMalformedManifest, manifestPath, err)
	}
	if manifest.Names == nil {
		return nil, fmt.Errorf(
			"%w: %s has no names field", ErrMalformedManifest, manifestPath,
		)
	}

	switch manifest.Names.Kind {
	case yaml.SequenceNode:
		classNames := []string{}
		if err := manifest.Names.Decode(&classNames); err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrMalformedManifest, manifestPath, err)
		}
		return classNames, nil

	case yaml.MappingNode:
		byId := map[int]string{}
		if err := manifest.Names.Decode(&byId); err != nil {
			return nil, fmt.Errorf(
				"%w: %s: names mapping is not {class id: name}: %v",
				ErrMalformedManifest, manifestPath, err,
			)
		}

		maxId := -1
		for id := range byId {
			if id < 0 {
				return nil, fmt.Errorf(
					"%w: %s: negative class id %d", ErrMalformedManifest, manifestPath, id,
				)
			}
			if maxId < id {
				maxId = id
			}
		}

		classNames := make([]string, maxId+1)
		for id, name := range byId {
			classNames[id] = name
		}
		return classNames, nil

	default:
		return nil, fmt.Errorf(
			"%w: %s: names is neither a sequence nor a mapping",
			ErrMalformedManifest, manifestPath,
		)
	}
}

// countImages counts regular files in dir carrying one of the image
// extensions. Missing directories count zero.
func (i *Ingester) countImages(dir string) int {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0
	}

	n := 0
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, ext := range i.imageExts {
			if strings.HasSuffix(e.Name(), ext) {
				n += 1
				break
			}
		}
	}
	return n
}
