package ingest

import "errors"

var (
	// the upload could not be materialized into a working directory:
	// corrupt archive, container not matching its suffix, or filesystem
	// trouble.
	ErrExtraction = errors.New("cannot extract dataset archive")

	// the declared format label names no known parser.
	ErrUnsupportedFormat = errors.New("unsupported dataset format")

	// COCO: no annotation JSON was found.
	ErrMissingAnnotation = errors.New("no annotation file found")

	// YOLO: no data.yaml (nor any other YAML) was found.
	ErrMissingManifest = errors.New("no manifest found")

	// Pascal VOC: no Annotations/ (nor annotations/) directory was found.
	ErrMissingAnnotationDir = errors.New("no annotations directory found")

	// an annotation file exists but cannot be used: broken JSON/XML or a
	// required field is absent.
	ErrMalformedAnnotation = errors.New("malformed annotation")

	// a manifest exists but cannot be used: broken YAML or a required
	// field is absent.
	ErrMalformedManifest = errors.New("malformed manifest")
)
