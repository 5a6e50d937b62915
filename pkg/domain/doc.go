package domain

// domain package contains the Domain Models and Interfaces for the Weft application.
//
// `domain/weft` package exposes root object for the Weft application.
// Entrypoints of applications should instantiage the Weft object and use it to interact with the domain.
//
// `domain/ENTITY.go` has high-level entities (Domain Model types) and functions.
// For example, `domain/dataset.go` contains the `Dataset` entity.
//
// `domain/ENTITY` directory contains the "phisical" representation of the domain entities, the RDB
// or external services (pipeline runner, experiment tracker).
// For example, `domain/dataset/db` contains the database expression of the dataset entity
// described in `domain/dataset.go`, and `domain/dataset/ingest` contains how archives become datasets.
//
// `domain/ENTITY/interface.go` exposes the client interface to handle the domain entity.
//
// # Entities
//
// Core entities in the domain are:
//
// - `dataset`: An uploaded object-detection dataset.
// Archives are extracted and their annotations parsed (COCO, YOLO or Pascal VOC) into one
// canonical summary: class count, image count, annotation count (when the format has one)
// and class names. The archive and its unpacked working copy both stay on disk,
// and the summary is persisted.
//
// - `trainjob`: A training job over a dataset.
// Its configuration is validated against the model catalog, filled with the training defaults,
// registered with the experiment tracker, and handed to the pipeline runner.
// The record keeps the tracking ids and the pipeline run id, and its status
// (pending/running/completed/failed/cancelled) follows the runner's word.
//
// - `model`: A trained model artifact reported back by the pipeline,
// with its evaluation metrics.
//
// And others:
//
// - `schema`: Manages the versioned database schema and its upgrades.
// Applying lives in `cmd/schema_upgrader`.
