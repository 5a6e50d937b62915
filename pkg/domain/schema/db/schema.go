package db

import "context"

// SchemaInterface is the bookkeeping interface for the database schema
// of weft itself.
type SchemaInterface interface {
	// Upgrade applies schema versions newer than the recorded one,
	// in order, until the repository is exhausted.
	Upgrade(ctx context.Context) error

	// Version reads the schema version recorded in the database.
	//
	// Before any version is applied, it is 0.
	Version(ctx context.Context) (int, error)

	// Context derives a context which is cancelled when the schema
	// recorded in the database goes ahead of the newest version this
	// process knows. Servers use it to quit (and get restarted with
	// new binaries) on upgrade.
	//
	// Args
	//
	// - ctx: parent context.
	//
	// Returns
	//
	// - context.Context: cancelled when the recorded schema is newer
	// than the local repository.
	//
	// - context.CancelFunc: releases the watch.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
