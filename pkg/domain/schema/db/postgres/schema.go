// Schema bookkeeping on postgres.
//
// A schema repository is a directory of numbered subdirectories, each
// holding the *.sql files of one schema version. The version applied
// last is recorded in the schema_version table, as its only row.
package postgres

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kpool "github.com/weftml/weft/pkg/conn/db/postgres/pool"
	kschema "github.com/weftml/weft/pkg/domain/schema/db"
	xe "github.com/weftml/weft/pkg/errors"
)

type pgSchema struct {
	pool             kpool.Pool
	schemaRepository string
}

// New creates a new SchemaInterface.
//
// # Args
//
// - schemaRepository: The path to the schema repository directory.
func New(pool kpool.Pool, schemaRepository string) kschema.SchemaInterface {
	return &pgSchema{
		pool:             pool,
		schemaRepository: schemaRepository,
	}
}

type version struct {
	Version int
	Root    string
}

// applySQL runs every *.sql under root against q, in walk order.
func applySQL(ctx context.Context, q kpool.Queryer, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		switch {
		case err != nil:
			return err
		case d.IsDir(), !strings.HasSuffix(path, ".sql"):
			return nil
		}

		query, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		_, err = q.Exec(ctx, string(query))
		return err
	})
}

// record leaves v as the only row of schema_version.
func record(ctx context.Context, tx kpool.Tx, v int) error {
	if _, err := tx.Exec(ctx, `DELETE FROM "schema_version"`); err != nil {
		return err
	}
	_, err := tx.Exec(
		ctx, `INSERT INTO "schema_version" ("version") VALUES ($1)`, v,
	)
	return err
}

func (s *pgSchema) Version(ctx context.Context) (int, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return -1, err
	}
	defer conn.Release()

	// max over zero rows is NULL, so scan via pointer.
	var version *int
	if err := conn.QueryRow(
		ctx, `SELECT max("version") FROM "schema_version"`,
	).Scan(&version); err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) {
			if pgerr.Code == pgerrcode.UndefinedTable {
				return 0, nil
			}
		}
		return -1, err
	}
	if version == nil {
		return 0, nil
	}

	return *version, nil
}

// Upgrade applies, in one transaction, every version newer than the
// recorded one, oldest first.
func (s *pgSchema) Upgrade(ctx context.Context) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	known, err := s.versions()
	if err != nil {
		return err
	}

	current, err := s.Version(ctx)
	if err != nil {
		return err
	}

	for _, v := range known {
		if v.Version <= current {
			continue
		}
		if err := applySQL(ctx, tx, v.Root); err != nil {
			return xe.WrapWithNote(fmt.Sprintf("schema version %d", v.Version), err)
		}
		if err := record(ctx, tx, v.Version); err != nil {
			return err
		}
	}

	return tx.Commit(ctx)
}

func (s *pgSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	cctx, can := context.WithCancelCause(ctx)

	w, err := fsnotify.NewWatcher()
	if err != nil {
		can(err)
		return cctx, func() {}
	}
	if err := w.Add(s.schemaRepository); err != nil {
		can(err)
		return cctx, func() {}
	}

	check := func() {
		if err := s.outdated(ctx); err != nil {
			can(err)
		}
	}

	go func() {
		defer w.Close()

		for {
			select {
			case <-cctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				// a version appears (or goes) as a numbered directory
				// directly under the repository.
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
					continue
				}
				if filepath.Dir(ev.Name) != s.schemaRepository {
					continue
				}

				check()
			}
		}
	}()

	check()
	return cctx, func() { can(nil) }
}

// outdated reports an error when the repository holds a newer version
// than the database records, or when either side cannot be read.
func (s *pgSchema) outdated(ctx context.Context) error {
	known, err := s.versions()
	if err != nil {
		return fmt.Errorf("failed to read schema repository: %w", err)
	}

	current, err := s.Version(ctx)
	if err != nil {
		return fmt.Errorf("failed to get current schema version: %w", err)
	}

	for _, v := range known {
		if current < v.Version {
			return fmt.Errorf(
				"schema is outdated: %d (in db) < %d (in repository)",
				current, v.Version,
			)
		}
	}
	return nil
}

// versions reads the repository. Only numbered directories count;
// the result is sorted, oldest first.
func (s *pgSchema) versions() ([]version, error) {
	entries, err := os.ReadDir(s.schemaRepository)
	if err != nil {
		return nil, err
	}

	found := make([]version, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}

		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}

		found = append(found, version{
			Version: n,
			Root:    filepath.Join(s.schemaRepository, e.Name()),
		})
	}

	slices.SortFunc(
		found,
		func(a, b version) int { return cmp.Compare(a.Version, b.Version) },
	)

	return found, nil
}

func Null() kschema.SchemaInterface {
	return &nullSchema{}
}

type nullSchema struct{}

func (nullSchema) Upgrade(ctx context.Context) error {
	return errors.New("no schema repository available")
}

func (nullSchema) Version(ctx context.Context) (int, error) {
	return -1, nil
}

func (nullSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return ctx, func() {}
}
