package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	pgerrcode "github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v4"
	kpool "github.com/weftml/weft/pkg/conn/db/postgres/pool"
	"github.com/weftml/weft/pkg/conn/db/postgres/scanner"
	"github.com/weftml/weft/pkg/domain"
	kdsdb "github.com/weftml/weft/pkg/domain/dataset/db"
	kpgerr "github.com/weftml/weft/pkg/domain/errors/dberrors/postgres"
)

type pgDataset struct {
	pool kpool.Pool
}

func New(pool kpool.Pool) kdsdb.DatasetInterface {
	return &pgDataset{pool: pool}
}

func (d *pgDataset) Register(ctx context.Context, dataset domain.Dataset) (int, error) {
	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return 0, err
	}
	defer conn.Release()

	classNames := dataset.Summary.ClassNames
	if classNames == nil {
		classNames = []string{}
	}
	classNamesJson, err := json.Marshal(classNames)
	if err != nil {
		return 0, err
	}

	var id int
	if err := conn.QueryRow(
		ctx,
		`
		insert into "dataset" (
			"name", "version", "format", "upload_path", "work_path",
			"num_classes", "num_images", "num_annotations", "class_names"
		)
		values ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		returning "id"
		`,
		dataset.Name, dataset.Version, string(dataset.Format),
		dataset.UploadPath, dataset.WorkPath,
		dataset.Summary.NumClasses, dataset.Summary.NumImages,
		dataset.Summary.NumAnnotations, classNamesJson,
	).Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return 0, kpgerr.AlreadyExists{
				Table: "dataset",
				Identity: fmt.Sprintf(
					"name='%s', version='%s'", dataset.Name, dataset.Version,
				),
			}
		}
		return 0, err
	}

	return id, nil
}

func (d *pgDataset) Get(ctx context.Context, ids []int) (map[int]domain.Dataset, error) {
	if len(ids) == 0 {
		return map[int]domain.Dataset{}, nil
	}

	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select
			"id", "name", "version", "format", "upload_path", "work_path",
			"num_classes", "num_images", "num_annotations", "class_names",
			"created_at"
		from "dataset"
		where "id" = any($1::int[])
		`,
		ids,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	found, err := scanDatasets(rows)
	if err != nil {
		return nil, err
	}

	datasets := map[int]domain.Dataset{}
	for _, ds := range found {
		datasets[ds.Id] = ds
	}
	return datasets, nil
}

func (d *pgDataset) GetAll(ctx context.Context) ([]domain.Dataset, error) {
	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	rows, err := conn.Query(
		ctx,
		`
		select
			"id", "name", "version", "format", "upload_path", "work_path",
			"num_classes", "num_images", "num_annotations", "class_names",
			"created_at"
		from "dataset"
		order by "id"
		`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanDatasets(rows)
}

func (d *pgDataset) Find(ctx context.Context, name string, version string) ([]int, error) {
	conn, err := d.pool.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Release()

	return scanner.New[int]().QueryAll(
		ctx, conn,
		`
		select "id" from "dataset"
		where ($1 = '' or "name" = $1)
		  and ($2 = '' or "version" = $2)
		order by "id"
		`,
		name, version,
	)
}

func scanDatasets(rows pgx.Rows) ([]domain.Dataset, error) {
	datasets := []domain.Dataset{}
	for rows.Next() {
		ds := domain.Dataset{}
		var format string
		var classNames []byte
		if err := rows.Scan(
			&ds.Id, &ds.Name, &ds.Version, &format,
			&ds.UploadPath, &ds.WorkPath,
			&ds.Summary.NumClasses, &ds.Summary.NumImages,
			&ds.Summary.NumAnnotations, &classNames,
			&ds.CreatedAt,
		); err != nil {
			return nil, err
		}
		ds.Format = domain.DatasetFormat(format)
		if err := json.Unmarshal(classNames, &ds.Summary.ClassNames); err != nil {
			return nil, err
		}
		datasets = append(datasets, ds)
	}
	return datasets, rows.Err()
}
