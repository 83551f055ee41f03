package table_test

import (
	"context"
	"testing"

	"github.com/gofrs/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"restaurant-pos/internal/table"
)

type fakeRow struct {
	scanFn func(dest ...any) error
}

func (r fakeRow) Scan(dest ...any) error {
	return r.scanFn(dest...)
}

// fakeDB stands in for the pool or transaction the occupancy writes
// run on.
type fakeDB struct {
	execFn     func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	queryRowFn func(ctx context.Context, sql string, args ...any) pgx.Row
}

func (f *fakeDB) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	return f.execFn(ctx, sql, arguments...)
}

func (f *fakeDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return nil, nil
}

func (f *fakeDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return f.queryRowFn(ctx, sql, args...)
}

func TestMarkOccupied_Success(t *testing.T) {
	db := &fakeDB{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 1"), nil
		},
	}
	repo := table.NewRepository(db)

	err := repo.MarkOccupied(context.Background(), db, uuid.Must(uuid.NewV4()))
	assert.NoError(t, err)
}

func TestMarkOccupied_AlreadyOccupiedConflicts(t *testing.T) {
	// The status guard in the UPDATE touches no row when the table is
	// already occupied; the re-read distinguishes conflict from a
	// missing table.
	db := &fakeDB{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return fakeRow{scanFn: func(dest ...any) error {
				status, ok := dest[0].(*table.Status)
				require.True(t, ok)
				*status = table.StatusOccupied
				return nil
			}}
		},
	}
	repo := table.NewRepository(db)

	err := repo.MarkOccupied(context.Background(), db, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, table.ErrTableConflict)
}

func TestMarkOccupied_UnknownTable(t *testing.T) {
	db := &fakeDB{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
		queryRowFn: func(ctx context.Context, sql string, args ...any) pgx.Row {
			return fakeRow{scanFn: func(dest ...any) error {
				return pgx.ErrNoRows
			}}
		},
	}
	repo := table.NewRepository(db)

	err := repo.MarkOccupied(context.Background(), db, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, table.ErrTableNotFound)
}

func TestMarkFree_UnknownTable(t *testing.T) {
	db := &fakeDB{
		execFn: func(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
			return pgconn.NewCommandTag("UPDATE 0"), nil
		},
	}
	repo := table.NewRepository(db)

	err := repo.MarkFree(context.Background(), db, uuid.Must(uuid.NewV4()))
	assert.ErrorIs(t, err, table.ErrTableNotFound)
}
