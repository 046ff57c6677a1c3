package dbx

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

// openEventsDB returns an in-memory sqlite database holding a reduced
// events/participants schema.
func openEventsDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:"+t.Name()+"?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(4)
	t.Cleanup(func() { _ = db.Close() })

	for _, ddl := range []string{
		`CREATE TABLE IF NOT EXISTS events (id TEXT PRIMARY KEY, event_name TEXT NOT NULL)`,
		`CREATE TABLE IF NOT EXISTS participants (id TEXT PRIMARY KEY, rfid_number TEXT UNIQUE)`,
	} {
		_, err = db.Exec(ddl)
		require.NoError(t, err)
	}
	return db
}

func rows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM `+table).Scan(&n))
	return n
}

func addEvent(ctx context.Context, tx DBTX, id string) error {
	_, err := tx.ExecContext(ctx, `INSERT INTO events(id, event_name) VALUES (?, 'Fun Run')`, id)
	return err
}

func TestWithTx_Commit(t *testing.T) {
	db := openEventsDB(t)

	err := WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
		if err := addEvent(ctx, tx, "e1"); err != nil {
			return err
		}
		return addEvent(ctx, tx, "e2")
	})
	require.NoError(t, err)
	assert.Equal(t, 2, rows(t, db, "events"))
}

func TestWithTx_RollsBack(t *testing.T) {
	tests := []struct {
		name string
		fn   func(ctx context.Context, tx DBTX) error
	}{
		{
			name: "callback error",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := addEvent(ctx, tx, "e1"); err != nil {
					return err
				}
				return errors.New("seed aborted")
			},
		},
		{
			name: "duplicate rfid",
			fn: func(ctx context.Context, tx DBTX) error {
				if err := addEvent(ctx, tx, "e1"); err != nil {
					return err
				}
				if _, err := tx.ExecContext(ctx, `INSERT INTO participants(id, rfid_number) VALUES ('p1', 'RF-1')`); err != nil {
					return err
				}
				_, err := tx.ExecContext(ctx, `INSERT INTO participants(id, rfid_number) VALUES ('p2', 'RF-1')`)
				return err
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := openEventsDB(t)
			require.Error(t, WithTx(context.Background(), db, nil, tt.fn))
			assert.Equal(t, 0, rows(t, db, "events"))
			assert.Equal(t, 0, rows(t, db, "participants"))
		})
	}
}

func TestWithTx_PanicRollsBackAndPropagates(t *testing.T) {
	db := openEventsDB(t)

	assert.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, nil, func(ctx context.Context, tx DBTX) error {
			require.NoError(t, addEvent(ctx, tx, "e1"))
			panic("kaput")
		})
	})
	assert.Equal(t, 0, rows(t, db, "events"))
}

func TestWithTx_BeginFailsOnClosedDB(t *testing.T) {
	db := openEventsDB(t)
	require.NoError(t, db.Close())

	called := false
	err := WithTx(context.Background(), db, nil, func(context.Context, DBTX) error {
		called = true
		return nil
	})
	assert.Error(t, err)
	assert.False(t, called)
}
