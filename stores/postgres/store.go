package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"iter"
	"log/slog"
	"strings"
	"time"

	_ "github.com/lib/pq"

	gorevalidate "github.com/validstore/go-revalidate"
	"github.com/validstore/go-revalidate/stores"
)

var (
	// ErrPingFailed is returned if the initial ping to the database returns an error
	ErrPingFailed = errors.New("ping returned error")
)

var (
	//go:embed create_table.sql
	queryCreateTable string
	//go:embed delete_by_key.sql
	queryDeleteByKey string
	//go:embed delete_expired.sql
	queryDeleteExpired string
	//go:embed fetch_by_key.sql
	queryFetchByKey string
	//go:embed upsert_item.sql
	queryUpsertItem string
	//go:embed keys_by_part.sql
	queryKeysByPart string
	//go:embed keys_by_part_ci.sql
	queryKeysByPartCI string
)

// Config defines the configuration options for the PostgreSQL store.
type Config struct {
	// DeleteExpiredItems enables a background task that sweeps expired
	// validator rows.
	DeleteExpiredItems bool

	// ExpiredTaskTimer defines the interval at which the sweep runs.
	// Shorter durations may impact database performance.
	ExpiredTaskTimer time.Duration

	// RecordTTL defines how long validator rows remain readable. This is
	// independent of the HTTP freshness lifetime the engine emits.
	RecordTTL time.Duration
}

// Store implements the gorevalidate.Store interface on PostgreSQL. Rows
// hold the validator fields in explicit columns so partial-key scans run
// as LIKE queries instead of in the process.
type Store struct {
	db *sql.DB

	ttl time.Duration
	now func() time.Time
}

// Get retrieves the validator stored under k. Expired rows count as
// absent. Returns gorevalidate.ErrNotFound when no live row exists.
func (s *Store) Get(ctx context.Context, k gorevalidate.StoreKey) (*gorevalidate.ValidatorValue, error) {
	stmt, err := s.db.PrepareContext(ctx, queryFetchByKey)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var etag string
	var weak bool
	var lastModified time.Time
	row := stmt.QueryRowContext(ctx, string(k), s.now().UTC())
	if err := row.Scan(&etag, &weak, &lastModified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, gorevalidate.ErrNotFound
		}
		return nil, err
	}

	return &gorevalidate.ValidatorValue{
		ETag:         gorevalidate.ETag{Value: etag, Weak: weak},
		LastModified: lastModified.UTC(),
	}, nil
}

// Set upserts the validator row for k, replacing any previous value as a
// unit.
func (s *Store) Set(ctx context.Context, k gorevalidate.StoreKey, v *gorevalidate.ValidatorValue) error {
	stmt, err := s.db.PrepareContext(ctx, queryUpsertItem)
	if err != nil {
		return err
	}
	defer stmt.Close()

	now := s.now().UTC()
	_, err = stmt.ExecContext(ctx,
		string(k),
		v.ETag.Value,
		v.ETag.Weak,
		v.LastModified.UTC(),
		now.Add(s.ttl),
		now,
	)
	return err
}

// Delete removes the validator row for k. Deleting an absent key is not
// an error.
func (s *Store) Delete(ctx context.Context, k gorevalidate.StoreKey) error {
	stmt, err := s.db.PrepareContext(ctx, queryDeleteByKey)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, string(k))
	return err
}

// escapeLike escapes the LIKE pattern metacharacters in part so it
// matches as a literal substring. Backslash is the default LIKE escape
// character in PostgreSQL.
func escapeLike(part string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(part)
}

// KeysByPart streams keys containing part straight off the row cursor, so
// the full key space is never materialized. Each range re-runs the query.
func (s *Store) KeysByPart(ctx context.Context, part string, ignoreCase bool) iter.Seq2[gorevalidate.StoreKey, error] {
	query := queryKeysByPart
	if ignoreCase {
		query = queryKeysByPartCI
	}

	return func(yield func(gorevalidate.StoreKey, error) bool) {
		rows, err := s.db.QueryContext(ctx, query, escapeLike(part))
		if err != nil {
			yield("", errors.Join(stores.ErrScanAborted, err))
			return
		}
		defer rows.Close()

		for rows.Next() {
			var key string
			if err := rows.Scan(&key); err != nil {
				yield("", errors.Join(stores.ErrScanAborted, err))
				return
			}
			if !yield(gorevalidate.StoreKey(key), nil) {
				return
			}
		}
		if err := rows.Err(); err != nil {
			yield("", errors.Join(stores.ErrScanAborted, err))
		}
	}
}

func createTable(ctx context.Context, db *sql.DB) error {
	stmt, err := db.PrepareContext(ctx, queryCreateTable)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx)
	return err
}

func deleteExpiredItems(ctx context.Context, db *sql.DB, now time.Time) error {
	stmt, err := db.PrepareContext(ctx, queryDeleteExpired)
	if err != nil {
		return err
	}
	defer stmt.Close()

	_, err = stmt.ExecContext(ctx, now.UTC())
	return err
}

func expiredTask(ctx context.Context, db *sql.DB, interval time.Duration, logger *slog.Logger) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := deleteExpiredItems(ctx, db, time.Now()); err != nil {
				logger.WarnContext(ctx, "deleting expired validators failed", "error", err)
			}
		}
	}
}

// New creates a PostgreSQL store. It verifies the connection, creates the
// validators table if needed, and optionally starts the expired-row sweep.
func New(ctx context.Context, db *sql.DB, config *Config, logger *slog.Logger) (*Store, error) {
	if db == nil {
		return nil, stores.ValidationError{
			Reason: "nil database handle",
		}
	}

	if err := db.PingContext(ctx); err != nil {
		return nil, errors.Join(ErrPingFailed, err)
	}

	if err := createTable(ctx, db); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = slog.Default()
	}

	ttl := stores.DefaultRecordTTL
	interval := stores.DefaultExpiredTaskTimer
	if config != nil {
		if config.RecordTTL > 0 {
			ttl = config.RecordTTL
		}
		if config.ExpiredTaskTimer > 0 {
			interval = config.ExpiredTaskTimer
		}
		if config.DeleteExpiredItems {
			go expiredTask(ctx, db, interval, logger)
		}
	}

	return &Store{
		db: db,

		ttl: ttl,
		now: time.Now,
	}, nil
}
