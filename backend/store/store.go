// Package store reads and seeds the member catalog in Postgres.
//
// The site only reads from it, once, at startup. Writes are done by the
// db-seeder command.
package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq" // PostgreSQL driver
	"github.com/pressly/goose/v3"

	"github.com/liangxing/matchsite/backend/directory"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Store wraps the connection pool holding the members table.
type Store struct {
	db *sqlx.DB
}

// Open connects to Postgres and applies pending migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to db: %w", err)
	}
	if err := migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

func migrate(db *sqlx.DB) error {
	goose.SetBaseFS(embedMigrations)
	goose.SetLogger(goose.NopLogger())

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("setting dialect for migrations: %w", err)
	}
	if err := goose.Up(db.DB, "migrations"); err != nil {
		return fmt.Errorf("applying migrations: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("closing store: %w", err)
	}
	return nil
}

const selectMembers = `
	SELECT id, name, age, height, education, occupation, income, location, gender, description, image_url
	FROM members
	ORDER BY id`

// LoadCandidates returns every member ordered by id.
func (s *Store) LoadCandidates(ctx context.Context) ([]directory.Candidate, error) {
	var out []directory.Candidate
	if err := s.db.SelectContext(ctx, &out, selectMembers); err != nil {
		return nil, fmt.Errorf("loading members: %w", err)
	}
	return out, nil
}

const insertMember = `
	INSERT INTO members (id, name, age, height, education, occupation, income, location, gender, description, image_url)
	VALUES (:id, :name, :age, :height, :education, :occupation, :income, :location, :gender, :description, :image_url)
	ON CONFLICT (id) DO UPDATE SET
		name = EXCLUDED.name,
		age = EXCLUDED.age,
		height = EXCLUDED.height,
		education = EXCLUDED.education,
		occupation = EXCLUDED.occupation,
		income = EXCLUDED.income,
		location = EXCLUDED.location,
		gender = EXCLUDED.gender,
		description = EXCLUDED.description,
		image_url = EXCLUDED.image_url`

// InsertCandidates upserts members in a single transaction.
func (s *Store) InsertCandidates(ctx context.Context, candidates []directory.Candidate) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		for _, c := range candidates {
			if _, err := tx.NamedExecContext(ctx, insertMember, c); err != nil {
				return fmt.Errorf("inserting member %d: %w", c.ID, err)
			}
		}
		return nil
	})
}

// Truncate removes every member.
func (s *Store) Truncate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `TRUNCATE members`); err != nil {
		return fmt.Errorf("truncating members: %w", err)
	}
	return nil
}

// MaxID is the highest member id, or 0 for an empty table.
func (s *Store) MaxID(ctx context.Context) (int, error) {
	var id int
	if err := s.db.GetContext(ctx, &id, `SELECT COALESCE(MAX(id), 0) FROM members`); err != nil {
		return 0, fmt.Errorf("reading max member id: %w", err)
	}
	return id, nil
}

// withTx commits when fn succeeds and rolls back on error or panic.
func (s *Store) withTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := s.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
