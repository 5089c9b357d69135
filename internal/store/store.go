// Package store keeps a history of conversion runs in PostgreSQL.
//
// A run is one uploaded or converted contact list. The run row carries the
// source name and detected format; its contacts are copied into
// card_contacts in the same transaction so a run is either stored whole or
// not at all.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/JonMunkholm/bizcards/internal/config"
	"github.com/JonMunkholm/bizcards/internal/contact"
)

// ErrRunNotFound is returned when a run id does not exist.
var ErrRunNotFound = errors.New("run not found")

// DB is satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type DB interface {
	Begin(context.Context) (pgx.Tx, error)
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
}

// Run describes one stored conversion.
type Run struct {
	ID        uuid.UUID `json:"id"`
	Source    string    `json:"source"`
	Format    string    `json:"format"`
	Encoding  string    `json:"encoding"`
	Contacts  int       `json:"contacts"`
	ClientIP  string    `json:"client_ip,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Store reads and writes runs.
type Store struct {
	db    DB
	now   func() time.Time
	newID func() uuid.UUID
}

// New wraps db.
func New(db DB) *Store {
	return &Store{db: db, now: time.Now, newID: uuid.New}
}

// Connect opens a pool with the configured limits and verifies it.
func Connect(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}

// Migrate creates the run tables if they do not exist.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SaveRun stores run and its contacts. ID and CreatedAt are assigned here;
// the stored run is returned.
func (s *Store) SaveRun(ctx context.Context, run Run, contacts []contact.Contact) (Run, error) {
	run.ID = s.newID()
	run.CreatedAt = s.now().UTC()
	run.Contacts = len(contacts)

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return Run{}, fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, insertRunSQL,
		run.ID, run.Source, run.Format, run.Encoding, run.Contacts, run.ClientIP, run.UserAgent, run.CreatedAt,
	); err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}

	if len(contacts) > 0 {
		rows := make([][]any, len(contacts))
		for i, c := range contacts {
			rows[i] = []any{
				run.ID, i, c.Surname, c.Firstname, c.Fathername, c.Duty,
				c.Address, c.Phones, c.Email, c.Skype, c.Website,
			}
		}
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"card_contacts"}, contactColumns, pgx.CopyFromRows(rows))
		if err != nil {
			return Run{}, fmt.Errorf("copy contacts: %w", err)
		}
		if int(n) != len(contacts) {
			return Run{}, fmt.Errorf("copy contacts: wrote %d of %d rows", n, len(contacts))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Run{}, fmt.Errorf("commit: %w", err)
	}
	return run, nil
}

// RecentRuns returns up to limit runs, newest first.
func (s *Store) RecentRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := s.db.Query(ctx, recentRunsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.Source, &r.Format, &r.Encoding, &r.Contacts, &r.ClientIP, &r.UserAgent, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	return runs, nil
}

// GetRun returns one run.
func (s *Store) GetRun(ctx context.Context, id uuid.UUID) (Run, error) {
	var r Run
	err := s.db.QueryRow(ctx, getRunSQL, id).
		Scan(&r.ID, &r.Source, &r.Format, &r.Encoding, &r.Contacts, &r.ClientIP, &r.UserAgent, &r.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Run{}, ErrRunNotFound
	}
	if err != nil {
		return Run{}, fmt.Errorf("get run: %w", err)
	}
	return r, nil
}

// RunContacts returns the contacts of a run in their original order.
func (s *Store) RunContacts(ctx context.Context, id uuid.UUID) ([]contact.Contact, error) {
	rows, err := s.db.Query(ctx, runContactsSQL, id)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	var contacts []contact.Contact
	for rows.Next() {
		var c contact.Contact
		if err := rows.Scan(
			&c.Surname, &c.Firstname, &c.Fathername, &c.Duty,
			&c.Address, &c.Phones, &c.Email, &c.Skype, &c.Website,
		); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	return contacts, nil
}
