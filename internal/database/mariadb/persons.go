package mariadb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/kozaktomas/face-register/internal/database"
)

const (
	errNoSuchTable   = 1146
	errBadFieldError = 1054
)

// PersonRepository provides MariaDB-backed person storage.
type PersonRepository struct {
	pool  *Pool
	owned bool
}

// NewPersonRepository creates a person repository on a shared pool.
func NewPersonRepository(pool *Pool) *PersonRepository {
	return &PersonRepository{pool: pool}
}

// Pool returns the underlying pool.
func (r *PersonRepository) Pool() *Pool {
	return r.pool
}

// Close releases the pool if the repository owns it.
func (r *PersonRepository) Close() error {
	if !r.owned {
		return nil
	}
	return r.pool.Close()
}

// Ping checks the database is reachable.
func (r *PersonRepository) Ping(ctx context.Context) error {
	return r.pool.Ping(ctx)
}

const personColumns = "id, lastname, firstname, `identity`, object_key, created_at, updated_at"

// upsertPersonQuery relies on the uq_person_name unique key over the name fragments.
// A NULL identity keeps whatever is stored.
const upsertPersonQuery = `
	INSERT INTO person (lastname, firstname, lastname_key, firstname_key, ` + "`identity`" + `, object_key)
	VALUES (?, ?, ?, ?, ?, ?)
	ON DUPLICATE KEY UPDATE
		lastname = VALUES(lastname),
		firstname = VALUES(firstname),
		` + "`identity`" + ` = COALESCE(VALUES(` + "`identity`" + `), ` + "`identity`" + `),
		object_key = VALUES(object_key),
		updated_at = CURRENT_TIMESTAMP(3)
`

// UpsertPerson inserts or updates the person keyed by the name fragments.
func (r *PersonRepository) UpsertPerson(ctx context.Context, p database.PersonUpsert) (*database.PersonRecord, error) {
	tx, err := r.pool.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin upsert: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var identity sql.NullString
	if p.Identity != nil {
		identity = sql.NullString{String: *p.Identity, Valid: true}
	}

	_, err = tx.ExecContext(ctx, upsertPersonQuery,
		p.Lastname, p.Firstname, p.LastnameKey, p.FirstnameKey, identity, p.ObjectKey)
	if err != nil {
		if isMySQLError(err, errNoSuchTable) || isMySQLError(err, errBadFieldError) {
			return nil, fmt.Errorf("upsert person: schema mismatch, run migrations: %w", err)
		}
		return nil, fmt.Errorf("upsert person: %w", err)
	}

	row := tx.QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM person WHERE lastname_key = ? AND firstname_key = ?",
		p.LastnameKey, p.FirstnameKey)
	rec, err := scanPerson(row)
	if err != nil {
		return nil, fmt.Errorf("read upserted person: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit upsert: %w", err)
	}
	return &rec, nil
}

// GetPerson returns the person stored under the name fragments, nil if none.
func (r *PersonRepository) GetPerson(ctx context.Context, lastnameKey, firstnameKey string) (*database.PersonRecord, error) {
	row := r.pool.db.QueryRowContext(ctx,
		"SELECT "+personColumns+" FROM person WHERE lastname_key = ? AND firstname_key = ?",
		lastnameKey, firstnameKey)
	rec, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	return &rec, nil
}

// ListPersons returns all persons, newest id first.
func (r *PersonRepository) ListPersons(ctx context.Context) ([]database.PersonRecord, error) {
	rows, err := r.pool.db.QueryContext(ctx, "SELECT "+personColumns+" FROM person ORDER BY id DESC")
	if err != nil {
		return nil, fmt.Errorf("query persons: %w", err)
	}
	defer rows.Close()

	var persons []database.PersonRecord
	for rows.Next() {
		rec, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		persons = append(persons, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate persons: %w", err)
	}
	return persons, nil
}

// CountPersons returns the number of stored persons.
func (r *PersonRepository) CountPersons(ctx context.Context) (int, error) {
	var count int
	if err := r.pool.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM person").Scan(&count); err != nil {
		return 0, fmt.Errorf("count persons: %w", err)
	}
	return count, nil
}

func scanPerson(scanner interface{ Scan(...any) error }) (database.PersonRecord, error) {
	var rec database.PersonRecord
	var identity sql.NullString
	err := scanner.Scan(&rec.ID, &rec.Lastname, &rec.Firstname, &identity, &rec.ObjectKey, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return rec, err
	}
	if identity.Valid {
		rec.Identity = &identity.String
	}
	return rec, nil
}
