/*
Package sqlite provides a SQLite-backed implementation of the collaborator
interfaces.

PURPOSE:
  Implements the directory (employees, concept catalog, assigned concepts),
  the full-replacement updater and the checkpoint store using SQLite. In a
  deployment where those collaborators are remote services this package is
  replaced wholesale; the engine only sees the interfaces.

INTERFACES IMPLEMENTED:
  tenure.Directory:          Employee / catalog / assigned-concept reads
  tenure.Updater:            Full-replacement employee update
  scheduler.CheckpointStore: Monthly-dedupe key/value pair

FULL-REPLACEMENT ENFORCEMENT:
  UpdateEmployee deletes every assigned-concept row for the employee and
  inserts the payload's rows inside one SQL transaction. Omission of a
  record deletes it; records without an assignment id get a fresh UUID.

KEY TABLES:
  employees:         Directory records (legajo is the primary key)
  concept_catalog:   Concept definitions with category tags
  assigned_concepts: Mutable per-employee assignment state
  checkpoints:       Externally-durable key/value pairs

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency.

USAGE:
  store, err := sqlite.New("./data/tenure.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - tenure/engine.go: Interface definitions
  - tenure/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/tenure-engine/tenure"
)

// Store implements all collaborator interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS employees (
		legajo TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		surname TEXT NOT NULL,
		hire_date TEXT,
		gender TEXT,
		guild TEXT,
		active INTEGER NOT NULL DEFAULT 1
	);

	CREATE TABLE IF NOT EXISTS concept_catalog (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS assigned_concepts (
		id TEXT PRIMARY KEY,
		legajo TEXT NOT NULL REFERENCES employees(legajo),
		concept_type TEXT,
		concept_id TEXT NOT NULL,
		unidades TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_assigned_concepts_legajo
		ON assigned_concepts(legajo);

	CREATE TABLE IF NOT EXISTS checkpoints (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// tenure.Directory
// =============================================================================

func (s *Store) ListEmployees(ctx context.Context) ([]tenure.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT legajo, name, surname, COALESCE(hire_date, ''), COALESCE(gender, ''), COALESCE(guild, ''), active
		 FROM employees ORDER BY legajo`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tenure.Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

func (s *Store) GetEmployee(ctx context.Context, id tenure.EmployeeID) (tenure.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		`SELECT legajo, name, surname, COALESCE(hire_date, ''), COALESCE(gender, ''), COALESCE(guild, ''), active
		 FROM employees WHERE legajo = ?`, string(id))

	emp, err := scanEmployee(row)
	if err == sql.ErrNoRows {
		return tenure.Employee{}, fmt.Errorf("%w: %s", tenure.ErrEmployeeNotFound, id)
	}
	return emp, err
}

func (s *Store) ListAssignedConcepts(ctx context.Context, id tenure.EmployeeID) ([]tenure.AssignedConceptRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, COALESCE(concept_type, ''), concept_id, unidades
		 FROM assigned_concepts WHERE legajo = ? ORDER BY id`, string(id))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tenure.AssignedConceptRecord
	for rows.Next() {
		var rec tenure.AssignedConceptRecord
		var units string
		if err := rows.Scan(&rec.ID, &rec.ConceptType, &rec.ConceptID, &units); err != nil {
			return nil, err
		}
		rec.Units, err = decimal.NewFromString(units)
		if err != nil {
			return nil, fmt.Errorf("bad unidades for %s: %w", rec.ID, err)
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *Store) ListConceptCatalog(ctx context.Context) ([]tenure.ConceptCatalogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `SELECT id, name, category FROM concept_catalog ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []tenure.ConceptCatalogEntry
	for rows.Next() {
		var e tenure.ConceptCatalogEntry
		if err := rows.Scan(&e.ID, &e.Name, &e.Category); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// tenure.Updater - full replacement inside one SQL transaction
// =============================================================================

func (s *Store) UpdateEmployee(ctx context.Context, id tenure.EmployeeID, payload tenure.EmployeeUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE employees SET name = ?, surname = ?, hire_date = ?, gender = ?, guild = ?, active = ?
		 WHERE legajo = ?`,
		payload.Employee.Name, payload.Employee.Surname, payload.Employee.HireDate,
		payload.Employee.Gender, payload.Employee.Guild, boolToInt(payload.Employee.Active),
		string(id))
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", tenure.ErrEmployeeNotFound, id)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM assigned_concepts WHERE legajo = ?`, string(id)); err != nil {
		return err
	}

	for _, rec := range payload.AssignedConcepts {
		recID := rec.ID
		if recID == "" {
			recID = tenure.AssignmentID(uuid.NewString())
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO assigned_concepts (id, legajo, concept_type, concept_id, unidades) VALUES (?, ?, ?, ?, ?)`,
			string(recID), string(id), rec.ConceptType, string(rec.ConceptID), rec.Units.String()); err != nil {
			return err
		}
	}

	return tx.Commit()
}

// =============================================================================
// scheduler.CheckpointStore
// =============================================================================

func (s *Store) GetCheckpoint(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM checkpoints WHERE key = ?`, key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return value, err
}

func (s *Store) SetCheckpoint(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO checkpoints (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	return err
}

// =============================================================================
// SEEDING - Used by scenarios and tests
// =============================================================================

func (s *Store) PutEmployee(ctx context.Context, emp tenure.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO employees (legajo, name, surname, hire_date, gender, guild, active) VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(legajo) DO UPDATE SET name = excluded.name, surname = excluded.surname,
		   hire_date = excluded.hire_date, gender = excluded.gender, guild = excluded.guild, active = excluded.active`,
		string(emp.ID), emp.Name, emp.Surname, emp.HireDate, emp.Gender, emp.Guild, boolToInt(emp.Active))
	return err
}

func (s *Store) PutCatalogEntry(ctx context.Context, entry tenure.ConceptCatalogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO concept_catalog (id, name, category) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, category = excluded.category`,
		string(entry.ID), entry.Name, string(entry.Category))
	return err
}

func (s *Store) PutAssignedConcept(ctx context.Context, id tenure.EmployeeID, rec tenure.AssignedConceptRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recID := rec.ID
	if recID == "" {
		recID = tenure.AssignmentID(uuid.NewString())
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO assigned_concepts (id, legajo, concept_type, concept_id, unidades) VALUES (?, ?, ?, ?, ?)`,
		string(recID), string(id), rec.ConceptType, string(rec.ConceptID), rec.Units.String())
	return err
}

// Reset clears all data. Dev/demo use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"assigned_concepts", "employees", "concept_catalog", "checkpoints"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEmployee(row rowScanner) (tenure.Employee, error) {
	var emp tenure.Employee
	var active int
	err := row.Scan(&emp.ID, &emp.Name, &emp.Surname, &emp.HireDate, &emp.Gender, &emp.Guild, &active)
	emp.Active = active != 0
	return emp, err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
