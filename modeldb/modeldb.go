// Package modeldb stores class models in SQLite so large parsed APIs can
// be cached and inspected with ordinary SQL tools.
package modeldb

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"sync"

	_ "modernc.org/sqlite"

	"github.com/chazu/shimgen/model"
)

// ErrEmpty indicates the database holds no model.
var ErrEmpty = errors.New("no model stored")

const schema = `
CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS names (
	kind TEXT NOT NULL,
	seq  INTEGER NOT NULL,
	name TEXT NOT NULL,
	PRIMARY KEY (kind, seq)
);
CREATE TABLE IF NOT EXISTS classes (
	seq  INTEGER PRIMARY KEY,
	name TEXT NOT NULL UNIQUE,
	file TEXT NOT NULL,
	id   INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS bases (
	class_seq INTEGER NOT NULL,
	seq       INTEGER NOT NULL,
	name      TEXT NOT NULL,
	PRIMARY KEY (class_seq, seq)
);
CREATE TABLE IF NOT EXISTS methods (
	class_seq   INTEGER NOT NULL,
	kind        TEXT NOT NULL,
	seq         INTEGER NOT NULL,
	name        TEXT NOT NULL,
	ret         TEXT NOT NULL,
	static      INTEGER NOT NULL,
	constructor INTEGER NOT NULL,
	virtual     INTEGER NOT NULL,
	is_const    INTEGER NOT NULL,
	access      TEXT NOT NULL,
	PRIMARY KEY (class_seq, kind, seq)
);
CREATE TABLE IF NOT EXISTS params (
	class_seq  INTEGER NOT NULL,
	kind       TEXT NOT NULL,
	method_seq INTEGER NOT NULL,
	seq        INTEGER NOT NULL,
	name       TEXT NOT NULL,
	type       TEXT NOT NULL,
	PRIMARY KEY (class_seq, kind, method_seq, seq)
)`

// Method table kinds.
const (
	kindMethod  = "method"
	kindVirtual = "virtual"
)

// Name list kinds.
const (
	kindEnum   = "enum"
	kindOpaque = "opaque"
)

// Store is a SQLite-backed model store.
type Store struct {
	db   *sql.DB
	path string
	mu   sync.Mutex
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	_, err = db.Exec("PRAGMA busy_timeout = 5000")
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("setting busy timeout: %w", err)
	}

	_, err = db.Exec(schema)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating tables: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Save replaces the stored model with f.
func (s *Store) Save(f *model.File) (err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	for _, table := range []string{"meta", "names", "classes", "bases", "methods", "params"} {
		if _, err = tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("clearing %s: %w", table, err)
		}
	}

	meta := map[string]string{
		"version": strconv.Itoa(model.SnapshotVersion),
		"module":  f.Module,
	}
	for k, v := range meta {
		if _, err = tx.Exec("INSERT INTO meta (key, value) VALUES (?, ?)", k, v); err != nil {
			return fmt.Errorf("saving meta: %w", err)
		}
	}

	if err = insertNames(tx, kindEnum, f.Enums); err != nil {
		return err
	}
	if err = insertNames(tx, kindOpaque, f.Opaque); err != nil {
		return err
	}

	for ci, c := range f.Classes {
		_, err = tx.Exec("INSERT INTO classes (seq, name, file, id) VALUES (?, ?, ?, ?)", ci, c.Name, c.File, c.ID)
		if err != nil {
			return fmt.Errorf("saving class %s: %w", c.Name, err)
		}
		for bi, base := range c.Bases {
			_, err = tx.Exec("INSERT INTO bases (class_seq, seq, name) VALUES (?, ?, ?)", ci, bi, base)
			if err != nil {
				return fmt.Errorf("saving bases of %s: %w", c.Name, err)
			}
		}
		if err = insertMethods(tx, ci, kindMethod, c.Methods); err != nil {
			return fmt.Errorf("saving methods of %s: %w", c.Name, err)
		}
		if err = insertMethods(tx, ci, kindVirtual, c.Virtuals); err != nil {
			return fmt.Errorf("saving virtuals of %s: %w", c.Name, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing model: %w", err)
	}
	return nil
}

func insertNames(tx *sql.Tx, kind string, names []string) error {
	for i, name := range names {
		if _, err := tx.Exec("INSERT INTO names (kind, seq, name) VALUES (?, ?, ?)", kind, i, name); err != nil {
			return fmt.Errorf("saving %s names: %w", kind, err)
		}
	}
	return nil
}

func insertMethods(tx *sql.Tx, classSeq int, kind string, methods []model.MethodDecl) error {
	for mi, m := range methods {
		_, err := tx.Exec(`INSERT INTO methods
			(class_seq, kind, seq, name, ret, static, constructor, virtual, is_const, access)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			classSeq, kind, mi, m.Name, m.Return, m.Static, m.Constructor, m.Virtual, m.Const, m.Access)
		if err != nil {
			return err
		}
		for pi, p := range m.Params {
			_, err := tx.Exec(`INSERT INTO params
				(class_seq, kind, method_seq, seq, name, type)
				VALUES (?, ?, ?, ?, ?, ?)`,
				classSeq, kind, mi, pi, p.Name, p.Type)
			if err != nil {
				return err
			}
		}
	}
	return nil
}

// Load reads the stored model back in declaration order.
func (s *Store) Load() (*model.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var version string
	err := s.db.QueryRow("SELECT value FROM meta WHERE key = 'version'").Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrEmpty
		}
		return nil, fmt.Errorf("querying meta: %w", err)
	}
	if version != strconv.Itoa(model.SnapshotVersion) {
		return nil, fmt.Errorf("unsupported model version %s (want %d)", version, model.SnapshotVersion)
	}

	f := &model.File{}
	err = s.db.QueryRow("SELECT value FROM meta WHERE key = 'module'").Scan(&f.Module)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("querying meta: %w", err)
	}

	if f.Enums, err = s.names(kindEnum); err != nil {
		return nil, err
	}
	if f.Opaque, err = s.names(kindOpaque); err != nil {
		return nil, err
	}

	rows, err := s.db.Query("SELECT name, file, id FROM classes ORDER BY seq")
	if err != nil {
		return nil, fmt.Errorf("querying classes: %w", err)
	}
	for rows.Next() {
		var c model.ClassDecl
		if err := rows.Scan(&c.Name, &c.File, &c.ID); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning class: %w", err)
		}
		f.Classes = append(f.Classes, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying classes: %w", err)
	}

	for ci := range f.Classes {
		c := &f.Classes[ci]
		if c.Bases, err = s.bases(ci); err != nil {
			return nil, fmt.Errorf("loading %s: %w", c.Name, err)
		}
		if c.Methods, err = s.methods(ci, kindMethod); err != nil {
			return nil, fmt.Errorf("loading %s: %w", c.Name, err)
		}
		if c.Virtuals, err = s.methods(ci, kindVirtual); err != nil {
			return nil, fmt.Errorf("loading %s: %w", c.Name, err)
		}
	}
	return f, nil
}

func (s *Store) names(kind string) ([]string, error) {
	return s.column("SELECT name FROM names WHERE kind = ? ORDER BY seq", kind)
}

func (s *Store) bases(classSeq int) ([]string, error) {
	return s.column("SELECT name FROM bases WHERE class_seq = ? ORDER BY seq", classSeq)
}

func (s *Store) column(query string, args ...any) ([]string, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func (s *Store) methods(classSeq int, kind string) ([]model.MethodDecl, error) {
	rows, err := s.db.Query(`SELECT name, ret, static, constructor, virtual, is_const, access
		FROM methods WHERE class_seq = ? AND kind = ? ORDER BY seq`, classSeq, kind)
	if err != nil {
		return nil, fmt.Errorf("querying methods: %w", err)
	}
	var methods []model.MethodDecl
	for rows.Next() {
		var m model.MethodDecl
		if err := rows.Scan(&m.Name, &m.Return, &m.Static, &m.Constructor, &m.Virtual, &m.Const, &m.Access); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning method: %w", err)
		}
		methods = append(methods, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying methods: %w", err)
	}

	for mi := range methods {
		prow, err := s.db.Query(`SELECT name, type FROM params
			WHERE class_seq = ? AND kind = ? AND method_seq = ? ORDER BY seq`, classSeq, kind, mi)
		if err != nil {
			return nil, fmt.Errorf("querying params: %w", err)
		}
		for prow.Next() {
			var p model.ParamDecl
			if err := prow.Scan(&p.Name, &p.Type); err != nil {
				prow.Close()
				return nil, fmt.Errorf("scanning param: %w", err)
			}
			methods[mi].Params = append(methods[mi].Params, p)
		}
		prow.Close()
		if err := prow.Err(); err != nil {
			return nil, fmt.Errorf("querying params: %w", err)
		}
	}
	return methods, nil
}

// ReadFile loads and validates the model stored at path.
func ReadFile(path string) (*model.File, error) {
	s, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	f, err := s.Load()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := model.Validate(f); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

// WriteFile stores f at path, replacing any model already there.
func WriteFile(path string, f *model.File) error {
	s, err := Open(path)
	if err != nil {
		return err
	}
	defer s.Close()
	return s.Save(f)
}
