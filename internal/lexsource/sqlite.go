package lexsource

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/FocuswithJustin/Typographe/core/errors"
	"github.com/FocuswithJustin/Typographe/internal/logging"
	"github.com/FocuswithJustin/Typographe/internal/sqlite"
)

// SQLiteSource reads word forms out of a SQLite database. The first
// user table carrying a text column with a recognized name is used.
type SQLiteSource struct{}

// sqliteMagic is the 16-byte header of every SQLite database file.
const sqliteMagic = "SQLite format 3\x00"

// wordColumns are the accepted column names, in priority order.
var wordColumns = []string{"word", "form", "orthography", "graphie", "lemma", "lemme"}

// NewSQLiteSource returns the SQLite reader.
func NewSQLiteSource() *SQLiteSource {
	return &SQLiteSource{}
}

// Name identifies the format.
func (s *SQLiteSource) Name() string {
	return "sqlite"
}

// Detect accepts files starting with the SQLite magic, or carrying a
// database extension.
func (s *SQLiteSource) Detect(path string) Detection {
	data, err := sniff(path)
	if err != nil {
		return Detection{Reason: fmt.Sprintf("cannot read: %v", err)}
	}
	if len(data) >= len(sqliteMagic) && string(data[:len(sqliteMagic)]) == sqliteMagic {
		return Detection{Detected: true, Format: s.Name(), Reason: "sqlite magic detected"}
	}
	if hasExtension(path, ".db", ".sqlite", ".sqlite3") {
		return Detection{Detected: true, Format: s.Name(), Reason: "sqlite file extension detected"}
	}
	return Detection{Reason: "not a sqlite file"}
}

// Words opens the database read-only and drains the word column.
func (s *SQLiteSource) Words(path string) ([]string, error) {
	db, err := sqlite.OpenReadOnly(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer db.Close()

	logging.Debug("reading sqlite lexicon source",
		"path", path, "driver", sqlite.DriverName(), "driver_type", sqlite.DriverType())

	table, column, err := findWordColumn(db, path)
	if err != nil {
		return nil, err
	}

	rows, err := db.Query(fmt.Sprintf(`SELECT %q FROM %q ORDER BY 1`, column, table))
	if err != nil {
		return nil, errors.NewIO("query", path, err)
	}
	defer rows.Close()

	var words []string
	for rows.Next() {
		var w sql.NullString
		if err := rows.Scan(&w); err != nil {
			return nil, errors.NewIO("scan", path, err)
		}
		if !w.Valid {
			continue
		}
		if trimmed := strings.TrimSpace(w.String); trimmed != "" {
			words = append(words, trimmed)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewIO("read", path, err)
	}
	return words, nil
}

// findWordColumn locates the first user table carrying a recognized
// word column. Tables are visited in name order for determinism.
func findWordColumn(db *sql.DB, path string) (table, column string, err error) {
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name`)
	if err != nil {
		return "", "", errors.NewIO("query", path, err)
	}
	defer rows.Close()

	var tables []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return "", "", errors.NewIO("scan", path, err)
		}
		tables = append(tables, name)
	}
	if err := rows.Err(); err != nil {
		return "", "", errors.NewIO("read", path, err)
	}

	for _, t := range tables {
		c, err := wordColumnOf(db, t)
		if err != nil {
			return "", "", errors.NewIO("inspect", path, err)
		}
		if c != "" {
			return t, c, nil
		}
	}
	return "", "", errors.NewValidation("database",
		fmt.Sprintf("no word table in %q (expected a text column named %s)", path, strings.Join(wordColumns, ", ")))
}

// wordColumnOf returns the best matching text column of one table, or
// empty when the table has none.
func wordColumnOf(db *sql.DB, table string) (string, error) {
	rows, err := db.Query(fmt.Sprintf(`PRAGMA table_info(%q)`, table))
	if err != nil {
		return "", err
	}
	defer rows.Close()

	candidates := make(map[string]string)
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, typ        string
			defaultVal       sql.NullString
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &defaultVal, &pk); err != nil {
			return "", err
		}
		if isTextType(typ) {
			candidates[strings.ToLower(name)] = name
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	for _, want := range wordColumns {
		if name, ok := candidates[want]; ok {
			return name, nil
		}
	}
	return "", nil
}

// isTextType reports whether a declared column type stores text.
// Undeclared types are accepted, matching SQLite's lax typing.
func isTextType(typ string) bool {
	if typ == "" {
		return true
	}
	upper := strings.ToUpper(typ)
	return strings.Contains(upper, "TEXT") || strings.Contains(upper, "CHAR") || strings.Contains(upper, "CLOB")
}
