// Package sqlite selects the SQLite driver used for lexicon source
// databases at build time: pure Go modernc.org/sqlite by default, or
// mattn/go-sqlite3 when built with CGO_ENABLED=1 -tags cgo_sqlite (the
// CGO registration lives in contrib/sqlite-cgo, keeping the optional
// external dependency out of the core tree).
//
// The registered driver name differs between the two implementations
// ("sqlite" vs "sqlite3"), so databases must be opened through Open or
// OpenReadOnly rather than sql.Open.
package sqlite

import (
	"database/sql"
)

// DriverName returns the SQL driver name registered by the active
// implementation.
func DriverName() string {
	return driverName
}

// DriverType returns a string identifying the underlying implementation.
// Returns "cgo" for mattn/go-sqlite3, "purego" for modernc.org/sqlite.
func DriverType() string {
	return driverType
}

// IsCGO returns true if the CGO implementation is being used.
func IsCGO() bool {
	return driverType == "cgo"
}

// Open opens a SQLite database using the appropriate driver.
// This is the preferred way to open SQLite databases.
func Open(dataSourceName string) (*sql.DB, error) {
	return sql.Open(driverName, dataSourceName)
}

// OpenReadOnly opens a SQLite database in read-only mode. The file: URI
// form is required for mode=ro to be honored by both drivers.
func OpenReadOnly(path string) (*sql.DB, error) {
	return Open("file:" + path + "?mode=ro")
}

// Info contains information about the SQLite driver configuration.
type Info struct {
	DriverName string `json:"driver_name"`
	DriverType string `json:"driver_type"`
	IsCGO      bool   `json:"is_cgo"`
	Package    string `json:"package"`
}

// GetInfo returns information about the current SQLite configuration.
func GetInfo() Info {
	return Info{
		DriverName: driverName,
		DriverType: driverType,
		IsCGO:      IsCGO(),
		Package:    driverPackage,
	}
}
