// Package sqlitecgo provides the optional CGO SQLite driver.
//
// This package is part of the main github.com/FocuswithJustin/Typographe
// module and provides the mattn/go-sqlite3 driver for installations that
// already carry a CGO toolchain.
//
// # CGO SQLite Driver
//
// To use the CGO driver (github.com/mattn/go-sqlite3):
//
//	import _ "github.com/FocuswithJustin/Typographe/contrib/sqlite-cgo"
//
// Build with:
//
//	CGO_ENABLED=1 go build -tags cgo_sqlite
//
// # Default Pure Go Driver
//
// By default, Typographe uses the pure Go modernc.org/sqlite driver,
// which requires no CGO. See
// github.com/FocuswithJustin/Typographe/internal/sqlite for details.
//
// # When to Use
//
// Use this package when:
//   - Lexicon databases are large and read throughput matters
//   - You need specific SQLite extensions
//   - You already have CGO in your build pipeline
//
// Use the default pure Go driver when:
//   - Portability is important
//   - Cross-compilation is required
//   - You want simpler deployment (single binary)
package sqlitecgo
