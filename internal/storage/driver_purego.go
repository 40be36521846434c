//go:build !cgo

package storage

import _ "modernc.org/sqlite"

// Without cgo the pure Go driver is used; the on-disk format is the same.
const driverName = "sqlite"
