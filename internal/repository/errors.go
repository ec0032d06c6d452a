// Package repository holds the MySQL data access code.  Sentinel errors
// defined here let callers tell an empty table from a failed query.
package repository

import "errors"

// ErrNoSnapshot is returned by SnapshotRepo.Latest when no snapshot has
// been stored yet.  Callers treat it as a fresh start.
var ErrNoSnapshot = errors.New("no snapshot stored")
