// Package database stores build history in SQLite.
//
// Every dictionary build, successful or not, is recorded with its
// inputs, outputs, statistics and the SHA3-256 checksum of the
// intermediate document. The history answers questions such as "did the
// en_US dictionary change since the last build?" without keeping the
// generated files around.
//
// The database is a single file opened through modernc.org/sqlite, a
// CGO-free driver.
package database
