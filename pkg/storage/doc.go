// Package storage provides persistence for invocation records.
//
// This package includes:
//   - GormRecorder: A GORM-based core.Recorder supporting various databases
//   - OpenSQLite: a convenience opener for the bundled SQLite driver
//   - Connection pool tuning for the recorder's database handle
//
// The Recorder interface is defined in pkg/core and must be implemented
// by any custom recorder backend.
//
// Most users should import the root package github.com/jdziat/thinware
// which provides NewGormRecorder() to create recorder instances.
package storage
