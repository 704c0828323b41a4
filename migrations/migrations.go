// Package migrations carries the schema migration SQL for the student
// and area document stores, compiled into the binary so `degreeaudit
// migrate` needs no files on disk.
package migrations

import "embed"

//go:embed sqlite/*.sql
var SqliteMigrations embed.FS

//go:embed postgres/*.sql
var PostgresMigrations embed.FS
