package sqlstore

import (
	migrate "github.com/rubenv/sql-migrate"
)

// migrationTable keeps schema history apart from the data tables.
const migrationTable = "version_store_migrations"

func migrations(driver string) *migrate.MemoryMigrationSource {
	seq := "seq INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == DriverPostgres {
		seq = "seq BIGSERIAL PRIMARY KEY"
	}

	return &migrate.MemoryMigrationSource{
		Migrations: []*migrate.Migration{
			{
				Id: "0001_versions",
				Up: []string{
					`CREATE TABLE IF NOT EXISTS versions (
						` + seq + `,
						id TEXT NOT NULL UNIQUE,
						version_category TEXT NOT NULL,
						item_id TEXT NOT NULL,
						created TEXT NOT NULL DEFAULT '',
						modified TEXT NOT NULL DEFAULT '',
						doc TEXT NOT NULL
					)`,
					`CREATE INDEX IF NOT EXISTS versions_category_item
						ON versions (version_category, item_id, modified)`,
				},
				Down: []string{
					`DROP INDEX IF EXISTS versions_category_item`,
					`DROP TABLE IF EXISTS versions`,
				},
			},
		},
	}
}
