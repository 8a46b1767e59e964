package database

import "testing"

func TestMigrationVersion(t *testing.T) {
	tests := []struct {
		name string
		file string
		want int
	}{
		{"standard migration", "001_initial_schema.sql", 1},
		{"two digit version", "012_add_indexes.sql", 12},
		{"no numeric prefix", "notes_schema.sql", 0},
		{"not a sql file", "001_initial_schema.txt", 0},
		{"no underscore", "001.sql", 0},
		{"zero version", "000_reserved.sql", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := migrationVersion(tt.file); got != tt.want {
				t.Errorf("migrationVersion(%q) = %d, want %d", tt.file, got, tt.want)
			}
		})
	}
}
