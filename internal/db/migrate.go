package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"regexp"
	"sort"
	"strconv"
)

// Migrations live under migrations/<driver>/ as 0001_name.up.sql. They are
// forward-only.
//
//go:embed migrations/*/*.sql
var migrationsFS embed.FS

var migFileRe = regexp.MustCompile(`^([0-9]{4})_(.+)\.up\.sql$`)

type migrationTarget interface {
	dialect() string
	ensureMigrationsTable(ctx context.Context) error
	appliedVersions(ctx context.Context) (map[int]bool, error)
	applyMigration(ctx context.Context, version int, text string) error
}

type migration struct {
	version int
	name    string
	path    string
}

func loadMigrations(dialect string) ([]migration, error) {
	dir := "migrations/" + dialect
	entries, err := fs.ReadDir(migrationsFS, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var out []migration
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := migFileRe.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		v, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		out = append(out, migration{version: v, name: m[2], path: dir + "/" + e.Name()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].version < out[j].version })
	return out, nil
}

// Migrate applies pending migrations for the store's dialect and returns how
// many were applied. Each migration runs in its own transaction.
func Migrate(ctx context.Context, s Store) (int, error) {
	t, ok := s.(migrationTarget)
	if !ok {
		return 0, ErrMigrationsUnsupported
	}
	migs, err := loadMigrations(t.dialect())
	if err != nil {
		return 0, err
	}
	if err := t.ensureMigrationsTable(ctx); err != nil {
		return 0, fmt.Errorf("create schema_migrations: %w", err)
	}
	applied, err := t.appliedVersions(ctx)
	if err != nil {
		return 0, fmt.Errorf("read schema_migrations: %w", err)
	}

	n := 0
	for _, m := range migs {
		if applied[m.version] {
			continue
		}
		text, err := migrationsFS.ReadFile(m.path)
		if err != nil {
			return n, err
		}
		if err := t.applyMigration(ctx, m.version, string(text)); err != nil {
			return n, fmt.Errorf("migration %04d_%s failed: %w", m.version, m.name, err)
		}
		n++
	}
	return n, nil
}
