package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/pressly/goose/v3"
)

const DefaultDir = "pkg/migrate/migrations"

const dialect = "postgres"

// Commands accepted by Run. Everything else goes through MigrateToVersion.
var runnable = map[string]bool{
	"up":     true,
	"down":   true,
	"status": true,
	"redo":   true,
}

// Run executes a goose command against db. The directory is schema-checked
// before "up" so a release missing the reporting tables never half-applies.
func Run(ctx context.Context, db *sql.DB, dir string, command string, args ...string) error {
	if !runnable[command] {
		return fmt.Errorf("unsupported migration command %q", command)
	}
	if dir == "" {
		return fmt.Errorf("dir is required")
	}
	if command == "up" {
		if err := ValidateSchema(dir); err != nil {
			return err
		}
	}
	if db == nil {
		return fmt.Errorf("db is required")
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}
	if err := goose.RunContext(ctx, command, db, dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}
	return nil
}

// MigrateToVersion moves the schema up or down to targetVersion. The target
// must be 0 or one of the versions shipped in dir.
func MigrateToVersion(ctx context.Context, db *sql.DB, dir string, targetVersion string) error {
	target, err := resolveTarget(dir, targetVersion)
	if err != nil {
		return err
	}
	if db == nil {
		return fmt.Errorf("db is required")
	}

	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	current, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("get db version: %w", err)
	}

	switch {
	case current == target:
		return nil
	case current < target:
		if err := goose.UpToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose up-to %d: %w", target, err)
		}
	default:
		if err := goose.DownToContext(ctx, db, dir, target); err != nil {
			return fmt.Errorf("goose down-to %d: %w", target, err)
		}
	}
	return nil
}

func resolveTarget(dir, targetVersion string) (int64, error) {
	if targetVersion == "" {
		return 0, fmt.Errorf("targetVersion is required")
	}
	if targetVersion == "0" {
		return 0, nil
	}

	known, err := versions(dir)
	if err != nil {
		return 0, err
	}
	i := sort.SearchStrings(known, targetVersion)
	if i == len(known) || known[i] != targetVersion {
		return 0, fmt.Errorf("version %s not found in %q", targetVersion, dir)
	}

	var target int64
	if _, err := fmt.Sscan(targetVersion, &target); err != nil {
		return 0, fmt.Errorf("invalid version %q (expected YYYYMMDDHHMMSS): %w", targetVersion, err)
	}
	return target, nil
}
