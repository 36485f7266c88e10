package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

const (
	upMarker   = "-- +goose Up"
	downMarker = "-- +goose Down"
)

var (
	sqlFileRe     = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)
	createTableRe = regexp.MustCompile(`(?i)create\s+table\s+(?:if\s+not\s+exists\s+)?"?([a-z0-9_]+)"?`)
)

// RequiredTables are the relations the attribution and revenue queries read.
var RequiredTables = []string{"stores", "users", "products", "orders", "order_line_items"}

type migrationFile struct {
	version string
	name    string
	up      string
}

// ValidateDir checks migration filenames, version uniqueness and goose headers.
func ValidateDir(dir string) error {
	_, err := scanDir(dir)
	return err
}

// ValidateSchema runs ValidateDir and then requires every table in
// RequiredTables to be created by some Up section.
func ValidateSchema(dir string) error {
	files, err := scanDir(dir)
	if err != nil {
		return err
	}

	created := map[string]bool{}
	for _, f := range files {
		for _, m := range createTableRe.FindAllStringSubmatch(f.up, -1) {
			created[strings.ToLower(m[1])] = true
		}
	}

	var missing []string
	for _, table := range RequiredTables {
		if !created[table] {
			missing = append(missing, table)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("migrations in %q never create %s", dir, strings.Join(missing, ", "))
	}
	return nil
}

// versions lists the migration versions found in dir in ascending order.
func versions(dir string) ([]string, error) {
	files, err := scanDir(dir)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(files))
	for _, f := range files {
		out = append(out, f.version)
	}
	return out, nil
}

func scanDir(dir string) ([]migrationFile, error) {
	if dir == "" {
		return nil, fmt.Errorf("dir is required")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir %q: %w", dir, err)
	}

	seen := map[string]string{}
	var files []migrationFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}

		m := sqlFileRe.FindStringSubmatch(name)
		if m == nil {
			return nil, fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
		}
		version := m[1]
		if prev, ok := seen[version]; ok {
			return nil, fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
		}
		seen[version] = name

		b, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("read migration %q: %w", name, err)
		}
		up, err := upSection(name, string(b))
		if err != nil {
			return nil, err
		}
		files = append(files, migrationFile{version: version, name: name, up: up})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].version < files[j].version })
	return files, nil
}

// upSection returns the text between the Up and Down markers. The Down marker
// must follow the Up marker.
func upSection(name, txt string) (string, error) {
	upAt := strings.Index(txt, upMarker)
	if upAt < 0 {
		return "", fmt.Errorf("migration %q missing %q", name, upMarker)
	}
	downAt := strings.Index(txt, downMarker)
	if downAt < 0 {
		return "", fmt.Errorf("migration %q missing %q", name, downMarker)
	}
	if downAt < upAt {
		return "", fmt.Errorf("migration %q declares Down before Up", name)
	}
	return txt[upAt+len(upMarker) : downAt], nil
}
