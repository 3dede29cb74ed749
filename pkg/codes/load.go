package codes

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
	"gopkg.in/yaml.v3"
)

// Format identifies the encoding of a lookup table file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

//go:embed lookup.json
var defaultLookup []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table shipped with the package.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(defaultLookup, FormatJSON)
		if err != nil {
			panic("codes: embedded lookup table invalid: " + err.Error())
		}
		defaultTable = t
	})
	return defaultTable
}

// Parse decodes a table in the given format.
func Parse(data []byte, format Format) (*Table, error) {
	entries := map[string]Entry{}
	switch format {
	case FormatJSON, "":
		if err := json.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decode json lookup table: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &entries); err != nil {
			return nil, fmt.Errorf("decode yaml lookup table: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported lookup table format %q", format)
	}
	return NewTable(entries)
}

// FormatFromPath infers the table format from a file extension.
func FormatFromPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// LoadFile reads a table from disk.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lookup table %s: %w", path, err)
	}
	return Parse(data, FormatFromPath(path))
}

// HashReader is the slice of the redis client used to load tables.
type HashReader interface {
	HGetAll(ctx context.Context, key string) *redis.MapStringStringCmd
}

// LoadRedis reads a table stored as a hash: each field is a code and each
// value a JSON encoded Entry.
func LoadRedis(ctx context.Context, client HashReader, key string) (*Table, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client not configured")
	}
	if key == "" {
		return nil, fmt.Errorf("redis lookup key empty")
	}
	fields, err := client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("load lookup hash %s: %w", key, err)
	}
	entries := make(map[string]Entry, len(fields))
	for code, raw := range fields {
		var e Entry
		if err := json.Unmarshal([]byte(raw), &e); err != nil {
			return nil, fmt.Errorf("decode lookup entry %s: %w", code, err)
		}
		entries[code] = e
	}
	return NewTable(entries)
}
