package mongo

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/fastygo/timetracker/internal/config"
)

func TestEmbeddedMigrationsAreCommandLists(t *testing.T) {
	for _, name := range []string{"migrations/1_create_indexes.up.json", "migrations/1_create_indexes.down.json"} {
		raw, err := fs.ReadFile(migrationFiles, name)
		if err != nil {
			t.Fatalf("read %s: %v", name, err)
		}
		var commands []map[string]interface{}
		if err := json.Unmarshal(raw, &commands); err != nil {
			t.Fatalf("%s is not a JSON command list: %v", name, err)
		}
		if len(commands) != 3 {
			t.Fatalf("%s: expected one command per collection, got %d", name, len(commands))
		}
	}
}

func TestUniqueEmailIndex(t *testing.T) {
	raw, err := fs.ReadFile(migrationFiles, "migrations/1_create_indexes.up.json")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var commands []struct {
		CreateIndexes string `json:"createIndexes"`
		Indexes       []struct {
			Key    map[string]int `json:"key"`
			Unique bool           `json:"unique"`
		} `json:"indexes"`
	}
	if err := json.Unmarshal(raw, &commands); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for _, c := range commands {
		if c.CreateIndexes != "users" {
			continue
		}
		for _, idx := range c.Indexes {
			if _, ok := idx.Key["email"]; ok && idx.Unique {
				return
			}
		}
	}
	t.Fatal("users.email must carry a unique index")
}

func TestRunMigrationsDisabled(t *testing.T) {
	cfg := &config.Config{Migrations: config.MigrationsConfig{Enabled: false}}
	if err := RunMigrations(nil, cfg, nil); err != nil {
		t.Fatalf("disabled migrations should be a no-op, got %v", err)
	}
}

func TestDatabaseName(t *testing.T) {
	cases := []struct {
		cfg  config.MongoConfig
		want string
	}{
		{config.MongoConfig{Database: "explicit", URI: "mongodb://localhost:27017/fromuri"}, "explicit"},
		{config.MongoConfig{URI: "mongodb://localhost:27017/fromuri"}, "fromuri"},
		{config.MongoConfig{URI: "mongodb://localhost:27017"}, defaultDatabase},
	}
	for _, tc := range cases {
		if got := DatabaseName(tc.cfg); got != tc.want {
			t.Errorf("DatabaseName(%+v) = %q, want %q", tc.cfg, got, tc.want)
		}
	}
}
