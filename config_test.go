package rocketdb

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	t.Run("should fall back to defaults without a file", func(t *testing.T) {
		t.Chdir(t.TempDir())

		cfg, err := LoadConfig(NewViper(), "")
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		want := Config{Driver: "sqlite", DSN: "rocketdb.db", LogEnv: "development", PageSize: 10}
		got := Config{Driver: cfg.Driver, DSN: cfg.DSN, LogEnv: cfg.LogEnv, PageSize: cfg.PageSize}
		if !reflect.DeepEqual(want, got) {
			t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", want, got)
		}
	})

	t.Run("should read a yaml file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		content := "driver: pgx\ndsn: postgres://localhost/rocketdb\npage_size: 25\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			t.Fatalf("writing config: %v", err)
		}

		cfg, err := LoadConfig(NewViper(), path)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		if cfg.Driver != "pgx" || cfg.DSN != "postgres://localhost/rocketdb" || cfg.PageSize != 25 {
			t.Fatalf("\nwanted:\npgx postgres://localhost/rocketdb 25\ngot:\n%s %s %d", cfg.Driver, cfg.DSN, cfg.PageSize)
		}
		if cfg.LogEnv != "development" {
			t.Fatalf("\nwanted:\ndevelopment\ngot:\n%s", cfg.LogEnv)
		}
	})

	t.Run("should let the environment override the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		if err := os.WriteFile(path, []byte("page_size: 25\n"), 0o600); err != nil {
			t.Fatalf("writing config: %v", err)
		}
		t.Setenv("ROCKETDB_PAGE_SIZE", "50")

		cfg, err := LoadConfig(NewViper(), path)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if cfg.PageSize != 50 {
			t.Fatalf("\nwanted:\n50\ngot:\n%d", cfg.PageSize)
		}
	})

	t.Run("should fail on a missing named file", func(t *testing.T) {
		_, err := LoadConfig(NewViper(), filepath.Join(t.TempDir(), "missing.yaml"))
		if err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})

	t.Run("should reject a non positive page size", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ROCKETDB_PAGE_SIZE", "0")

		if _, err := LoadConfig(NewViper(), ""); err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})

	t.Run("should reject an unknown driver", func(t *testing.T) {
		t.Chdir(t.TempDir())
		t.Setenv("ROCKETDB_DRIVER", "mysql")

		if _, err := LoadConfig(NewViper(), ""); err == nil {
			t.Fatalf("\nwanted:\nerror\ngot:\nnil")
		}
	})
}

func TestConfig_Save(t *testing.T) {
	t.Run("should write a file that loads back", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "saved.yaml")
		cfg := &Config{Driver: "sqlite", DSN: "catalog.db", LogEnv: "production", PageSize: 20}

		if err := cfg.Save(path); err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}

		got, err := LoadConfig(NewViper(), path)
		if err != nil {
			t.Fatalf("\nwanted:\nnil\ngot:\n%v", err)
		}
		if got.DSN != "catalog.db" || got.LogEnv != "production" || got.PageSize != 20 {
			t.Fatalf("\nwanted:\n%+v\ngot:\n%+v", cfg, got)
		}
	})
}
