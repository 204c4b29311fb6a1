package main

import (
	"io/fs"
	"strings"
	"testing"
)

func TestMigrationsAreReversible(t *testing.T) {
	names, err := fs.Glob(MigrationsFS, "*.sql")
	if err != nil {
		t.Fatal(err)
	}
	if len(names) == 0 {
		t.Fatal("no migrations embedded")
	}
	for _, name := range names {
		data, err := fs.ReadFile(MigrationsFS, name)
		if err != nil {
			t.Fatal(err)
		}
		sql := string(data)
		if !strings.Contains(sql, "-- +goose Up") || !strings.Contains(sql, "-- +goose Down") {
			t.Errorf("%s: missing goose Up or Down section", name)
		}
	}
}
