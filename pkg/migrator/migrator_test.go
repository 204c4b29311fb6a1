package migrator

import (
	"context"
	"testing"
	"testing/fstest"
)

func TestRun_UnreachableDatabase(t *testing.T) {
	files := fstest.MapFS{
		"00001_noop.sql": {Data: []byte("-- +goose Up\nSELECT 1;\n-- +goose Down\nSELECT 1;\n")},
	}
	err := Run(context.Background(), "postgres://nobody@127.0.0.1:1/none?sslmode=disable&connect_timeout=1",
		"test_goose_db_version", files)
	if err == nil {
		t.Fatal("expected an error for an unreachable database")
	}
}
