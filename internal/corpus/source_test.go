package corpus

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-talk-search/internal/domain"
	"github.com/tbourn/go-talk-search/internal/repo"
)

const sampleJSON = `[
  {"id": 1, "title": "On Faith and Hope", "date": "2020-01-05T09:30:00Z", "url": "", "transcript": "Faith moves mountains. Hope sustains."},
  {"id": "g-2", "title": "On Grace", "date": "2020-02-01", "url": "http://x"},
  {"title": "No id, no date"}
]`

func writeTemp(t *testing.T, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0o600); err != nil {
		t.Fatalf("write temp: %v", err)
	}
	return p
}

func gzipBytes(t *testing.T, s string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write([]byte(s)); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestDecodeJSON_DefaultsAndNormalization(t *testing.T) {
	talks, err := DecodeJSON(strings.NewReader(sampleJSON))
	if err != nil {
		t.Fatalf("DecodeJSON: %v", err)
	}
	if len(talks) != 3 {
		t.Fatalf("len = %d; want 3", len(talks))
	}
	want := []domain.Talk{
		{ID: "1", Title: "On Faith and Hope", Date: "2020-01-05", Transcript: "Faith moves mountains. Hope sustains."},
		{ID: "g-2", Title: "On Grace", Date: "2020-02-01", URL: "http://x"},
		{ID: "2", Title: "No id, no date"},
	}
	for i := range want {
		if talks[i] != want[i] {
			t.Fatalf("talk %d = %+v; want %+v", i, talks[i], want[i])
		}
	}
}

func TestDecodeJSON_Errors(t *testing.T) {
	cases := map[string]string{
		"empty":      "",
		"not array":  `{"title":"x"}`,
		"truncated":  `[{"title":"x"`,
		"bad id":     `[{"id":true}]`,
		"bad field":  `[{"title":5}]`,
		"bare value": `"hello"`,
	}
	for name, body := range cases {
		if _, err := DecodeJSON(strings.NewReader(body)); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}

func TestDecodeJSON_NullIsEmptyCorpus(t *testing.T) {
	talks, err := DecodeJSON(strings.NewReader("null"))
	if err != nil {
		t.Fatalf("DecodeJSON(null): %v", err)
	}
	if len(talks) != 0 {
		t.Fatalf("expected empty corpus, got %d", len(talks))
	}
}

func TestJSONSource_PlainAndGzip(t *testing.T) {
	plain := writeTemp(t, "talks.json", []byte(sampleJSON))
	packed := writeTemp(t, "talks.json.gz", gzipBytes(t, sampleJSON))

	for _, p := range []string{plain, packed} {
		src := JSONSource{Path: p}
		if src.Name() != "json:"+p {
			t.Fatalf("Name = %q", src.Name())
		}
		talks, err := src.Load(context.Background())
		if err != nil {
			t.Fatalf("Load(%s): %v", p, err)
		}
		if len(talks) != 3 || talks[0].Title != "On Faith and Hope" {
			t.Fatalf("Load(%s) unexpected: %+v", p, talks)
		}
	}
}

func TestJSONSource_MissingFile_ThroughLoader(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "talks.json.gz")
	l := NewLoader(JSONSource{Path: p})

	_, err := l.EnsureLoaded(context.Background())
	if !errors.Is(err, ErrLoad) || !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v; want LoadError wrapping ErrNotExist", err)
	}

	// The failure is not cached: once the file appears the next call loads it.
	if err := os.WriteFile(p, gzipBytes(t, sampleJSON), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := l.EnsureLoaded(context.Background())
	if err != nil {
		t.Fatalf("retry: %v", err)
	}
	if c.Len() != 3 {
		t.Fatalf("len = %d", c.Len())
	}
}

func TestJSONSource_CorruptGzip(t *testing.T) {
	data := gzipBytes(t, sampleJSON)
	p := writeTemp(t, "broken.json.gz", data[:len(data)/2])
	if _, err := (JSONSource{Path: p}).Load(context.Background()); err == nil {
		t.Fatalf("expected error for truncated gzip")
	}
}

func TestSQLiteSource_Load(t *testing.T) {
	dsn := fmt.Sprintf("file:source_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if _, err := repo.ReplaceTalks(context.Background(), db, sampleTalks()); err != nil {
		t.Fatalf("seed: %v", err)
	}

	src := SQLiteSource{DB: db, Path: "mem"}
	if src.Name() != "sqlite:mem" {
		t.Fatalf("Name = %q", src.Name())
	}
	c, err := NewLoader(src).EnsureLoaded(context.Background())
	if err != nil {
		t.Fatalf("EnsureLoaded: %v", err)
	}
	if c.Len() != 3 || c.At(0).ID != "1" || c.At(2).ID != "3" {
		t.Fatalf("unexpected corpus order")
	}

	if _, err := (SQLiteSource{}).Load(context.Background()); err == nil {
		t.Fatalf("expected error without a database handle")
	}
}

func TestOpenSQLiteSource_MissingFileIsNotCreated(t *testing.T) {
	p := filepath.Join(t.TempDir(), "absent.db")
	_, err := OpenSQLiteSource(p)
	if !errors.Is(err, ErrLoad) || !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("err = %v; want LoadError wrapping fs.ErrNotExist", err)
	}
	if !strings.Contains(err.Error(), "sqlite:"+p) {
		t.Fatalf("error should name the source: %v", err)
	}
	if _, statErr := os.Stat(p); !errors.Is(statErr, fs.ErrNotExist) {
		t.Fatalf("missing database must not be created (stat err = %v)", statErr)
	}
}

func TestOpenSQLiteSource_WithoutTalksTable(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.db")
	db, err := repo.OpenSQLite(p) // creates the file, no schema
	if err != nil {
		t.Fatalf("create db: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}

	src, err := OpenSQLiteSource(p)
	if err != nil {
		t.Fatalf("OpenSQLiteSource: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := src.DB.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	_, err = NewLoader(src).EnsureLoaded(context.Background())
	if !errors.Is(err, ErrLoad) || !errors.Is(err, ErrNoTalksTable) {
		t.Fatalf("err = %v; want LoadError wrapping ErrNoTalksTable", err)
	}
}
