package corpus

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"
	"gorm.io/gorm"

	"github.com/tbourn/go-talk-search/internal/domain"
	"github.com/tbourn/go-talk-search/internal/repo"
)

// JSONSource reads a JSON array of records from a file. Gzip-compressed files
// are detected by their magic bytes, whatever their extension.
type JSONSource struct {
	Path string
}

// Name implements Source.
func (s JSONSource) Name() string { return "json:" + s.Path }

// Load implements Source.
func (s JSONSource) Load(ctx context.Context) ([]domain.Talk, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeJSON(f)
}

// DecodeJSON decodes a JSON array of records from r, transparently
// decompressing gzip input. Records missing optional fields get empty
// defaults; a record whose identifier has the wrong type fails the decode.
func DecodeJSON(r io.Reader) ([]domain.Talk, error) {
	br := bufio.NewReader(r)
	in := io.Reader(br)
	if magic, err := br.Peek(2); err == nil && magic[0] == 0x1f && magic[1] == 0x8b {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		defer zr.Close()
		in = zr
	}

	var raws []domain.RawTalk
	if err := json.NewDecoder(in).Decode(&raws); err != nil {
		return nil, fmt.Errorf("decode records: %w", err)
	}

	talks := make([]domain.Talk, 0, len(raws))
	for i, raw := range raws {
		t, err := raw.Normalize(i)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", i, err)
		}
		talks = append(talks, t)
	}
	return talks, nil
}

// SQLiteSource reads the talks table written by the import command.
type SQLiteSource struct {
	DB   *gorm.DB
	Path string
}

// OpenSQLiteSource opens the existing database at path. Unlike
// repo.OpenSQLite it never creates the file: a missing database is a
// *LoadError matching fs.ErrNotExist.
func OpenSQLiteSource(path string) (SQLiteSource, error) {
	src := SQLiteSource{Path: path}
	if _, err := os.Stat(path); err != nil {
		return src, asLoadError(src.Name(), err)
	}
	db, err := repo.OpenSQLite(path)
	if err != nil {
		return src, asLoadError(src.Name(), err)
	}
	src.DB = db
	return src, nil
}

// Name implements Source.
func (s SQLiteSource) Name() string { return "sqlite:" + s.Path }

// Load implements Source.
func (s SQLiteSource) Load(ctx context.Context) ([]domain.Talk, error) {
	if s.DB == nil {
		return nil, errors.New("no database handle")
	}
	if !repo.HasTalksTable(ctx, s.DB) {
		return nil, ErrNoTalksTable
	}
	return repo.ListTalks(ctx, s.DB)
}
