package repo

import (
	"context"
	"fmt"
	"testing"

	sqlite "github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-talk-search/internal/domain"
)

func newTalkDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:talks_%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestReplaceTalks_ListTalks_PreservesOrder(t *testing.T) {
	ctx := context.Background()
	db := newTalkDB(t)

	in := []domain.Talk{
		{ID: "z", Title: "Zeta", Date: "2021-01-01"},
		{ID: "a", Title: "Alpha", Date: "2020-01-01", URL: "http://x", Transcript: "Grace."},
		{ID: "m", Title: "Mu", Seq: 99}, // caller supplied Seq is ignored
	}
	n, err := ReplaceTalks(ctx, db, in)
	if err != nil {
		t.Fatalf("ReplaceTalks: %v", err)
	}
	if n != 3 {
		t.Fatalf("ReplaceTalks wrote %d rows; want 3", n)
	}
	if in[2].Seq != 99 {
		t.Fatalf("ReplaceTalks must not mutate its input")
	}

	got, err := ListTalks(ctx, db)
	if err != nil {
		t.Fatalf("ListTalks: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("ListTalks len=%d; want 3", len(got))
	}
	for i, id := range []string{"z", "a", "m"} {
		if got[i].ID != id {
			t.Fatalf("order mismatch at %d: got %q want %q", i, got[i].ID, id)
		}
	}
	if got[1].URL != "http://x" || got[1].Transcript != "Grace." || got[1].Date != "2020-01-01" {
		t.Fatalf("fields not round-tripped: %+v", got[1])
	}
}

func TestReplaceTalks_ReplacesPreviousContent(t *testing.T) {
	ctx := context.Background()
	db := newTalkDB(t)

	if _, err := ReplaceTalks(ctx, db, []domain.Talk{{ID: "1"}, {ID: "2"}}); err != nil {
		t.Fatalf("first import: %v", err)
	}
	if _, err := ReplaceTalks(ctx, db, []domain.Talk{{ID: "2", Title: "new"}}); err != nil {
		t.Fatalf("second import: %v", err)
	}
	n, err := CountTalks(ctx, db)
	if err != nil {
		t.Fatalf("CountTalks: %v", err)
	}
	if n != 1 {
		t.Fatalf("CountTalks = %d; want 1", n)
	}

	// empty import clears the table
	if _, err := ReplaceTalks(ctx, db, nil); err != nil {
		t.Fatalf("empty import: %v", err)
	}
	if n, _ := CountTalks(ctx, db); n != 0 {
		t.Fatalf("expected empty table, got %d rows", n)
	}
}

func TestReplaceTalks_DuplicateIDRollsBack(t *testing.T) {
	ctx := context.Background()
	db := newTalkDB(t)

	if _, err := ReplaceTalks(ctx, db, []domain.Talk{{ID: "keep"}}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := ReplaceTalks(ctx, db, []domain.Talk{{ID: "d"}, {ID: "d"}}); err == nil {
		t.Fatalf("expected unique constraint violation")
	}
	got, err := ListTalks(ctx, db)
	if err != nil {
		t.Fatalf("ListTalks: %v", err)
	}
	if len(got) != 1 || got[0].ID != "keep" {
		t.Fatalf("transaction should roll back, got %+v", got)
	}
}

func TestHasTalksTable(t *testing.T) {
	ctx := context.Background()
	if !HasTalksTable(ctx, newTalkDB(t)) {
		t.Fatalf("migrated database must report the talks table")
	}

	dsn := fmt.Sprintf("file:bare_%s?mode=memory&cache=shared", uuid.NewString())
	bare, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if HasTalksTable(ctx, bare) {
		t.Fatalf("unmigrated database must not report the talks table")
	}
}
