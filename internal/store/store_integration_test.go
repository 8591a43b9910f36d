package store_test

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"testing"

	_ "github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/axpress-labs/scholard/internal/store"
	"github.com/axpress-labs/scholard/models"
)

func TestStoreRoundTrip(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()

	pgUser := "scholard"
	pgPassword := "scholard"
	pgDB := "scholard"

	pgC, err := tcPostgres.RunContainer(ctx,
		tcPostgres.WithDatabase(pgDB),
		tcPostgres.WithUsername(pgUser),
		tcPostgres.WithPassword(pgPassword),
		testcontainers.WithWaitStrategy(wait.ForListeningPort("5432/tcp")),
	)
	if err != nil {
		t.Fatalf("postgres container: %v", err)
	}
	defer func() { _ = pgC.Terminate(ctx) }()

	pgHost, err := pgC.Host(ctx)
	if err != nil {
		t.Fatalf("postgres host: %v", err)
	}
	pgPort, err := pgC.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("postgres port: %v", err)
	}

	dsn := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", pgUser, pgPassword, pgHost, pgPort.Port(), pgDB)
	if err := applySchema(ctx, dsn); err != nil {
		t.Fatalf("apply schema: %v", err)
	}

	st, err := store.NewWithDSN(ctx, dsn)
	if err != nil {
		t.Fatalf("store init: %v", err)
	}
	defer st.DB.Close()

	// users
	if err := st.CreateUser(ctx, "alice@example.com", "hash"); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	id, hash, err := st.GetUserByEmail(ctx, "alice@example.com")
	if err != nil || id == "" || hash != "hash" {
		t.Fatalf("GetUserByEmail: id=%q hash=%q err=%v", id, hash, err)
	}

	// research CRUD
	created, err := st.CreateResearch(ctx, store.ResearchRecord{
		Title:    "Attention Is All You Need",
		Abstract: "transformers",
		Domain:   "ai",
		Authors:  []string{"Ashish Vaswani"},
		ArxivURL: "https://arxiv.org/abs/1706.03762",
	})
	if err != nil {
		t.Fatalf("CreateResearch: %v", err)
	}

	got, err := st.GetResearch(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetResearch: %v", err)
	}
	if got.Title != created.Title || len(got.Authors) != 1 {
		t.Fatalf("round trip mismatch: %+v", got)
	}

	newTitle := "Attention Is All You Need (annotated)"
	updated, err := st.UpdateResearch(ctx, created.ID, &newTitle, nil)
	if err != nil {
		t.Fatalf("UpdateResearch: %v", err)
	}
	if updated.Title != newTitle || updated.Abstract != "transformers" {
		t.Fatalf("partial update wrong: %+v", updated)
	}

	// duplicate search results collapse on (domain, arxiv_url)
	papers := []models.Paper{
		{ID: "2005.14165", Title: "GPT-3", SourceURL: "https://arxiv.org/abs/2005.14165"},
		{ID: "2005.14165", Title: "GPT-3", SourceURL: "https://arxiv.org/abs/2005.14165"},
	}
	if err := st.InsertSearchResults(ctx, models.DomainAI, papers); err != nil {
		t.Fatalf("InsertSearchResults: %v", err)
	}
	if err := st.InsertSearchResults(ctx, models.DomainAI, papers); err != nil {
		t.Fatalf("InsertSearchResults (repeat): %v", err)
	}
	var count int
	if err := st.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM research WHERE arxiv_url=$1`, "https://arxiv.org/abs/2005.14165").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 row after dedup, got %d", count)
	}

	if err := st.UpdateObjectKey(ctx, "https://arxiv.org/abs/2005.14165", "GPT-3.pdf"); err != nil {
		t.Fatalf("UpdateObjectKey: %v", err)
	}

	if err := st.DeleteResearch(ctx, created.ID); err != nil {
		t.Fatalf("DeleteResearch: %v", err)
	}
	if _, err := st.GetResearch(ctx, created.ID); !errors.Is(err, models.ErrResearchNotFound) {
		t.Fatalf("expected ErrResearchNotFound after delete, got %v", err)
	}
}

func applySchema(ctx context.Context, dsn string) error {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return err
	}
	defer db.Close()

	schemaSQL, err := os.ReadFile("../../migrations/000001_init.up.sql")
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, string(schemaSQL))
	return err
}
