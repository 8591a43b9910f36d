package store

import (
	"context"
	"errors"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"

	"github.com/axpress-labs/scholard/models"
)

func researchRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "title", "abstract", "domain", "authors", "published_date", "updated_date",
		"categories", "pdf_url", "arxiv_url", "citation_count", "relevance_score",
		"object_key", "created_at", "updated_at",
	})
}

func TestCreateResearch(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &Store{DB: db}
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO research`).
		WithArgs("Attention Is All You Need", "abstract", "ai", []byte(`["Ashish Vaswani"]`),
			"2017-06-12", "", []byte(`["cs.CL"]`), "https://arxiv.org/pdf/1706.03762.pdf",
			"https://arxiv.org/abs/1706.03762", 0, 0.0, sqlmock.AnyArg()).
		WillReturnRows(researchRows().AddRow(
			int64(1), "Attention Is All You Need", "abstract", "ai", []byte(`["Ashish Vaswani"]`),
			"2017-06-12", "", []byte(`["cs.CL"]`), "https://arxiv.org/pdf/1706.03762.pdf",
			"https://arxiv.org/abs/1706.03762", 0, 0.0, nil, now, now,
		))

	rec, err := st.CreateResearch(context.Background(), ResearchRecord{
		Title:         "Attention Is All You Need",
		Abstract:      "abstract",
		Domain:        "ai",
		Authors:       []string{"Ashish Vaswani"},
		PublishedDate: "2017-06-12",
		Categories:    []string{"cs.CL"},
		PDFURL:        "https://arxiv.org/pdf/1706.03762.pdf",
		ArxivURL:      "https://arxiv.org/abs/1706.03762",
	})
	if err != nil {
		t.Fatalf("CreateResearch: %v", err)
	}
	if rec.ID != 1 {
		t.Errorf("id: %d", rec.ID)
	}
	if len(rec.Authors) != 1 || rec.Authors[0] != "Ashish Vaswani" {
		t.Errorf("authors: %v", rec.Authors)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestCreateResearchRequiresTitle(t *testing.T) {
	db, _, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &Store{DB: db}
	if _, err := st.CreateResearch(context.Background(), ResearchRecord{}); err == nil {
		t.Fatal("expected error for empty title")
	}
}

func TestGetResearchNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &Store{DB: db}
	mock.ExpectQuery(`SELECT .+ FROM research WHERE id=\$1`).
		WithArgs(int64(42)).
		WillReturnRows(researchRows())

	if _, err := st.GetResearch(context.Background(), 42); !errors.Is(err, models.ErrResearchNotFound) {
		t.Fatalf("expected ErrResearchNotFound, got %v", err)
	}
}

func TestDeleteResearchNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &Store{DB: db}
	mock.ExpectExec(`DELETE FROM research WHERE id=\$1`).
		WithArgs(int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := st.DeleteResearch(context.Background(), 7); !errors.Is(err, models.ErrResearchNotFound) {
		t.Fatalf("expected ErrResearchNotFound, got %v", err)
	}
}

func TestInsertSearchResultsSkipsPlaceholders(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &Store{DB: db}
	mock.ExpectBegin()
	mock.ExpectExec(`INSERT INTO research`).
		WithArgs("Real Paper", "", "ai", []byte(`[]`), "", "", []byte(`[]`),
			"https://arxiv.org/pdf/1111.0001.pdf", "https://arxiv.org/abs/1111.0001", 0, 0.0).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	papers := []models.Paper{
		{ID: "1111.0001", Title: "Real Paper", PDFURL: "https://arxiv.org/pdf/1111.0001.pdf", SourceURL: "https://arxiv.org/abs/1111.0001"},
		{Title: "No papers found for AI"}, // placeholder, no id
	}
	if err := st.InsertSearchResults(context.Background(), models.DomainAI, papers); err != nil {
		t.Fatalf("InsertSearchResults: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestUpdateObjectKey(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &Store{DB: db}
	mock.ExpectExec(`UPDATE research SET object_key=\$2`).
		WithArgs("https://arxiv.org/abs/1111.0001", "Real_Paper.pdf").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := st.UpdateObjectKey(context.Background(), "https://arxiv.org/abs/1111.0001", "Real_Paper.pdf"); err != nil {
		t.Fatalf("UpdateObjectKey: %v", err)
	}
}

func TestGetUserByEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	st := &Store{DB: db}
	mock.ExpectQuery(`SELECT id, password_hash FROM users WHERE email=\$1`).
		WithArgs("a@b.c").
		WillReturnRows(sqlmock.NewRows([]string{"id", "password_hash"}).AddRow("user-1", "hash"))

	id, hash, err := st.GetUserByEmail(context.Background(), "a@b.c")
	if err != nil {
		t.Fatalf("GetUserByEmail: %v", err)
	}
	if id != "user-1" || hash != "hash" {
		t.Fatalf("got %q %q", id, hash)
	}
}
