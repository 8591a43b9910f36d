package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"

	"github.com/axpress-labs/scholard/models"
)

type Store struct {
	DB *sql.DB
}

// NewWithDSN opens a Postgres connection and verifies it.
func NewWithDSN(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("postgres ping: %w", err)
	}
	return &Store{DB: db}, nil
}

// ResearchRecord is a persisted research row. Search results are bulk
// inserted on pipeline completion; the admin CRUD surface operates on the
// same table.
type ResearchRecord struct {
	ID             int64     `json:"id"`
	Title          string    `json:"title"`
	Abstract       string    `json:"abstract"`
	Domain         string    `json:"domain"`
	Authors        []string  `json:"authors"`
	PublishedDate  string    `json:"published_date"`
	UpdatedDate    string    `json:"updated_date"`
	Categories     []string  `json:"categories"`
	PDFURL         string    `json:"pdf_url"`
	ArxivURL       string    `json:"arxiv_url"`
	CitationCount  int       `json:"citation_count"`
	RelevanceScore float64   `json:"relevance_score"`
	ObjectKey      string    `json:"object_key,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

const researchColumns = `id, title, abstract, domain, authors, published_date, updated_date, categories, pdf_url, arxiv_url, citation_count, relevance_score, object_key, created_at, updated_at`

// CreateUser inserts a new user row with a bcrypt password hash.
func (s *Store) CreateUser(ctx context.Context, email, passwordHash string) error {
	_, err := s.DB.ExecContext(ctx, `INSERT INTO users (email, password_hash) VALUES ($1, $2)`, email, passwordHash)
	return err
}

// GetUserByEmail returns id and password hash for a user.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (string, string, error) {
	var id, hash string
	err := s.DB.QueryRowContext(ctx, `SELECT id, password_hash FROM users WHERE email=$1`, email).Scan(&id, &hash)
	if err != nil {
		return "", "", err
	}
	return id, hash, nil
}

// CreateResearch inserts a single research entry.
func (s *Store) CreateResearch(ctx context.Context, rec ResearchRecord) (ResearchRecord, error) {
	if strings.TrimSpace(rec.Title) == "" {
		return ResearchRecord{}, fmt.Errorf("research title required")
	}
	authors, _ := json.Marshal(emptyIfNil(rec.Authors))
	categories, _ := json.Marshal(emptyIfNil(rec.Categories))
	row := s.DB.QueryRowContext(ctx, `
INSERT INTO research (title, abstract, domain, authors, published_date, updated_date, categories, pdf_url, arxiv_url, citation_count, relevance_score, object_key)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)
RETURNING `+researchColumns, rec.Title, rec.Abstract, rec.Domain, authors, rec.PublishedDate, rec.UpdatedDate, categories, rec.PDFURL, rec.ArxivURL, rec.CitationCount, rec.RelevanceScore, nullableString(rec.ObjectKey))
	return scanResearch(row)
}

// GetResearch fetches one research entry by id.
func (s *Store) GetResearch(ctx context.Context, id int64) (ResearchRecord, error) {
	row := s.DB.QueryRowContext(ctx, `SELECT `+researchColumns+` FROM research WHERE id=$1`, id)
	rec, err := scanResearch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ResearchRecord{}, models.ErrResearchNotFound
	}
	return rec, err
}

// ListResearch returns research entries with pagination, newest first.
func (s *Store) ListResearch(ctx context.Context, offset, limit int) ([]ResearchRecord, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}
	rows, err := s.DB.QueryContext(ctx, `SELECT `+researchColumns+` FROM research ORDER BY created_at DESC, id DESC OFFSET $1 LIMIT $2`, offset, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []ResearchRecord
	for rows.Next() {
		rec, err := scanResearch(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// UpdateResearch updates title and/or abstract of an entry.
func (s *Store) UpdateResearch(ctx context.Context, id int64, title, abstract *string) (ResearchRecord, error) {
	row := s.DB.QueryRowContext(ctx, `
UPDATE research
SET title = COALESCE($2, title), abstract = COALESCE($3, abstract), updated_at = now()
WHERE id = $1
RETURNING `+researchColumns, id, title, abstract)
	rec, err := scanResearch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ResearchRecord{}, models.ErrResearchNotFound
	}
	return rec, err
}

// DeleteResearch removes an entry by id.
func (s *Store) DeleteResearch(ctx context.Context, id int64) error {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM research WHERE id=$1`, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrResearchNotFound
	}
	return nil
}

// InsertSearchResults persists a finished search for a domain. Placeholder
// papers carry no identifier and are not worth a row.
func (s *Store) InsertSearchResults(ctx context.Context, domain models.Domain, papers []models.Paper) error {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, p := range papers {
		if p.ID == "" {
			continue
		}
		authors, _ := json.Marshal(emptyIfNil(p.Authors))
		categories, _ := json.Marshal(emptyIfNil(p.Categories))
		if _, err := tx.ExecContext(ctx, `
INSERT INTO research (title, abstract, domain, authors, published_date, updated_date, categories, pdf_url, arxiv_url, citation_count, relevance_score)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (domain, arxiv_url) WHERE arxiv_url <> '' DO NOTHING`,
			p.Title, p.Abstract, string(domain), authors, p.PublishedDate, p.UpdatedDate, categories, p.PDFURL, p.SourceURL, p.CitationCount, p.RelevanceScore); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// UpdateObjectKey records where a downloaded PDF was stored, keyed by the
// paper's canonical source URL.
func (s *Store) UpdateObjectKey(ctx context.Context, arxivURL, objectKey string) error {
	_, err := s.DB.ExecContext(ctx, `UPDATE research SET object_key=$2, updated_at=now() WHERE arxiv_url=$1`, arxivURL, objectKey)
	return err
}

func scanResearch(row interface{ Scan(...interface{}) error }) (ResearchRecord, error) {
	var rec ResearchRecord
	var authors, categories []byte
	var objectKey sql.NullString
	err := row.Scan(&rec.ID, &rec.Title, &rec.Abstract, &rec.Domain, &authors, &rec.PublishedDate, &rec.UpdatedDate, &categories, &rec.PDFURL, &rec.ArxivURL, &rec.CitationCount, &rec.RelevanceScore, &objectKey, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return ResearchRecord{}, err
	}
	if objectKey.Valid {
		rec.ObjectKey = objectKey.String
	}
	_ = json.Unmarshal(authors, &rec.Authors)
	_ = json.Unmarshal(categories, &rec.Categories)
	return rec, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

func nullableString(s string) interface{} {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return s
}
