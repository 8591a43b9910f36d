package index

import (
	"sync"

	"github.com/blevesearch/bleve"

	"github.com/axpress-labs/scholard/models"
)

// indexedPaper is the subset of fields bleve analyzes.
type indexedPaper struct {
	Title    string `json:"title"`
	Abstract string `json:"abstract"`
	Authors  string `json:"authors"`
}

// Hit is one local search result.
type Hit struct {
	Paper models.Paper `json:"paper"`
	Score float64      `json:"score"`
	Rank  int          `json:"rank"`
}

// PaperIndex keeps an in-memory full-text index over every paper the
// orchestrator has resolved during this process lifetime.
type PaperIndex struct {
	mu    sync.RWMutex
	bleve bleve.Index
	meta  map[string]models.Paper
}

// New creates an empty mem-only paper index.
func New() (*PaperIndex, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, err
	}
	return &PaperIndex{bleve: idx, meta: make(map[string]models.Paper)}, nil
}

// Add indexes papers, overwriting previous versions of the same id.
// Placeholder entries carry no identifier worth indexing and are skipped.
func (p *PaperIndex) Add(papers []models.Paper) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, paper := range papers {
		if paper.ID == "" {
			continue
		}
		doc := indexedPaper{
			Title:    paper.Title,
			Abstract: paper.Abstract,
			Authors:  joinAuthors(paper.Authors),
		}
		if err := p.bleve.Index(paper.ID, doc); err != nil {
			return err
		}
		p.meta[paper.ID] = paper
	}
	return nil
}

// Search runs a query-string search and returns up to k hits.
func (p *PaperIndex) Search(q string, k int) ([]Hit, error) {
	query := bleve.NewQueryStringQuery(q)
	searchReq := bleve.NewSearchRequestOptions(query, k, 0, false)
	res, err := p.bleve.Search(searchReq)
	if err != nil {
		return nil, err
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]Hit, 0, len(res.Hits))
	for i, hit := range res.Hits {
		paper, ok := p.meta[hit.ID]
		if !ok {
			continue
		}
		out = append(out, Hit{Paper: paper, Score: hit.Score, Rank: i + 1})
	}
	return out, nil
}

func joinAuthors(authors []string) string {
	s := ""
	for i, a := range authors {
		if i > 0 {
			s += ", "
		}
		s += a
	}
	return s
}
