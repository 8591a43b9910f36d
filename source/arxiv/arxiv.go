package arxiv

import (
	"context"
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/axpress-labs/scholard/config"
	"github.com/axpress-labs/scholard/models"
)

// atom wire format of the arXiv query API
type feed struct {
	Entries []entry `xml:"entry"`
}

type entry struct {
	ID         string     `xml:"id"`
	Title      string     `xml:"title"`
	Published  string     `xml:"published"`
	Updated    string     `xml:"updated"`
	Summary    string     `xml:"summary"`
	Authors    []author   `xml:"author"`
	Categories []category `xml:"category"`
}

type author struct {
	Name string `xml:"name"`
}

type category struct {
	Term string `xml:"term,attr"`
}

// Client queries the arXiv export API. Calls are sequential; the
// recommendation lists are small enough that throughput does not matter.
type Client struct {
	Endpoint   string
	MaxResults int
	httpClient *http.Client
}

// NewClient creates an arXiv client from configuration.
func NewClient(cfg config.ArXivConfig) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://export.arxiv.org/api/query"
	}
	max := cfg.MaxResults
	if max <= 0 {
		max = 10
	}
	return &Client{
		Endpoint:   endpoint,
		MaxResults: max,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

// SearchByKeywords runs a free-text query sorted by relevance. A network
// failure or empty feed is not fatal to callers; they treat it as "no match".
func (c *Client) SearchByKeywords(ctx context.Context, query string, maxResults int) ([]models.Paper, error) {
	if maxResults <= 0 || maxResults > c.MaxResults {
		maxResults = c.MaxResults
	}
	params := url.Values{}
	params.Add("search_query", query)
	params.Add("start", "0")
	params.Add("max_results", fmt.Sprintf("%d", maxResults))
	params.Add("sortBy", "relevance")
	params.Add("sortOrder", "descending")
	return c.query(ctx, params)
}

// SearchLatest runs a free-text query sorted by submission date.
func (c *Client) SearchLatest(ctx context.Context, query string, maxResults int) ([]models.Paper, error) {
	if maxResults <= 0 || maxResults > c.MaxResults {
		maxResults = c.MaxResults
	}
	params := url.Values{}
	params.Add("search_query", query)
	params.Add("start", "0")
	params.Add("max_results", fmt.Sprintf("%d", maxResults))
	params.Add("sortBy", "submittedDate")
	params.Add("sortOrder", "descending")
	return c.query(ctx, params)
}

// FetchByID resolves a single paper by its arXiv identifier.
// Returns models.ErrPaperNotFound when the id does not resolve.
func (c *Client) FetchByID(ctx context.Context, id string) (models.Paper, error) {
	id = NormalizeID(id)
	if id == "" {
		return models.Paper{}, models.ErrPaperNotFound
	}
	params := url.Values{}
	params.Add("id_list", id)
	params.Add("max_results", "1")
	papers, err := c.query(ctx, params)
	if err != nil {
		return models.Paper{}, err
	}
	if len(papers) == 0 {
		return models.Paper{}, models.ErrPaperNotFound
	}
	return papers[0], nil
}

func (c *Client) query(ctx context.Context, params url.Values) ([]models.Paper, error) {
	reqURL := fmt.Sprintf("%s?%s", c.Endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch papers: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("arxiv error: %s", resp.Status)
	}

	var result feed
	if err := xml.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	papers := make([]models.Paper, 0, len(result.Entries))
	for _, e := range result.Entries {
		papers = append(papers, e.toPaper())
	}
	return papers, nil
}

func (e entry) toPaper() models.Paper {
	id := NormalizeID(e.ID)
	authors := make([]string, 0, len(e.Authors))
	for _, a := range e.Authors {
		if name := strings.TrimSpace(a.Name); name != "" {
			authors = append(authors, name)
		}
	}
	var categories []string
	for _, c := range e.Categories {
		if c.Term != "" {
			categories = append(categories, c.Term)
		}
	}
	return models.Paper{
		ID:            id,
		Title:         cleanText(e.Title),
		Authors:       authors,
		Abstract:      cleanText(e.Summary),
		PublishedDate: strings.TrimSpace(e.Published),
		UpdatedDate:   strings.TrimSpace(e.Updated),
		Categories:    categories,
		PDFURL:        fmt.Sprintf("https://arxiv.org/pdf/%s.pdf", id),
		SourceURL:     fmt.Sprintf("https://arxiv.org/abs/%s", id),
	}
}

// NormalizeID extracts a bare arXiv id from an abs/pdf URL or an
// "arXiv:" prefixed identifier.
func NormalizeID(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "arXiv:")
	s = strings.TrimPrefix(s, "arxiv:")
	if idx := strings.Index(s, "/abs/"); idx >= 0 {
		s = s[idx+len("/abs/"):]
	} else if idx := strings.Index(s, "/pdf/"); idx >= 0 {
		s = s[idx+len("/pdf/"):]
	}
	s = strings.TrimSuffix(s, ".pdf")
	return strings.TrimSpace(s)
}

// cleanText collapses the newline-indented text arXiv returns inside
// title and summary elements.
func cleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
