package server

import "github.com/axpress-labs/scholard/models"

// HTTPError is a generic error envelope returned by the server.
type HTTPError struct {
	Error string `json:"error"`
}

// AuthSignupRequest represents the signup payload.
type AuthSignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthLoginRequest represents the login payload.
type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse carries a bearer token.
type TokenResponse struct {
	Token string `json:"token"`
}

// SearchRequest selects the domain to discover papers for.
type SearchRequest struct {
	Domain string `json:"domain"`
}

// SearchResponse is the day's paper list for a domain.
type SearchResponse struct {
	Domain string         `json:"domain"`
	Count  int            `json:"count"`
	Papers []models.Paper `json:"papers"`
}

// DownloadRequest asks the server to retrieve a paper PDF. ArxivURL is
// the paper's canonical abstract page; when present the stored location
// is recorded against the matching research row.
type DownloadRequest struct {
	Title    string `json:"title"`
	PDFURL   string `json:"pdf_url"`
	ArxivURL string `json:"arxiv_url"`
}

// DownloadResponse points at the stored PDF.
type DownloadResponse struct {
	OutputPath  string `json:"output_path"`
	DownloadURL string `json:"download_url"`
	Filename    string `json:"filename"`
}

// DomainInfo describes one selectable research domain.
type DomainInfo struct {
	Domain      string `json:"domain"`
	DisplayName string `json:"display_name"`
}

// LocalSearchHit is one match from the in-process paper index.
type LocalSearchHit struct {
	Paper models.Paper `json:"paper"`
	Score float64      `json:"score"`
	Rank  int          `json:"rank"`
}

// ResearchUpdateRequest carries the mutable research fields.
type ResearchUpdateRequest struct {
	Title    *string `json:"title"`
	Abstract *string `json:"abstract"`
}
