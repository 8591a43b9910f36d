package models

import (
	"errors"
	"strings"
)

// ErrPaperNotFound is returned when a paper cannot be resolved at the source
var ErrPaperNotFound = errors.New("paper not found")

// ErrResearchNotFound is returned when a research record is absent from the store
var ErrResearchNotFound = errors.New("research not found")

// Paper is a normalized record from the external paper source. It is
// immutable once constructed; a re-fetch produces a new value.
type Paper struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Authors        []string `json:"authors"`
	Abstract       string   `json:"abstract"`
	PublishedDate  string   `json:"published_date"`
	UpdatedDate    string   `json:"updated_date"`
	Categories     []string `json:"categories"`
	PDFURL         string   `json:"pdf_url"`
	SourceURL      string   `json:"url"`
	CitationCount  int      `json:"citation_count"`
	RelevanceScore float64  `json:"relevance_score"`
}

// Recommendation is a hint parsed from model output. It is never treated
// as authoritative; it must be resolved against the paper source first.
type Recommendation struct {
	Title      string `json:"title"`
	Authors    string `json:"authors"`
	Year       string `json:"year"`
	Identifier string `json:"identifier"`
}

// Domain identifies a recognized research domain.
type Domain string

const (
	DomainAI            Domain = "ai"
	DomainFinance       Domain = "finance"
	DomainTelecom       Domain = "telecom"
	DomainManufacturing Domain = "manufacturing"
	DomainLogistics     Domain = "logistics"
	DomainCloud         Domain = "cloud"
)

// Domains lists every recognized domain in a stable order.
func Domains() []Domain {
	return []Domain{DomainAI, DomainFinance, DomainTelecom, DomainManufacturing, DomainLogistics, DomainCloud}
}

// ParseDomain normalizes s into a recognized Domain.
func ParseDomain(s string) (Domain, bool) {
	d := Domain(strings.ToLower(strings.TrimSpace(s)))
	switch d {
	case DomainAI, DomainFinance, DomainTelecom, DomainManufacturing, DomainLogistics, DomainCloud:
		return d, true
	}
	return "", false
}

// ResultTier tags how a paper entered a search result. Lower tiers sort first.
type ResultTier int

const (
	TierRecommended ResultTier = iota
	TierSupplement
	TierFallback
	TierPlaceholder
)

func (t ResultTier) String() string {
	switch t {
	case TierRecommended:
		return "recommended"
	case TierSupplement:
		return "supplement"
	case TierFallback:
		return "fallback"
	case TierPlaceholder:
		return "placeholder"
	default:
		return "unknown"
	}
}
