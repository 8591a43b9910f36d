package search

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/axpress-labs/scholard/internal/cache"
	"github.com/axpress-labs/scholard/internal/recommend"
	"github.com/axpress-labs/scholard/internal/telemetry"
	"github.com/axpress-labs/scholard/models"
)

// PaperSource resolves hints into normalized paper records.
type PaperSource interface {
	SearchByKeywords(ctx context.Context, query string, maxResults int) ([]models.Paper, error)
	SearchLatest(ctx context.Context, query string, maxResults int) ([]models.Paper, error)
	FetchByID(ctx context.Context, id string) (models.Paper, error)
}

// Recommender produces the model's free-text recommendation reply.
// An empty reply means "no recommendations".
type Recommender interface {
	Recommendations(ctx context.Context, domain models.Domain) string
}

// RecordSink persists finished search results. Optional.
type RecordSink interface {
	InsertSearchResults(ctx context.Context, domain models.Domain, papers []models.Paper) error
}

// Indexer receives resolved papers for local full-text search. Optional.
type Indexer interface {
	Add(papers []models.Paper) error
}

// Orchestrator drives one search through its resolution tiers:
// recommendations are resolved first, a domain keyword search fills short
// results, the static fallback table covers an empty set, and placeholders
// guarantee the caller always receives a bounded non-empty list.
type Orchestrator struct {
	Source      PaperSource
	Recommender Recommender
	Cache       cache.Store
	Records     RecordSink
	Index       Indexer
	Target      int
	Logger      *log.Logger

	// Now is swappable for day-boundary tests.
	Now func() time.Time
}

func (o *Orchestrator) now() time.Time {
	if o.Now != nil {
		return o.Now()
	}
	return time.Now()
}

func (o *Orchestrator) target() int {
	if o.Target > 0 {
		return o.Target
	}
	return 5
}

func (o *Orchestrator) logf(format string, args ...interface{}) {
	if o.Logger != nil {
		o.Logger.Printf(format, args...)
	}
}

// Search returns the day's paper list for a domain, running the pipeline
// only on the first call of the day. The returned list is never empty and
// never longer than the target count.
func (o *Orchestrator) Search(ctx context.Context, domain models.Domain) ([]models.Paper, error) {
	profile, ok := recommend.Profile(domain)
	if !ok {
		return nil, fmt.Errorf("unrecognized domain: %s", domain)
	}
	telemetry.SearchRequests.WithLabelValues(string(domain)).Inc()

	key := cache.Key(domain, o.now())
	if cached, hit, err := o.Cache.Get(ctx, key); err == nil && hit {
		telemetry.SearchCacheHits.WithLabelValues(string(domain)).Inc()
		return cached, nil
	} else if err != nil {
		o.logf("cache read failed for %s: %v", key, err)
	}

	papers := o.run(ctx, profile)

	if err := o.Cache.Set(ctx, key, papers); err != nil {
		o.logf("cache write failed for %s: %v", key, err)
	}
	if o.Records != nil {
		if err := o.Records.InsertSearchResults(ctx, domain, papers); err != nil {
			o.logf("persist search results for %s: %v", domain, err)
		}
	}
	if o.Index != nil {
		if err := o.Index.Add(papers); err != nil {
			o.logf("index search results for %s: %v", domain, err)
		}
	}
	return papers, nil
}

// run executes the resolution tiers in order and returns the final
// ordered, deduplicated list.
func (o *Orchestrator) run(ctx context.Context, profile recommend.DomainProfile) []models.Paper {
	target := o.target()
	seen := newDedup()
	var out []models.Paper

	add := func(p models.Paper, tier models.ResultTier) bool {
		if len(out) >= target || !seen.admit(p) {
			return false
		}
		out = append(out, p)
		telemetry.ResultsByTier.WithLabelValues(string(profile.Domain), tier.String()).Inc()
		return true
	}

	// REQUEST_RECOMMENDATIONS
	reply := o.Recommender.Recommendations(ctx, profile.Domain)
	items := recommend.Parse(reply)
	if len(items) == 0 {
		telemetry.RecommendationFailures.Inc()
	}

	// RESOLVE_EACH: identifier lookup first, title/author keyword search
	// otherwise or on miss. Unresolved items are dropped whole.
	for _, item := range items {
		if len(out) >= target {
			break
		}
		if p, ok := o.resolve(ctx, item); ok {
			add(p, models.TierRecommended)
		}
	}

	// SUPPLEMENT_IF_SHORT: recent domain papers fill the remainder.
	if len(out) < target {
		supplements, err := o.Source.SearchLatest(ctx, profile.SupplementQuery(), target*2)
		if err != nil {
			telemetry.SourceErrors.WithLabelValues("search").Inc()
			o.logf("supplement search failed for %s: %v", profile.Domain, err)
		}
		for _, p := range supplements {
			if len(out) >= target {
				break
			}
			add(p, models.TierSupplement)
		}
	}

	// FALLBACK_IF_EMPTY: the static known-good table, then placeholders.
	if len(out) == 0 {
		for _, id := range profile.FallbackIDs {
			if len(out) >= target {
				break
			}
			p, err := o.Source.FetchByID(ctx, id)
			if err != nil {
				telemetry.SourceErrors.WithLabelValues("fetch").Inc()
				continue
			}
			add(p, models.TierFallback)
		}
	}
	if len(out) == 0 {
		for i := 0; i < target; i++ {
			add(placeholder(profile), models.TierPlaceholder)
		}
	}

	return out
}

// resolve turns one recommendation hint into a source record, or drops it.
func (o *Orchestrator) resolve(ctx context.Context, item models.Recommendation) (models.Paper, bool) {
	if item.Identifier != "" {
		p, err := o.Source.FetchByID(ctx, item.Identifier)
		if err == nil {
			return p, true
		}
		telemetry.SourceErrors.WithLabelValues("fetch").Inc()
	}
	query := keywordQuery(item)
	if query == "" {
		return models.Paper{}, false
	}
	papers, err := o.Source.SearchByKeywords(ctx, query, 1)
	if err != nil {
		telemetry.SourceErrors.WithLabelValues("search").Inc()
		return models.Paper{}, false
	}
	if len(papers) == 0 {
		return models.Paper{}, false
	}
	return papers[0], true
}

// keywordQuery builds the title+author fallback query for a hint.
func keywordQuery(item models.Recommendation) string {
	title := strings.TrimSpace(item.Title)
	if title == "" {
		return ""
	}
	q := fmt.Sprintf(`ti:%q`, title)
	if first := firstAuthor(item.Authors); first != "" {
		q += fmt.Sprintf(` AND au:%q`, first)
	}
	return q
}

func firstAuthor(authors string) string {
	for _, a := range strings.Split(authors, ",") {
		a = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(a), "et al."))
		if a != "" && !strings.EqualFold(a, "et al") {
			return a
		}
	}
	return ""
}

// placeholder synthesizes the guaranteed non-empty tier. It carries no
// identifier, so it is never persisted, indexed or deduplicated away.
func placeholder(profile recommend.DomainProfile) models.Paper {
	return models.Paper{
		Title:    fmt.Sprintf("No papers found for %s", profile.DisplayName),
		Abstract: fmt.Sprintf("No research papers were found for the %s domain today. Please try again later.", profile.DisplayName),
	}
}

// dedup tracks identifiers first and normalized titles as a secondary
// best-effort check.
type dedup struct {
	ids    map[string]struct{}
	titles map[string]struct{}
}

func newDedup() *dedup {
	return &dedup{ids: make(map[string]struct{}), titles: make(map[string]struct{})}
}

func (d *dedup) admit(p models.Paper) bool {
	if p.ID != "" {
		if _, dup := d.ids[p.ID]; dup {
			return false
		}
	}
	title := normalizeTitle(p.Title)
	if p.ID != "" && title != "" {
		if _, dup := d.titles[title]; dup {
			return false
		}
	}
	if p.ID != "" {
		d.ids[p.ID] = struct{}{}
	}
	if title != "" {
		d.titles[title] = struct{}{}
	}
	return true
}

func normalizeTitle(title string) string {
	return strings.Join(strings.Fields(strings.ToLower(title)), " ")
}
