package recommend

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/axpress-labs/scholard/models"
	"github.com/axpress-labs/scholard/provider"
)

const systemPrompt = `You are a research paper recommendation assistant. You recommend influential, real, publicly available papers.

RULES:
1. Only recommend papers that actually exist on arXiv
2. Prefer papers from the named leading organizations and venues
3. Respond with exactly five items in the exact format requested
4. Do not include any other text or explanation`

const userPromptTemplate = `Recommend exactly 5 research papers for the "%s" domain.

Leading organizations in this domain: %s
Leading venues: %s

RESPONSE FORMAT (one block per paper, numbered 1-5):
1. Title: <paper title>
   Authors: <comma separated authors>
   Year: <four digit year>
   Identifier: arXiv:<arxiv id>`

// Requester asks the chat model for paper recommendations for a domain.
type Requester struct {
	LLM    provider.Provider
	Logger *log.Logger
}

// Recommendations returns the model's free-text reply for a domain. A
// failed call or an unrecognized domain yields "no recommendations"
// (empty string, nil error) so the caller can fall straight through to
// its fallback tiers.
func (r *Requester) Recommendations(ctx context.Context, domain models.Domain) string {
	p, ok := Profile(domain)
	if !ok {
		return ""
	}
	userPrompt := fmt.Sprintf(userPromptTemplate,
		p.DisplayName,
		strings.Join(p.Institutions, ", "),
		strings.Join(p.Venues, ", "),
	)
	reply, err := r.LLM.Complete(ctx, systemPrompt, userPrompt)
	if err != nil {
		if r.Logger != nil {
			r.Logger.Printf("recommendation request failed for %s: %v", domain, err)
		}
		return ""
	}
	return reply
}
