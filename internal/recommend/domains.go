package recommend

import (
	"strings"

	"github.com/axpress-labs/scholard/models"
)

// DomainProfile carries everything the requester and orchestrator know
// about a recognized research domain.
type DomainProfile struct {
	Domain       models.Domain
	DisplayName  string
	Institutions []string
	Venues       []string
	// Keywords and Categories feed arXiv supplement queries.
	Keywords   []string
	Categories []string
	// FallbackIDs are known-good arXiv ids used when every live tier fails.
	FallbackIDs []string
}

var profiles = map[models.Domain]DomainProfile{
	models.DomainAI: {
		Domain:       models.DomainAI,
		DisplayName:  "AI",
		Institutions: []string{"OpenAI", "Google DeepMind", "Anthropic", "Meta AI", "Stanford"},
		Venues:       []string{"NeurIPS", "ICML", "ICLR", "ACL"},
		Keywords:     []string{"artificial intelligence", "machine learning", "deep learning", "LLM", "generative AI", "neural networks"},
		Categories:   []string{"cs.AI", "cs.LG", "cs.CL"},
		FallbackIDs:  []string{"1706.03762", "2005.14165", "2303.08774", "1810.04805", "2106.09685"},
	},
	models.DomainFinance: {
		Domain:       models.DomainFinance,
		DisplayName:  "finance",
		Institutions: []string{"JPMorgan AI Research", "Bloomberg", "Two Sigma", "MIT Sloan"},
		Venues:       []string{"Journal of Finance", "Quantitative Finance", "KDD"},
		Keywords:     []string{"finance", "financial", "banking", "fintech", "investment", "trading", "economics"},
		Categories:   []string{"q-fin.GN", "q-fin.CP", "econ.GN"},
		FallbackIDs:  []string{"2303.17564", "1911.13288", "2006.04992", "1706.10059", "2106.00123"},
	},
	models.DomainTelecom: {
		Domain:       models.DomainTelecom,
		DisplayName:  "telecom",
		Institutions: []string{"Ericsson Research", "Nokia Bell Labs", "Qualcomm", "Huawei"},
		Venues:       []string{"IEEE Communications Magazine", "INFOCOM", "GLOBECOM"},
		Keywords:     []string{"telecommunications", "communication", "network", "5G", "6G", "wireless"},
		Categories:   []string{"cs.NI", "eess.SP"},
		FallbackIDs:  []string{"2101.12475", "1902.10265", "2004.14247", "1904.11680", "2203.05312"},
	},
	models.DomainManufacturing: {
		Domain:       models.DomainManufacturing,
		DisplayName:  "manufacturing",
		Institutions: []string{"Siemens", "Bosch Research", "Fraunhofer", "MIT CSAIL"},
		Venues:       []string{"CIRP Annals", "IEEE Transactions on Industrial Informatics", "ICRA"},
		Keywords:     []string{"manufacturing", "production", "industrial", "factory", "automation", "robotics"},
		Categories:   []string{"cs.RO", "cs.SY", "eess.SY"},
		FallbackIDs:  []string{"2103.11158", "1912.01703", "2008.02275", "1809.07731", "2204.06125"},
	},
	models.DomainLogistics: {
		Domain:       models.DomainLogistics,
		DisplayName:  "logistics",
		Institutions: []string{"Amazon Science", "Alibaba DAMO", "DHL Innovation", "Georgia Tech"},
		Venues:       []string{"Transportation Science", "EJOR", "NeurIPS"},
		Keywords:     []string{"logistics", "supply chain", "distribution", "retail", "e-commerce", "optimization"},
		Categories:   []string{"cs.AI", "math.OC"},
		FallbackIDs:  []string{"1802.04240", "1906.01227", "2010.16011", "1811.06128", "2002.03230"},
	},
	models.DomainCloud: {
		Domain:       models.DomainCloud,
		DisplayName:  "cloud",
		Institutions: []string{"Google", "Microsoft Azure", "AWS", "UC Berkeley RISELab"},
		Venues:       []string{"SOSP", "OSDI", "NSDI", "EuroSys"},
		Keywords:     []string{"cloud computing", "distributed systems", "microservices", "kubernetes", "container"},
		Categories:   []string{"cs.DC", "cs.DS", "cs.SE"},
		FallbackIDs:  []string{"1902.03383", "2006.02245", "1711.01361", "1606.04036", "2205.07147"},
	},
}

// Profile returns the profile for a recognized domain.
func Profile(d models.Domain) (DomainProfile, bool) {
	p, ok := profiles[d]
	return p, ok
}

// SupplementQuery builds the arXiv query used to fill short result sets:
// the domain's keywords OR'd with its arXiv categories.
func (p DomainProfile) SupplementQuery() string {
	terms := make([]string, 0, len(p.Keywords))
	for _, kw := range p.Keywords {
		terms = append(terms, `all:"`+kw+`"`)
	}
	q := strings.Join(terms, " OR ")
	if len(p.Categories) > 0 {
		cats := make([]string, 0, len(p.Categories))
		for _, c := range p.Categories {
			cats = append(cats, "cat:"+c)
		}
		q = "(" + q + ") OR (" + strings.Join(cats, " OR ") + ")"
	}
	return q
}
