package services

import (
	"sort"
	"strings"

	"github.com/skald-ai/skald-engine/pkg/models"
)

// GeneralDomain is the always-available fallback classification.
const GeneralDomain = "general"

// domainKeywordSet pairs a domain label with the column-name keywords that
// vote for it. Order is significant: it is the tie-break for equal scores.
type domainKeywordSet struct {
	domain   string
	keywords []string
}

var domainKeywordSets = []domainKeywordSet{
	{"ecommerce", []string{"order", "product", "cart", "payment", "customer", "purchase", "shipping"}},
	{"hr", []string{"employee", "department", "position", "salary", "hr", "staff", "personnel"}},
	{"crm", []string{"customer", "contact", "lead", "account", "opportunity", "client"}},
	{"analytics", []string{"metric", "kpi", "dashboard", "report", "analytics", "measure"}},
	{"finance", []string{"transaction", "payment", "invoice", "revenue", "expense", "budget"}},
	{"inventory", []string{"product", "stock", "warehouse", "supply", "item"}},
	{GeneralDomain, nil},
}

// Confidence formula constants. The formula is heuristic; these are tuning
// knobs, not semantically meaningful values.
var (
	domainConfidenceScale    = 0.3
	domainFallbackConfidence = 0.5
)

const maxAlternativeDomains = 3

// minKeywordTokenLength drops short tokens ("id", "at") from frequency
// counting.
const minKeywordTokenLength = 3

// InferDomain classifies the overall business domain from column-name
// keyword frequency across all input schemas. Deterministic for identical
// input; ties resolve in the fixed order of the domain table.
func InferDomain(schemas []models.Schema) models.DomainInference {
	tokenCounts := make(map[string]int)
	for _, schema := range schemas {
		for _, table := range schema.Tables {
			for _, column := range table.Columns {
				for _, word := range strings.Split(strings.ToLower(column.ColumnName), "_") {
					if len(word) >= minKeywordTokenLength {
						tokenCounts[word]++
					}
				}
			}
		}
	}

	type domainScore struct {
		domain  string
		score   int
		matched []string
	}

	totalKeywords := 0
	scores := make([]domainScore, 0, len(domainKeywordSets))
	for _, set := range domainKeywordSets {
		totalKeywords += len(set.keywords)

		ds := domainScore{domain: set.domain, matched: []string{}}
		for _, keyword := range set.keywords {
			if count := tokenCounts[keyword]; count > 0 {
				ds.score += count
				ds.matched = append(ds.matched, keyword)
			}
		}
		scores = append(scores, ds)
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	scoreConfidence := func(score int) float64 {
		c := float64(score) / (float64(totalKeywords) * domainConfidenceScale)
		if c > 1.0 {
			c = 1.0
		}
		return c
	}

	primary := scores[0]
	if primary.score == 0 {
		return DefaultDomain()
	}
	confidence := scoreConfidence(primary.score)

	alternatives := make([]models.AlternativeDomain, 0, maxAlternativeDomains)
	for _, ds := range scores[1:] {
		if len(alternatives) == maxAlternativeDomains {
			break
		}
		if ds.score == 0 {
			continue
		}
		alternatives = append(alternatives, models.AlternativeDomain{
			Domain:     ds.domain,
			Confidence: scoreConfidence(ds.score),
		})
	}

	return models.DomainInference{
		Domain:             primary.domain,
		Confidence:         confidence,
		Keywords:           primary.matched,
		AlternativeDomains: alternatives,
	}
}

// DefaultDomain returns the fallback classification used when no domain
// inference runs, such as in the fast-path context builder.
func DefaultDomain() models.DomainInference {
	return models.DomainInference{
		Domain:             GeneralDomain,
		Confidence:         domainFallbackConfidence,
		Keywords:           []string{},
		AlternativeDomains: []models.AlternativeDomain{},
	}
}
