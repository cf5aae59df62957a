package service

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Harshitk-cp/sibyl/internal/domain"
)

const (
	// DefaultFallbackCount bounds the ordered fallback list.
	DefaultFallbackCount = 2
)

// pricingKeywords is the fixed multilingual fast-path list. A substring hit
// on any of these routes to pricing at confidence 1.0 before any scoring.
var pricingKeywords = []string{
	"price", "pricing", "cost", "fee", "fees", "how much", "tariff",
	"стоимость", "цена", "сколько стоит", "тариф",
	"سعر", "تكلفة", "رسوم",
	"precio", "cuánto cuesta", "tarifa",
}

// partitionKeywords are the static topic rules behind generic classification.
// Scores are proportional to match counts; ties break by table order below.
var partitionKeywords = map[domain.Partition][]string{
	domain.PartitionVisa: {
		"visa", "residence permit", "residency", "work permit", "sponsor",
		"entry permit", "emirates id", "golden visa", "investor visa",
	},
	domain.PartitionTax: {
		"tax", "vat", "corporate tax", "excise", "tax return", "tax registration",
		"withholding", "double taxation",
	},
	domain.PartitionLegal: {
		"company", "license", "incorporation", "free zone", "mainland",
		"shareholder", "liquidation", "trade name", "memorandum", "contract",
	},
	domain.PartitionRealEstate: {
		"real estate", "property", "rent", "lease", "tenancy", "landlord",
		"title deed", "mortgage", "off-plan",
	},
	domain.PartitionKnowledge: {
		"how to", "what is", "requirements", "procedure", "documents needed",
	},
}

// classificationOrder fixes tie-break priority between partitions.
var classificationOrder = []domain.Partition{
	domain.PartitionVisa,
	domain.PartitionTax,
	domain.PartitionLegal,
	domain.PartitionRealEstate,
	domain.PartitionKnowledge,
}

// RouterService classifies free-text queries into knowledge partitions.
// It is a pure function of the query text and static rule tables.
type RouterService struct {
	fallbackCount int
}

func NewRouterService() *RouterService {
	return &RouterService{fallbackCount: DefaultFallbackCount}
}

// Route produces the routing decision for a query. It never fails: an
// unclassifiable query lands on the default partition at confidence 0.
func (s *RouterService) Route(queryText, override string) domain.RoutingDecision {
	if override != "" {
		return domain.RoutingDecision{
			Primary:    domain.Partition(override),
			Confidence: 1.0,
			IsFastPath: false,
		}
	}

	normalized := strings.ToLower(queryText)

	// The pricing fast path precedes generic classification and cannot be
	// outscored by it.
	for _, kw := range pricingKeywords {
		if hasKeyword(normalized, kw) {
			return domain.RoutingDecision{
				Primary:    domain.PartitionPricing,
				Confidence: 1.0,
				IsFastPath: true,
			}
		}
	}

	type scored struct {
		partition domain.Partition
		hits      int
		order     int
	}

	var candidates []scored
	totalHits := 0
	for order, partition := range classificationOrder {
		hits := 0
		for _, kw := range partitionKeywords[partition] {
			if hasKeyword(normalized, kw) {
				hits++
			}
		}
		if hits > 0 {
			candidates = append(candidates, scored{partition: partition, hits: hits, order: order})
			totalHits += hits
		}
	}

	if len(candidates) == 0 {
		return domain.RoutingDecision{
			Primary:    domain.DefaultPartition,
			Confidence: 0,
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].hits != candidates[j].hits {
			return candidates[i].hits > candidates[j].hits
		}
		return candidates[i].order < candidates[j].order
	})

	var fallbacks []domain.Partition
	for _, c := range candidates[1:] {
		if len(fallbacks) >= s.fallbackCount {
			break
		}
		fallbacks = append(fallbacks, c.partition)
	}

	return domain.RoutingDecision{
		Primary:    candidates[0].partition,
		Fallbacks:  fallbacks,
		Confidence: float64(candidates[0].hits) / float64(totalHits),
	}
}

// hasKeyword reports whether kw occurs in text on word boundaries. Bare
// substring matching misfires on short keywords ("rent" inside "current"),
// so a match must not be flanked by letters or digits.
func hasKeyword(text, kw string) bool {
	for offset := 0; offset+len(kw) <= len(text); {
		idx := strings.Index(text[offset:], kw)
		if idx < 0 {
			return false
		}
		idx += offset

		startOK := idx == 0
		if !startOK {
			r, _ := utf8.DecodeLastRuneInString(text[:idx])
			startOK = !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}
		end := idx + len(kw)
		endOK := end == len(text)
		if !endOK {
			r, _ := utf8.DecodeRuneInString(text[end:])
			endOK = !unicode.IsLetter(r) && !unicode.IsDigit(r)
		}
		if startOK && endOK {
			return true
		}
		offset = idx + 1
	}
	return false
}
