package service

import (
	"testing"

	"github.com/Harshitk-cp/sibyl/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRouterService_OverrideWinsVerbatim(t *testing.T) {
	r := NewRouterService()

	d := r.Route("how much does a golden visa cost", "legal")

	assert.Equal(t, domain.PartitionLegal, d.Primary)
	assert.Equal(t, 1.0, d.Confidence)
	assert.False(t, d.IsFastPath)
}

func TestRouterService_PricingFastPath(t *testing.T) {
	r := NewRouterService()

	cases := []string{
		"What is the price of the investor residence permit?",
		"how much does company formation cost",
		"сколько стоит оформление визы",
		"ما هي رسوم التأشيرة",
	}

	for _, q := range cases {
		d := r.Route(q, "")
		assert.Equal(t, domain.PartitionPricing, d.Primary, "query: %s", q)
		assert.Equal(t, 1.0, d.Confidence, "query: %s", q)
		assert.True(t, d.IsFastPath, "query: %s", q)
	}
}

func TestRouterService_PricingBeatsOtherKeywords(t *testing.T) {
	r := NewRouterService()

	// Visa and tax keywords both present, but the fee mention wins.
	d := r.Route("visa and tax registration fee breakdown", "")

	assert.Equal(t, domain.PartitionPricing, d.Primary)
	assert.True(t, d.IsFastPath)
}

func TestRouterService_ClassifiesByKeywords(t *testing.T) {
	r := NewRouterService()

	cases := []struct {
		query string
		want  domain.Partition
	}{
		{"requirements for a golden visa sponsor", domain.PartitionVisa},
		{"when is the corporate tax return due", domain.PartitionTax},
		{"open a free zone company with one shareholder", domain.PartitionLegal},
		{"transfer a title deed for my property", domain.PartitionRealEstate},
	}

	for _, tc := range cases {
		d := r.Route(tc.query, "")
		assert.Equal(t, tc.want, d.Primary, "query: %s", tc.query)
		assert.False(t, d.IsFastPath)
		assert.GreaterOrEqual(t, d.Confidence, 0.0)
		assert.LessOrEqual(t, d.Confidence, 1.0)
	}
}

func TestRouterService_FallbacksOrderedByScore(t *testing.T) {
	r := NewRouterService()

	// Two visa hits, one tax hit.
	d := r.Route("residence permit and work permit while filing vat", "")

	assert.Equal(t, domain.PartitionVisa, d.Primary)
	if assert.NotEmpty(t, d.Fallbacks) {
		assert.Equal(t, domain.PartitionTax, d.Fallbacks[0])
	}
}

func TestRouterService_KeywordsMatchWholeWordsOnly(t *testing.T) {
	r := NewRouterService()

	// "current" must not hit "rent" and drag in a realestate fallback.
	d := r.Route("current VAT rate", "")
	assert.Equal(t, domain.PartitionTax, d.Primary)
	assert.NotContains(t, d.Fallbacks, domain.PartitionRealEstate)

	// Real rental queries still classify.
	d = r.Route("annual rent increase rules", "")
	assert.Equal(t, domain.PartitionRealEstate, d.Primary)
}

func TestRouterService_NoMatchFallsBackToDefault(t *testing.T) {
	r := NewRouterService()

	d := r.Route("xyzzy plugh", "")

	assert.Equal(t, domain.DefaultPartition, d.Primary)
	assert.Equal(t, 0.0, d.Confidence)
	assert.False(t, d.IsFastPath)
	assert.Empty(t, d.Fallbacks)
}

func TestRouterService_NonEmptyQueryAlwaysRoutes(t *testing.T) {
	r := NewRouterService()

	for _, q := range []string{"a", "visa", "?????", "quarterly filing"} {
		d := r.Route(q, "")
		assert.NotEmpty(t, d.Primary, "query: %s", q)
		assert.GreaterOrEqual(t, d.Confidence, 0.0)
		assert.LessOrEqual(t, d.Confidence, 1.0)
	}
}
