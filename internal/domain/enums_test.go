package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClosedSets_AllMembersValid(t *testing.T) {
	for _, r := range AllRegions() {
		assert.True(t, r.IsValid(), "region %q", r)
	}
	for _, s := range AllCustomerSegments() {
		assert.True(t, s.IsValid(), "segment %q", s)
	}
	for _, p := range AllPaymentTypes() {
		assert.True(t, p.IsValid(), "payment type %q", p)
	}
	for _, c := range AllCategories() {
		assert.True(t, c.IsValid(), "category %q", c)
	}

	assert.Len(t, AllRegions(), 5)
	assert.Len(t, AllCustomerSegments(), 6)
	assert.Len(t, AllPaymentTypes(), 7)
	assert.Len(t, AllCategories(), 6)
}

func TestClosedSets_RejectUnknown(t *testing.T) {
	assert.False(t, Region("North").IsValid())
	assert.False(t, Region("west").IsValid())
	assert.False(t, CustomerSegment("").IsValid())
	assert.False(t, PaymentType("Crypto").IsValid())
	assert.False(t, Category("Toys").IsValid())
}

func TestEnumString(t *testing.T) {
	assert.Equal(t, "Home & Kitchen", CategoryHomeKitchen.String())
	assert.Equal(t, "Mobile Pay", PaymentMobilePay.String())
	assert.Equal(t, "Online-Only", SegmentOnlineOnly.String())
	assert.Equal(t, "Mountain", RegionMountain.String())
}
