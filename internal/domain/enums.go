package domain

// Region is the sales region of a record.
type Region string

const (
	RegionWest     Region = "West"
	RegionEast     Region = "East"
	RegionMidwest  Region = "Midwest"
	RegionSouth    Region = "South"
	RegionMountain Region = "Mountain"
)

// AllRegions returns the closed set of regions in display order.
func AllRegions() []Region {
	return []Region{RegionWest, RegionEast, RegionMidwest, RegionSouth, RegionMountain}
}

// String returns the string representation of Region.
func (r Region) String() string {
	return string(r)
}

// IsValid checks if the region is a member of the closed set.
func (r Region) IsValid() bool {
	switch r {
	case RegionWest, RegionEast, RegionMidwest, RegionSouth, RegionMountain:
		return true
	}
	return false
}

// CustomerSegment is the customer segment of a record.
type CustomerSegment string

const (
	SegmentConsumer      CustomerSegment = "Consumer"
	SegmentCorporate     CustomerSegment = "Corporate"
	SegmentSmallBusiness CustomerSegment = "Small Business"
	SegmentEnterprise    CustomerSegment = "Enterprise"
	SegmentRetailer      CustomerSegment = "Retailer"
	SegmentOnlineOnly    CustomerSegment = "Online-Only"
)

// AllCustomerSegments returns the closed set of segments in display order.
func AllCustomerSegments() []CustomerSegment {
	return []CustomerSegment{
		SegmentConsumer,
		SegmentCorporate,
		SegmentSmallBusiness,
		SegmentEnterprise,
		SegmentRetailer,
		SegmentOnlineOnly,
	}
}

// String returns the string representation of CustomerSegment.
func (s CustomerSegment) String() string {
	return string(s)
}

// IsValid checks if the segment is a member of the closed set.
func (s CustomerSegment) IsValid() bool {
	switch s {
	case SegmentConsumer, SegmentCorporate, SegmentSmallBusiness,
		SegmentEnterprise, SegmentRetailer, SegmentOnlineOnly:
		return true
	}
	return false
}

// PaymentType is the payment method of a record.
type PaymentType string

const (
	PaymentCredit    PaymentType = "Credit"
	PaymentCash      PaymentType = "Cash"
	PaymentTransfer  PaymentType = "Transfer"
	PaymentDebit     PaymentType = "Debit"
	PaymentPayPal    PaymentType = "PayPal"
	PaymentMobilePay PaymentType = "Mobile Pay"
	PaymentBNPL      PaymentType = "BNPL"
)

// AllPaymentTypes returns the closed set of payment types in display order.
func AllPaymentTypes() []PaymentType {
	return []PaymentType{
		PaymentCredit,
		PaymentCash,
		PaymentTransfer,
		PaymentDebit,
		PaymentPayPal,
		PaymentMobilePay,
		PaymentBNPL,
	}
}

// String returns the string representation of PaymentType.
func (p PaymentType) String() string {
	return string(p)
}

// IsValid checks if the payment type is a member of the closed set.
func (p PaymentType) IsValid() bool {
	switch p {
	case PaymentCredit, PaymentCash, PaymentTransfer, PaymentDebit,
		PaymentPayPal, PaymentMobilePay, PaymentBNPL:
		return true
	}
	return false
}

// Category is the product category of a record.
type Category string

const (
	CategoryFurniture      Category = "Furniture"
	CategoryOfficeSupplies Category = "Office Supplies"
	CategoryTechnology     Category = "Technology"
	CategoryApparel        Category = "Apparel"
	CategoryHomeKitchen    Category = "Home & Kitchen"
	CategoryHealthBeauty   Category = "Health & Beauty"
)

// AllCategories returns the closed set of categories in display order.
func AllCategories() []Category {
	return []Category{
		CategoryFurniture,
		CategoryOfficeSupplies,
		CategoryTechnology,
		CategoryApparel,
		CategoryHomeKitchen,
		CategoryHealthBeauty,
	}
}

// String returns the string representation of Category.
func (c Category) String() string {
	return string(c)
}

// IsValid checks if the category is a member of the closed set.
func (c Category) IsValid() bool {
	switch c {
	case CategoryFurniture, CategoryOfficeSupplies, CategoryTechnology,
		CategoryApparel, CategoryHomeKitchen, CategoryHealthBeauty:
		return true
	}
	return false
}
