package enums

import "fmt"

// ProductStatus tracks a listing through the approval and pickup workflow.
// The status strings are display values and are stored verbatim.
type ProductStatus string

const (
	ProductStatusPending     ProductStatus = "Pending"
	ProductStatusReadyToPick ProductStatus = "Ready to pick"
	ProductStatusPicked      ProductStatus = "Picked"
	ProductStatusCompleted   ProductStatus = "Completed"
	ProductStatusRejected    ProductStatus = "Rejected"
	ProductStatusSoldOut     ProductStatus = "Sold out"
)

var validProductStatuses = []ProductStatus{
	ProductStatusPending,
	ProductStatusReadyToPick,
	ProductStatusPicked,
	ProductStatusCompleted,
	ProductStatusRejected,
	ProductStatusSoldOut,
}

// String implements fmt.Stringer.
func (s ProductStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ProductStatus.
func (s ProductStatus) IsValid() bool {
	for _, candidate := range validProductStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseProductStatus converts raw input into a ProductStatus.
func ParseProductStatus(value string) (ProductStatus, error) {
	for _, candidate := range validProductStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product status %q", value)
}

// ProductCategory represents the canonical listing categories.
type ProductCategory string

const (
	ProductCategoryClothing    ProductCategory = "clothing"
	ProductCategoryShoes       ProductCategory = "shoes"
	ProductCategoryToys        ProductCategory = "toys"
	ProductCategoryBooks       ProductCategory = "books"
	ProductCategoryFurniture   ProductCategory = "furniture"
	ProductCategoryStrollers   ProductCategory = "strollers"
	ProductCategoryElectronics ProductCategory = "electronics"
	ProductCategorySports      ProductCategory = "sports"
	ProductCategoryOther       ProductCategory = "other"
)

var validProductCategories = []ProductCategory{
	ProductCategoryClothing,
	ProductCategoryShoes,
	ProductCategoryToys,
	ProductCategoryBooks,
	ProductCategoryFurniture,
	ProductCategoryStrollers,
	ProductCategoryElectronics,
	ProductCategorySports,
	ProductCategoryOther,
}

// String implements fmt.Stringer.
func (c ProductCategory) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCategory.
func (c ProductCategory) IsValid() bool {
	for _, candidate := range validProductCategories {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCategory converts raw input into a ProductCategory.
func ParseProductCategory(value string) (ProductCategory, error) {
	for _, candidate := range validProductCategories {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product category %q", value)
}

// ProductCondition grades how worn a secondhand item is.
type ProductCondition string

const (
	ProductConditionNew     ProductCondition = "New"
	ProductConditionLikeNew ProductCondition = "Like New"
	ProductConditionGood    ProductCondition = "Good"
	ProductConditionFair    ProductCondition = "Fair"
)

var validProductConditions = []ProductCondition{
	ProductConditionNew,
	ProductConditionLikeNew,
	ProductConditionGood,
	ProductConditionFair,
}

// String implements fmt.Stringer.
func (c ProductCondition) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ProductCondition.
func (c ProductCondition) IsValid() bool {
	for _, candidate := range validProductConditions {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseProductCondition converts raw input into a ProductCondition.
func ParseProductCondition(value string) (ProductCondition, error) {
	for _, candidate := range validProductConditions {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product condition %q", value)
}

// ProductAgeGroup buckets listings by the child age they fit.
type ProductAgeGroup string

const (
	ProductAgeGroupNewborn   ProductAgeGroup = "0-12m"
	ProductAgeGroupToddler   ProductAgeGroup = "1-3y"
	ProductAgeGroupPreschool ProductAgeGroup = "3-5y"
	ProductAgeGroupKids      ProductAgeGroup = "5-8y"
	ProductAgeGroupPreteen   ProductAgeGroup = "8-12y"
	ProductAgeGroupTeen      ProductAgeGroup = "12y+"
)

var validProductAgeGroups = []ProductAgeGroup{
	ProductAgeGroupNewborn,
	ProductAgeGroupToddler,
	ProductAgeGroupPreschool,
	ProductAgeGroupKids,
	ProductAgeGroupPreteen,
	ProductAgeGroupTeen,
}

// String implements fmt.Stringer.
func (g ProductAgeGroup) String() string {
	return string(g)
}

// IsValid reports whether the value is a known ProductAgeGroup.
func (g ProductAgeGroup) IsValid() bool {
	for _, candidate := range validProductAgeGroups {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseProductAgeGroup converts raw input into a ProductAgeGroup.
func ParseProductAgeGroup(value string) (ProductAgeGroup, error) {
	for _, candidate := range validProductAgeGroups {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product age group %q", value)
}

// ProductSellType distinguishes how a listing changes hands.
type ProductSellType string

const (
	ProductSellTypeSell     ProductSellType = "sell"
	ProductSellTypeDonate   ProductSellType = "donate"
	ProductSellTypeExchange ProductSellType = "exchange"
)

var validProductSellTypes = []ProductSellType{
	ProductSellTypeSell,
	ProductSellTypeDonate,
	ProductSellTypeExchange,
}

// String implements fmt.Stringer.
func (t ProductSellType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known ProductSellType.
func (t ProductSellType) IsValid() bool {
	for _, candidate := range validProductSellTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseProductSellType converts raw input into a ProductSellType.
func ParseProductSellType(value string) (ProductSellType, error) {
	for _, candidate := range validProductSellTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product sell type %q", value)
}
