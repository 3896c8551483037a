package enums

import "strings"

// DocumentCategory buckets a source document by filename.
type DocumentCategory string

const (
	DocumentCategoryFinancial      DocumentCategory = "Financial"
	DocumentCategoryRentRoll       DocumentCategory = "Rent Roll"
	DocumentCategoryLegal          DocumentCategory = "Legal"
	DocumentCategoryProperty       DocumentCategory = "Property"
	DocumentCategoryStructuredData DocumentCategory = "Structured Data"
	DocumentCategoryDocumentation  DocumentCategory = "Documentation"
	DocumentCategoryOther          DocumentCategory = "Other"
)

// String implements fmt.Stringer.
func (d DocumentCategory) String() string {
	return string(d)
}

// CategorizeDocument buckets a file by substrings in its lowercased name.
func CategorizeDocument(name string) DocumentCategory {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "rent") && strings.Contains(lower, "roll"),
		strings.Contains(lower, "rentroll"):
		return DocumentCategoryRentRoll
	case strings.Contains(lower, "financial"), strings.Contains(lower, "t12"),
		strings.Contains(lower, "income"), strings.Contains(lower, "statement"):
		return DocumentCategoryFinancial
	case strings.Contains(lower, "lease"), strings.Contains(lower, "title"),
		strings.Contains(lower, "contract"), strings.Contains(lower, "legal"):
		return DocumentCategoryLegal
	case strings.Contains(lower, "inspection"), strings.Contains(lower, "survey"),
		strings.Contains(lower, "photo"), strings.Contains(lower, "property"):
		return DocumentCategoryProperty
	case strings.HasSuffix(lower, ".json"), strings.HasSuffix(lower, ".csv"),
		strings.HasSuffix(lower, ".xlsx"):
		return DocumentCategoryStructuredData
	case strings.HasSuffix(lower, ".md"), strings.HasSuffix(lower, ".txt"):
		return DocumentCategoryDocumentation
	default:
		return DocumentCategoryOther
	}
}
