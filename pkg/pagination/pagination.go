package pagination

// Page-numbered pagination. The API exposes page/limit inputs and returns
// total/pages/currentPage alongside each list.

const (
	// DefaultLimit is the standard page size when a limit is not provided.
	DefaultLimit = 25
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the page that was returned.
type Meta struct {
	Total       int64 `json:"total"`
	Pages       int   `json:"pages"`
	CurrentPage int   `json:"currentPage"`
}

// NormalizeLimit enforces the configured default and maximum limits.
func NormalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultLimit
	}
	if limit > MaxLimit {
		return MaxLimit
	}
	return limit
}

// NormalizePage clamps the page number to 1 or greater.
func NormalizePage(page int) int {
	if page <= 0 {
		return 1
	}
	return page
}

// Normalize returns a copy of p with both fields clamped.
func Normalize(p Params) Params {
	return Params{
		Page:  NormalizePage(p.Page),
		Limit: NormalizeLimit(p.Limit),
	}
}

// Offset converts the normalized page/limit pair into a row offset.
func (p Params) Offset() int {
	norm := Normalize(p)
	return (norm.Page - 1) * norm.Limit
}

// MetaFor computes the page metadata for a total row count.
func MetaFor(total int64, p Params) Meta {
	norm := Normalize(p)
	pages := int((total + int64(norm.Limit) - 1) / int64(norm.Limit))
	return Meta{
		Total:       total,
		Pages:       pages,
		CurrentPage: norm.Page,
	}
}
