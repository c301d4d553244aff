package pagination

// Page-number pagination shared by list endpoints. Aggregates are always
// computed over the full filtered set before a page is cut.

const (
	// DefaultPage is used when a page number is not provided.
	DefaultPage = 1
	// MaxLimit caps how many rows any list query can request.
	MaxLimit = 100
)

// Params holds page pagination inputs from controllers or services.
type Params struct {
	Page  int
	Limit int
}

// Meta describes the page that was returned relative to the filtered set.
type Meta struct {
	Current    int  `json:"current"`
	Total      int  `json:"total"`
	Count      int  `json:"count"`
	TotalItems int  `json:"totalItems"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Normalize enforces the defaults and the maximum limit. The default page
// size differs per endpoint, so callers pass their own fallback.
func Normalize(params Params, defaultLimit int) Params {
	if params.Page <= 0 {
		params.Page = DefaultPage
	}
	if params.Limit <= 0 {
		params.Limit = defaultLimit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}
	return params
}

// Offset converts normalized params into a SQL offset.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// BuildMeta derives page metadata from the filtered row count and the
// number of rows actually returned for this page.
func BuildMeta(params Params, totalItems int, pageCount int) Meta {
	totalPages := 0
	if params.Limit > 0 {
		totalPages = (totalItems + params.Limit - 1) / params.Limit
	}
	return Meta{
		Current:    params.Page,
		Total:      totalPages,
		Count:      pageCount,
		TotalItems: totalItems,
		HasNext:    params.Page < totalPages,
		HasPrev:    params.Page > 1,
	}
}
