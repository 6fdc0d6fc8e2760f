package prismarest

// Paging defaults and bounds applied by Page.Clamp.
const (
	// DefaultLimit is the page size used when a request does not set one.
	DefaultLimit = 50
	// MaxLimit caps the page size a request may ask for.
	MaxLimit = 1000
)

// Order is one ORDER BY term of a list request.
type Order struct {
	// Field is the ordered field, named as declared in the schema.
	Field string `json:"field"`
	// Desc orders descending when set.
	Desc bool `json:"desc,omitempty"`
}

// Page bounds and orders a list request.
type Page struct {
	// Limit is the maximum number of records returned. Zero means
	// DefaultLimit; values above MaxLimit are clamped.
	Limit int `json:"limit,omitempty"`
	// Offset is the number of records skipped before the first returned.
	Offset int `json:"offset,omitempty"`
	// Sort holds the ORDER BY terms, applied in order.
	Sort []Order `json:"sort,omitempty"`
}

// Clamp returns the page with limit and offset forced into their bounds.
func (p Page) Clamp() Page {
	if p.Limit <= 0 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}
