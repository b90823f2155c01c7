package pagination

const (
	// DefaultPage is the first page of any listing.
	DefaultPage = 1
	// DefaultPerPage is the standard page size when one is not provided.
	DefaultPerPage = 12
	// MaxPerPage caps how many rows any listing query can request.
	MaxPerPage = 96
)

// Params holds page-based pagination inputs for listing queries.
type Params struct {
	Page    int
	PerPage int
}

// Normalize enforces the default and maximum paging values.
func (p Params) Normalize() Params {
	if p.Page <= 0 {
		p.Page = DefaultPage
	}
	if p.PerPage <= 0 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	return p
}
