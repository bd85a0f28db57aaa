package item

// ListOptions provides filtering options for listing items.
type ListOptions struct {
	DocumentID string
	Status     *Status
	Types      []Type
	Limit      int
	Offset     int
}

// SearchOptions provides filtering options for search.
type SearchOptions struct {
	Status *Status
	Types  []Type
	Limit  int
	Offset int
}
