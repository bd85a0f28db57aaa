package activity

// ListActivityOptions provides filtering options for listing activity.
type ListActivityOptions struct {
	DocumentID   string
	ItemID       *string
	ActivityType *ActivityType
	Limit        int
	Offset       int
}
