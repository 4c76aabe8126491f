package domain

// ResourceKind identifies what an ownership check is asked about.
type ResourceKind string

const (
	ResourceReview  ResourceKind = "review"
	ResourceAccount ResourceKind = "account"
)
