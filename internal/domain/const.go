package domain

// Request-context key set by the auth middleware.
const (
	RequesterIDCtxKey = "bv-requesterId"
)
