package availability

import "context"

// Provider fetches the availability of every resource for a date (YYYY-MM-DD).
type Provider interface {
	Fetch(ctx context.Context, date string) (*Response, error)
}

// Invalidator is implemented by providers that keep copies of past answers.
type Invalidator interface {
	Invalidate(ctx context.Context, date string) error
}
