package outbound

import "context"

// LinkFinderPort returns up to maxResults reference URLs for a query. It
// never raises: any failure yields an empty list.
type LinkFinderPort interface {
	Search(ctx context.Context, query string, maxResults int) []string
}
