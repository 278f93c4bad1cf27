package ndpa

import "context"

// Fetcher retrieves the raw source of the act from a URL.
type Fetcher interface {
	// Fetch returns the response body of url.
	// The context controls timeout and cancellation.
	Fetch(ctx context.Context, url string) (body string, err error)

	// Close releases resources held by the fetcher.
	Close() error
}
