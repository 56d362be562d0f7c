package client

import "context"

// Client delivers encoded diary updates to a sync server.
type Client interface {
	// Send requests url, which already carries the encoded update.
	Send(ctx context.Context, url string) error
}
