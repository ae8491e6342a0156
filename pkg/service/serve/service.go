package serve

import "context"

type Service interface {
	// Start serves the HTTP API until ctx is cancelled.
	Start(ctx context.Context) error
}
