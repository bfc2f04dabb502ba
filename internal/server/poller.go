package server

import (
	"context"

	"github.com/preston-bernstein/sports-lines-service/internal/poller"
)

// Warmer is the background cache warmer as seen by the server.
type Warmer interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Status() poller.Status
}
