// internal/common/database/health.go
package database

import (
	"context"
	"fmt"
	"time"
)

// Pinger is implemented by every backing store checked by /ready.
type Pinger interface {
	Name() string
	Ping(ctx context.Context) error
}

// CheckAll pings each store with its own timeout and returns a status per
// store name plus the first failure.
func CheckAll(ctx context.Context, timeout time.Duration, pingers ...Pinger) (map[string]string, error) {
	status := make(map[string]string, len(pingers))
	var firstErr error
	for _, p := range pingers {
		pctx, cancel := context.WithTimeout(ctx, timeout)
		err := p.Ping(pctx)
		cancel()
		if err != nil {
			status[p.Name()] = "down"
			if firstErr == nil {
				firstErr = fmt.Errorf("%s: %w", p.Name(), err)
			}
			continue
		}
		status[p.Name()] = "up"
	}
	return status, firstErr
}
