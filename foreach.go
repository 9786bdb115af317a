package stockroom

import (
	"context"
	"sync"
)

// ForEach traverses Entries(table), invoking fn(value, key) for every
// entry. All invocations are launched without waiting for earlier ones to
// complete, and no bound is placed on how many run concurrently.
//
// The aggregate fails fast without cancellation: ForEach returns the
// first callback error as soon as it occurs, but callbacks already
// launched keep running to completion in the background. With no failures
// it returns nil only after every callback has completed.
func (c *Client) ForEach(ctx context.Context, table string, fn func(value any, key string) error) error {
	entries, err := c.snapshot(ctx, table)
	if err != nil {
		return err
	}

	var wg sync.WaitGroup
	errc := make(chan error, 1)
	for _, e := range entries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := fn(e.Value, e.Key); err != nil {
				select {
				case errc <- err:
				default:
					// A failure was already reported.
				}
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case err := <-errc:
		return err
	case <-done:
		// All callbacks finished; surface a failure that raced with
		// completion.
		select {
		case err := <-errc:
			return err
		default:
			return nil
		}
	}
}
