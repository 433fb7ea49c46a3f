package llm

import (
	"context"
	"errors"
)

// RoutedClient sends each tier to a dedicated client and everything else to a fallback.
// It mirrors the split of fast extraction/templating calls and richer generation calls.
type RoutedClient struct {
	routes   map[ModelTier]Client
	fallback Client
}

// NewRoutedClient creates a RoutedClient. fallback must not be nil.
func NewRoutedClient(fallback Client, routes map[ModelTier]Client) *RoutedClient {
	r := &RoutedClient{
		routes:   make(map[ModelTier]Client, len(routes)),
		fallback: fallback,
	}
	for tier, c := range routes {
		if c != nil {
			r.routes[tier] = c
		}
	}
	return r
}

// Complete dispatches to the client routed for opts.Tier.
func (r *RoutedClient) Complete(ctx context.Context, prompt string, opts Options) (string, error) {
	if c, ok := r.routes[opts.Tier]; ok {
		return c.Complete(ctx, prompt, opts)
	}
	return r.fallback.Complete(ctx, prompt, opts)
}

// Close closes every distinct underlying client.
func (r *RoutedClient) Close() error {
	seen := map[Client]bool{r.fallback: true}
	errs := []error{r.fallback.Close()}
	for _, c := range r.routes {
		if seen[c] {
			continue
		}
		seen[c] = true
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
