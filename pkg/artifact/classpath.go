package artifact

import "context"

// Classpath resolves a fixed set of roots into file paths on demand.
type Classpath struct {
	Resolver     *Resolver
	Roots        []Coordinate
	Repositories []Repository
}

// Classpath resolves the roots. No roots yields an empty classpath without
// contacting any repository.
func (c *Classpath) Classpath(ctx context.Context) ([]string, error) {
	if len(c.Roots) == 0 {
		return nil, nil
	}
	r := c.Resolver
	if r == nil {
		r = NewResolver()
	}

	entries, err := r.ResolveAll(ctx, c.Roots, c.Repositories)
	if err != nil {
		return nil, err
	}
	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return paths, nil
}
