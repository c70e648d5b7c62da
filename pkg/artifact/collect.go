package artifact

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"
)

// maxParentDepth bounds parent POM chains.
const maxParentDepth = 32

// node is one artifact selected for the classpath.
type node struct {
	coord      Coordinate
	scope      string
	root       bool
	depth      int
	exclusions []exclusion
	managed    *model
}

// session holds per-call resolution state.
type session struct {
	logger    *slog.Logger
	repos     []Repository
	transport *transport

	raw    map[string]*pom
	models map[string]*model
}

// collect walks the dependency graph breadth-first. The first occurrence of
// a key wins, so the nearest declaration decides the version.
func (s *session) collect(ctx context.Context, roots []Coordinate) ([]node, error) {
	var (
		queue []node
		out   []node
		seen  = make(map[string]bool)
	)
	for _, root := range roots {
		root = root.normalize()
		if seen[root.Key()] {
			continue
		}
		seen[root.Key()] = true
		queue = append(queue, node{coord: root, scope: ScopeCompile, root: true})
	}

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		out = append(out, n)

		m, err := s.model(ctx, n.coord.POM())
		if err != nil {
			return nil, err
		}
		if m == nil {
			if n.root {
				return nil, fmt.Errorf("%w: %s", ErrArtifactNotFound, n.coord.POM())
			}
			s.logger.Warn("missing POM, assuming no dependencies", "artifact", n.coord.String())
			continue
		}

		// Management declared by each root applies to its whole subtree.
		managed := n.managed
		if n.root {
			managed = m
		}

		for _, dep := range m.Deps {
			child, ok := s.child(n, m, managed, dep)
			if !ok || seen[child.coord.Key()] {
				continue
			}
			seen[child.coord.Key()] = true
			s.logger.Debug("dependency", "artifact", child.coord.String(), "scope", child.scope, "depth", child.depth, "from", n.coord.String())
			queue = append(queue, child)
		}
	}
	return out, nil
}

// child derives the node for dep declared by parent, or false when the
// dependency does not reach the classpath.
func (s *session) child(parent node, declaring, managed *model, dep dependency) (node, bool) {
	if dep.Optional {
		return node{}, false
	}

	key := dep.key()
	if v := managed.manages(key).Version; v != "" {
		dep.Version = v
	} else if dep.Version == "" {
		dep.Version = declaring.manages(key).Version
	}
	if dep.Scope == "" {
		dep.Scope = managed.manages(key).Scope
	}
	if dep.Scope == "" {
		dep.Scope = declaring.manages(key).Scope
	}

	scope, ok := deriveScope(parent.scope, dep.Scope)
	if !ok {
		return node{}, false
	}

	c := dep.coordinate()
	for _, ex := range parent.exclusions {
		if ex.matches(c) {
			return node{}, false
		}
	}
	if c.Version == "" {
		s.logger.Warn("dependency has no version, skipping", "dependency", key, "from", parent.coord.String())
		return node{}, false
	}

	exclusions := make([]exclusion, 0, len(parent.exclusions)+len(dep.Exclusions))
	exclusions = append(exclusions, parent.exclusions...)
	exclusions = append(exclusions, dep.Exclusions...)

	return node{
		coord:      c,
		scope:      scope,
		depth:      parent.depth + 1,
		exclusions: exclusions,
		managed:    managed,
	}, true
}

// deriveScope combines the scope of a parent node with the declared scope of
// its dependency. Only compile and runtime reach the classpath.
func deriveScope(parent, declared string) (string, bool) {
	switch declared {
	case "", ScopeCompile:
		if parent == ScopeRuntime {
			return ScopeRuntime, true
		}
		return ScopeCompile, true
	case ScopeRuntime:
		return ScopeRuntime, true
	default:
		return "", false
	}
}

// model returns the effective model of the POM coordinate, or nil when no
// repository has the POM.
func (s *session) model(ctx context.Context, c Coordinate) (*model, error) {
	return s.effective(ctx, c, nil)
}

func (s *session) effective(ctx context.Context, c Coordinate, importing map[string]bool) (*model, error) {
	id := c.String()
	if m, ok := s.models[id]; ok {
		return m, nil
	}

	chain, err := s.chain(ctx, c)
	if err != nil || chain == nil {
		return nil, err
	}

	// Merge from the top-most parent down to c.
	child := chain[0]
	props := make(map[string]string)
	deps := make([]dependency, 0)
	var managed []dependency
	for i := len(chain) - 1; i >= 0; i-- {
		for k, v := range chain[i].Properties {
			props[k] = v
		}
		deps = mergeDependencies(deps, chain[i].Deps)
		managed = mergeDependencies(managed, chain[i].Managed)
	}

	vars := newInterpolator(child, props)
	m := &model{
		Coordinate: Coordinate{Group: vars.expand(child.Group), Name: vars.expand(child.Name), Extension: "pom", Version: vars.expand(child.Version)},
		Managed:    make(map[string]dependency),
	}
	for _, d := range deps {
		m.Deps = append(m.Deps, vars.dependency(d))
	}

	var imports []dependency
	for _, d := range managed {
		d = vars.dependency(d)
		if d.Scope == ScopeImport && d.Type == "pom" {
			imports = append(imports, d)
			continue
		}
		m.Managed[d.key()] = d
	}

	if importing == nil {
		importing = make(map[string]bool)
	}
	importing[id] = true
	for _, imp := range imports {
		bom := imp.coordinate()
		bom.Extension = "pom"
		if importing[bom.String()] {
			continue
		}
		im, err := s.effective(ctx, bom, importing)
		if err != nil {
			return nil, err
		}
		if im == nil {
			s.logger.Warn("missing imported POM", "bom", bom.String(), "from", id)
			continue
		}
		for k, d := range im.Managed {
			if _, ok := m.Managed[k]; !ok {
				m.Managed[k] = d
			}
		}
	}
	delete(importing, id)

	s.models[id] = m
	return m, nil
}

// chain returns c's raw POM followed by its ancestors.
func (s *session) chain(ctx context.Context, c Coordinate) ([]*pom, error) {
	var chain []*pom
	visited := make(map[string]bool)
	for cur := &c; cur != nil; {
		if visited[cur.String()] || len(chain) >= maxParentDepth {
			return nil, fmt.Errorf("%w: parent cycle at %s", ErrInvalidPOM, cur)
		}
		visited[cur.String()] = true

		p, err := s.readPOM(ctx, *cur)
		if err != nil {
			return nil, err
		}
		if p == nil {
			if len(chain) == 0 {
				return nil, nil
			}
			s.logger.Warn("missing parent POM", "parent", cur.String(), "child", c.String())
			break
		}
		chain = append(chain, p)
		cur = p.Parent
	}
	return chain, nil
}

func (s *session) readPOM(ctx context.Context, c Coordinate) (*pom, error) {
	id := c.String()
	if p, ok := s.raw[id]; ok {
		return p, nil
	}

	path, err := s.transport.fetch(ctx, c, s.repos)
	if err != nil {
		return nil, err
	}
	if path == "" {
		s.raw[id] = nil
		return nil, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := parsePOM(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", id, err)
	}
	s.raw[id] = p
	return p, nil
}

// mergeDependencies appends child declarations, replacing inherited ones with
// the same key.
func mergeDependencies(inherited, declared []dependency) []dependency {
	for _, d := range declared {
		replaced := false
		for i := range inherited {
			if inherited[i].Group == d.Group && inherited[i].Name == d.Name &&
				inherited[i].Type == d.Type && inherited[i].Classifier == d.Classifier {
				inherited[i] = d
				replaced = true
				break
			}
		}
		if !replaced {
			inherited = append(inherited, d)
		}
	}
	return inherited
}

// materialize makes every file-bearing node available locally. Downloads run
// concurrently; the result keeps the collection order.
func (s *session) materialize(ctx context.Context, nodes []node, limit int) ([]Entry, error) {
	paths := make([]string, len(nodes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, n := range nodes {
		if !n.coord.hasFile() {
			continue
		}
		g.Go(func() error {
			path, err := s.transport.fetch(gctx, n.coord, s.repos)
			if err != nil {
				return err
			}
			if path == "" {
				if n.root {
					return fmt.Errorf("%w: %s", ErrArtifactNotFound, n.coord)
				}
				s.logger.Warn("artifact not found in any repository, dropping", "artifact", n.coord.String())
				return nil
			}
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(nodes))
	seen := make(map[string]bool, len(nodes))
	for i, n := range nodes {
		path := paths[i]
		if path == "" || seen[path] {
			continue
		}
		if _, err := os.Stat(path); err != nil {
			s.logger.Warn("resolved file missing, dropping", "artifact", n.coord.String(), "path", path, "error", err)
			continue
		}
		seen[path] = true
		entries = append(entries, Entry{Path: path, Coordinate: n.coord})
	}
	return entries, nil
}
