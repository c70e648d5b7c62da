// Package boundary isolates a mock implementation from the host process.
//
// A Boundary answers symbol and resource lookups for code running inside it.
// Every lookup is first offered to the host through a Filter, which applies
// ordered allow and block prefix lists: a matching block prefix always
// denies, an allow list (when present) must match for the request to reach
// the host, and with no allow list everything reaches the host. Lookups the
// host does not answer fall through to the boundary's own layer: the
// implementation factories it was seeded with and the resources found on its
// frozen classpath of directories and jar or zip archives.
//
// Symbols are dotted names. The core prefix "std." names the platform
// primitives every implementation needs, such as "std.slog.Logger", and a
// Filter refuses rules that would hide it.
//
// The active boundary travels with the context passed to the implementation:
//
//	ctx = boundary.NewContext(ctx, b)
//	...
//	logger, err := boundary.Symbol[*slog.Logger](ctx, "std.slog.Logger")
//
// A Boundary owns no open files; archives are opened per lookup and closed
// again, so discarding a Boundary is all the teardown it needs.
package boundary
