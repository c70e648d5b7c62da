// Package artifact resolves Maven artifacts and their transitive dependencies
// into files in a local repository.
//
// A Resolver reads POMs from the local repository or fetches them from the
// configured remote repositories, walks the dependency graph breadth-first
// (nearest declaration wins, compile and runtime scopes only) and then
// materialises every collected artifact as a local file.
//
//	r := artifact.NewResolver(
//	    artifact.WithLogger(logger),
//	    artifact.WithProxy(proxy),
//	)
//	entries, err := r.Resolve(ctx, artifact.MustParseCoordinate("com.smartbear.soapui:soapui:5.1.2"),
//	    artifact.CentralRepository())
//
// # Trust
//
// Checksums are never fetched or verified. Whatever a repository serves is
// written to the local repository as-is.
//
// # Partial results
//
// A transitive artifact that no repository can supply is dropped with a
// warning. Failures to build the dependency graph itself (unreachable
// repositories, a missing root POM) abort the call with an error wrapping
// ErrResolution, and no entries are returned.
package artifact
