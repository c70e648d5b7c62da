package api

// Symbols the host defines for implementations. Names under "std." are core
// platform symbols and always pass the default filter.
const (
	// SymbolLogger resolves to a *slog.Logger.
	SymbolLogger = "std.slog.Logger"
	// SymbolHTTPClient resolves to an *http.Client.
	SymbolHTTPClient = "std.http.Client"
	// SymbolTLSConfig resolves to the *tls.Config secure mocks serve with.
	SymbolTLSConfig = "std.tls.Config"
	// SymbolVersion resolves to the harness version string.
	SymbolVersion = "mockrunner.api.Version"
)
