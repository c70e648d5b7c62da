// Package cli provides the command-line interface for mockrunner.
//
// Commands:
//   - resolve: Resolve the implementation classpath into the local repository
//   - run: Start the configured mock service and serve until interrupted
//   - check: Show how the boundary filter treats symbol names
//   - config: Display effective configuration and where each key came from
//   - version: Show mockrunner and bundled SoapUI versions
//
// Every command loads defaults, then the YAML file named by --config or
// MOCKRUNNER_CONFIG, then MOCKRUNNER_* environment variables, then flags.
package cli
