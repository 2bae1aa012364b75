// Package config handles configuration loading for pmplus.
//
// Settings come from, in increasing precedence:
//   - built-in defaults
//   - the first of .pmplus.config.json, pmplus.config.json, .pmplusrc or
//     .pmplusrc.json found in the working directory (or an explicit path)
//   - PMPLUS_* environment variables, e.g. PMPLUS_DOMAIN or
//     PMPLUS_MAXINCLUDEDEPTH
//
// Command line flags are merged on top by the CLI.
package config
