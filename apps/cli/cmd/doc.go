// Package cmd implements the pmplus CLI commands using Cobra.
//
// Available commands:
//   - convert: Compile declarative documents to collections, or flatten collections back
//   - curl: Turn a curl command into a declarative document
//   - validate: Lint compiled collections
//   - list: Show the steps of documents and collections
//   - env: Write an engine environment file
//   - init: Create a pmplus config file and an example document
//   - version: Show pmplus version information
//
// Configuration is read from .pmplus.config.json (or --config) and PMPLUS_*
// environment variables; command line flags take precedence.
package cmd
