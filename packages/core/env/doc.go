// Package env builds the environment handed to the collection runner.
//
// It provides functionality for:
//   - Loading .env files
//   - Building the runner environment document, with domain first
//   - Checking {{variable}} tokens against an environment
package env
