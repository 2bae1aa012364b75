// Package output provides formatters for pmplus commands.
//
// Supported output formats:
//   - Console: colored terminal output, also the sink for warnings
//   - JSON: machine-readable validation reports
//   - JUnit: JUnit XML validation reports for CI
//
// The JSON and JUnit formatters accumulate reports and write them on Flush.
package output
