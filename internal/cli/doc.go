// Package cli holds the plumbing shared by the generate-book and
// run-notebooks commands: injectable environment, common flags, config
// resolution, exit codes, signal handling and error formatting.
package cli
