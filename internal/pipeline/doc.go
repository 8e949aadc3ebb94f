// Package pipeline implements the notebook cell rewrites applied before a
// book build.
//
// A Transformer runs three independent stages in a fixed order:
//   - Link target rewrite: badges on the first line open in a new tab
//   - Video resizing: embedded players are narrowed to the book column and
//     slide frames are wrapped in a deferred output widget
//   - Hidden-cell linking: form cells are tagged so the book hides their
//     input, and the titles hidden with them are restored as markdown cells
//
// Every stage returns a new cell slice; input notebooks are never modified.
// Execution of the rewritten notebooks is handled by the root coursebook
// package through an external Jupyter engine.
package pipeline
