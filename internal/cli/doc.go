// Package cli holds end-to-end tests of the script run pipeline: state
// database, workspace, runner and interpreter together.
package cli
