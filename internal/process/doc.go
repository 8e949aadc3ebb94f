// Package process manages the process group of external engine subprocesses
// so a cancelled run does not leave kernels behind.
package process
