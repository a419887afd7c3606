// Package fs resolves dataset paths given on the command line.
package fs
