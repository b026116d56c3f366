// Package export renders frames and trajectories as standalone SVG
// documents.
package export
