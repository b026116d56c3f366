// Package optim searches parameter grids for the point that minimizes an
// objective, typically a metric of a short simulation run.
package optim
