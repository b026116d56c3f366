// Package scenario builds the named starting configurations a World runs:
// the particle sandbox, the solar system, free N-body clusters, a binary
// star, the double pendulum and bodies declared in a config file.
//
// Every builder draws its randomness from the *rand.Rand it is handed, so a
// seed fully determines the initial state.
package scenario
