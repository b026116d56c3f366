// Package automation runs scenarios without a terminal: scripted batches
// loaded from YAML, one-key parameter sweeps and grid search objectives.
//
// A batch file looks like:
//
//	name: restitution study
//	runs:
//	  - scenario: particles
//	    preset: sticky
//	    frames: 600
//	  - scenario: particles
//	    set:
//	      collision.restitution: 0.5
//	      particles.count: 200
package automation
