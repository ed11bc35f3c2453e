package main

import "time"

// Physical constants in SI units.
const (
	speedOfLight = 299792458.0
	mu0          = 1.25663706212e-6
	eps0         = 8.8541878128e-12
	nm           = 1e-9
)

// Simulation defaults. These mirror the layered-slab run the solver was built
// around: a 108x108x236 interior with 10 padding cells, 10 nm cells and a
// quarter-Courant time step.
const (
	defaultInteriorX      = 108
	defaultInteriorY      = 108
	defaultInteriorZ      = 236
	defaultPadding        = 10
	defaultSpacing        = 10 * nm
	defaultCourant        = 0.25
	defaultSteps          = 8001
	defaultGradingOrder   = 3.0
	defaultReflection     = 1e-16
	defaultKappaMax       = 5.0
	pecKappa              = 1e16
	defaultLambdaMin      = 400 * nm
	defaultLambdaMax      = 800 * nm
	defaultLambdaStep     = 0.5 * nm
	defaultBandwidth      = 0.2
	defaultPulseCenter    = 1500
	defaultSourceOffset   = 20
	defaultTransmitOffset = 20
	defaultLogEvery       = 100
	defaultCheckEvery     = 0
	defaultLayers         = "110:130:4,130:170:9"
	defaultOutputDir      = "pstd-out"
	snapshotLogInterval   = 5 * time.Second
)
