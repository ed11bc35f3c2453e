package main

import (
	"flag"
	"strings"
)

// layerFlags collects repeated -layer z0:z1:eps values.
type layerFlags []string

func (l *layerFlags) String() string { return strings.Join(*l, ",") }

func (l *layerFlags) Set(v string) error {
	*l = append(*l, v)
	return nil
}

// Command-line flags for geometry, boundaries, excitation and execution.
var (
	// Interior cell counts; padding is added on both sides of every axis.
	nxFlag      = flag.Int("nx", defaultInteriorX, "interior cells along x")
	nyFlag      = flag.Int("ny", defaultInteriorY, "interior cells along y")
	nzFlag      = flag.Int("nz", defaultInteriorZ, "interior cells along z")
	paddingFlag = flag.Int("padding", defaultPadding, "padding cells on each side of every axis")
	spacingFlag = flag.Float64("dx", defaultSpacing, "cell spacing in metres (all axes)")
	courantFlag = flag.Float64("courant", defaultCourant, "Courant factor S in dt = S*dx/c")
	stepsFlag   = flag.Int("steps", defaultSteps, "number of time steps")

	// Boundary selectors take none|low|high|both (or -, +, +-).
	pmlXFlag = flag.String("pml-x", "none", "PML faces on x")
	pmlYFlag = flag.String("pml-y", "none", "PML faces on y")
	pmlZFlag = flag.String("pml-z", "both", "PML faces on z")
	pecXFlag = flag.String("pec-x", "none", "PEC faces on x")
	pecYFlag = flag.String("pec-y", "none", "PEC faces on y")
	pecZFlag = flag.String("pec-z", "none", "PEC faces on z")

	gradingOrderFlag = flag.Float64("pml-order", defaultGradingOrder, "polynomial grading order of the PML")
	reflectionFlag   = flag.Float64("pml-r0", defaultReflection, "target normal-incidence PML reflection")
	kappaMaxFlag     = flag.Float64("pml-kappa", defaultKappaMax, "peak PML grading factor")

	layersFlag layerFlags

	lambdaMinFlag   = flag.Float64("lambda-min", defaultLambdaMin, "shortest wavelength of the band in metres")
	lambdaMaxFlag   = flag.Float64("lambda-max", defaultLambdaMax, "longest wavelength of the band in metres")
	lambdaStepFlag  = flag.Float64("lambda-step", defaultLambdaStep, "wavelength step of the output spectra in metres")
	bandwidthFlag   = flag.Float64("bandwidth", defaultBandwidth, "pulse envelope width as a fraction of the carrier")
	pulseCenterFlag = flag.Int("pulse-center", defaultPulseCenter, "step at which the pulse envelope peaks")

	// Probe planes are measured from the inner edge of the z padding.
	sourceOffsetFlag   = flag.Int("src-offset", defaultSourceOffset, "source plane distance from the low z padding")
	transmitOffsetFlag = flag.Int("trs-offset", defaultTransmitOffset, "transmission plane distance from the high z padding")

	fftFlag     = flag.String("fft", backendAlgo, "line FFT backend: algofft, gonum or gpu")
	queueFlag   = flag.String("queue", queueCPU, "elementwise queue: cpu or opencl (needs -tags opencl)")
	workersFlag = flag.Int("workers", 0, "worker goroutines (0 = one per CPU)")

	logEveryFlag   = flag.Int("log-every", defaultLogEvery, "log progress every N steps (0 disables)")
	checkEveryFlag = flag.Int("check-every", defaultCheckEvery, "check fields for NaN/Inf every N steps (0 disables)")

	outDirFlag           = flag.String("out", defaultOutputDir, "directory for probe series and spectra")
	dumpCoefficientsFlag = flag.Bool("dump-coefficients", false, "write PML profiles and coefficient lines")
	dumpFieldFlag        = flag.String("dump-field", "", "write the final plane of a component, e.g. Ex:-31")
	gateFlag             = flag.Int("gate", 0, "also write time-gated reflectance from this step (0 disables)")

	// cpuProfileFlag writes a pprof CPU profile of the run.
	cpuProfileFlag = flag.String("cpuprofile", "", "write a CPU profile to this file")
	memProfileFlag = flag.String("memprofile", "", "write a heap profile to this file after the run")
)

func init() {
	flag.Var(&layersFlag, "layer", "dielectric slab z0:z1:eps in padded z indices (repeatable)")
}
