package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/floats"
)

// runConfig is everything a run needs, assembled from flags.
type runConfig struct {
	interior   [3]int
	padding    int
	spacing    float64
	courant    float64
	steps      int
	pml        [3]side
	pec        [3]side
	pmlParams  pmlParams
	layers     []layer
	lambdaMin  float64
	lambdaMax  float64
	lambdaStep float64
	bandwidth  float64
	pulseAt    int
	srcOffset  int
	trsOffset  int
	sim        simulationConfig
	outDir     string
	dumpCoeffs bool
	dumpField  string
	gate       int
}

func configFromFlags() (runConfig, error) {
	cfg := runConfig{
		interior:   [3]int{*nxFlag, *nyFlag, *nzFlag},
		padding:    *paddingFlag,
		spacing:    *spacingFlag,
		courant:    *courantFlag,
		steps:      *stepsFlag,
		pmlParams:  pmlParams{order: *gradingOrderFlag, reflection: *reflectionFlag, kappaMax: *kappaMaxFlag},
		lambdaMin:  *lambdaMinFlag,
		lambdaMax:  *lambdaMaxFlag,
		lambdaStep: *lambdaStepFlag,
		bandwidth:  *bandwidthFlag,
		pulseAt:    *pulseCenterFlag,
		srcOffset:  *sourceOffsetFlag,
		trsOffset:  *transmitOffsetFlag,
		outDir:     *outDirFlag,
		dumpCoeffs: *dumpCoefficientsFlag,
		dumpField:  *dumpFieldFlag,
		gate:       *gateFlag,
		sim: simulationConfig{
			fftBackend: *fftFlag,
			queue:      *queueFlag,
			workers:    *workersFlag,
			logEvery:   *logEveryFlag,
			checkEvery: *checkEveryFlag,
		},
	}
	if cfg.steps < 0 {
		return cfg, configErrorf("steps", "must not be negative, got %d", cfg.steps)
	}
	if cfg.sim.workers <= 0 {
		cfg.sim.workers = runtime.NumCPU()
	}
	for a, sel := range [3]struct{ pml, pec string }{
		{*pmlXFlag, *pecXFlag}, {*pmlYFlag, *pecYFlag}, {*pmlZFlag, *pecZFlag},
	} {
		var err error
		if cfg.pml[a], err = parseSide(sel.pml); err != nil {
			return cfg, fmt.Errorf("pml-%s: %w", axis(a), err)
		}
		if cfg.pec[a], err = parseSide(sel.pec); err != nil {
			return cfg, fmt.Errorf("pec-%s: %w", axis(a), err)
		}
	}
	spec := layersFlag.String()
	if len(layersFlag) == 0 {
		spec = defaultLayers
	}
	layers, err := parseLayers(spec)
	if err != nil {
		return cfg, err
	}
	cfg.layers = layers
	return cfg, nil
}

// setup builds the grid, boundary profile and medium described by cfg.
func setup(cfg runConfig) (*grid, *pmlProfile, *medium, error) {
	g, err := buildGrid(cfg.interior, cfg.padding, [3]float64{cfg.spacing, cfg.spacing, cfg.spacing})
	if err != nil {
		return nil, nil, nil, err
	}
	if err := g.setCourant(cfg.courant); err != nil {
		return nil, nil, nil, err
	}
	prof := newPMLProfile(g, cfg.pmlParams)
	for _, a := range allAxes {
		if err := prof.applyPML(a, cfg.pml[a]); err != nil {
			return nil, nil, nil, err
		}
		if err := prof.applyPEC(a, cfg.pec[a]); err != nil {
			return nil, nil, nil, err
		}
	}
	med := newMedium(g)
	for _, l := range cfg.layers {
		if err := med.fillSlabZ(l.z0, l.z1, l.epsR); err != nil {
			return nil, nil, nil, fmt.Errorf("layer %v: %w", l, err)
		}
	}
	return g, prof, med, nil
}

func run(ctx context.Context, cfg runConfig) error {
	g, prof, med, err := setup(cfg)
	if err != nil {
		return err
	}
	pulse, err := newPulseSource(cfg.lambdaMin, cfg.lambdaMax, cfg.bandwidth, cfg.pulseAt, g.dt)
	if err != nil {
		return err
	}
	cfg.sim.pulse = pulse
	log.Printf("memory estimate %.2f GiB for %d cells", float64(memoryFootprint(g, med.lossy))/(1<<30), g.size())
	cfg.sim.sourcePlane = g.padding[axisZ] + cfg.srcOffset
	cfg.sim.transmitPlane = -cfg.trsOffset - g.padding[axisZ]
	sim, err := newSimulation(g, prof, med, cfg.sim)
	if err != nil {
		return err
	}
	defer sim.Close()

	log.Printf("grid %v", g)
	for _, l := range cfg.layers {
		log.Printf("layer %v", l)
	}
	log.Printf("queue %s, fft %s, %d workers", sim.queue.Name(), cfg.sim.fftBackend, cfg.sim.workers)

	if cfg.dumpCoeffs {
		if err := dumpProfiles(cfg.outDir, g, prof, sim.coeffs); err != nil {
			return err
		}
	}

	if err := sim.run(ctx, cfg.steps); err != nil {
		if !errors.Is(err, context.Canceled) {
			return err
		}
		// Spectra of a truncated record are meaningless; keep only the
		// probe series.
		log.Printf("run interrupted after %d of %d steps; writing probe series only", sim.step, cfg.steps)
		if derr := dumpProbes(cfg.outDir, sim.probes); derr != nil {
			return errors.Join(err, derr)
		}
		return fmt.Errorf("run interrupted after %d of %d steps: %w", sim.step, cfg.steps, err)
	}

	if err := dumpProbes(cfg.outDir, sim.probes); err != nil {
		return err
	}
	if cfg.dumpField != "" {
		name, z, err := parseFieldDump(cfg.dumpField)
		if err != nil {
			return err
		}
		field, err := sim.fields.component(name)
		if err != nil {
			return err
		}
		if err := dumpPlane(cfg.outDir, name, g, field, z); err != nil {
			return err
		}
	}
	if sim.probes.len() == 0 {
		return nil
	}

	wl, err := wavelengthGrid(cfg.lambdaMin, cfg.lambdaMax, cfg.lambdaStep)
	if err != nil {
		return err
	}
	spec := computeSpectra(sim.probes, g.dt, wl)
	if err := dumpSpectra(cfg.outDir, spec); err != nil {
		return err
	}
	if cfg.gate > 0 {
		gated := gatedSpectra(sim.probes, g.dt, wl, cfg.gate)
		if err := writeColumns(filepath.Join(cfg.outDir, "gated"), map[string][]float64{
			"Reflec": gated.reflectance,
			"Trans":  gated.transmittance,
		}); err != nil {
			return err
		}
	}
	summarize(sim, cfg, spec)
	return nil
}

// summarize logs how the run compares with the thin-film prediction for the
// same stack.
func summarize(sim *simulation, cfg runConfig, spec *spectra) {
	p := sim.probes
	if srcPeak := floats.Max(p.source); srcPeak > 0 {
		log.Printf("ratio of input and source peaks: %.4f", math.Abs(floats.Max(p.input))/srcPeak)
	}
	log.Printf("transmitted peak at %.2f THz, carrier %.2f THz",
		peakFrequency(p.transmitted, sim.g.dt)/1e12, sim.pulse.w0/(2*math.Pi)/1e12)

	log.Printf("interior energy left after %d steps: %.3e", sim.step, sim.interiorEnergy())

	ref, trs := sample(stackFromLayers(cfg.layers, sim.g.spacing[axisZ]), spec.wavelength)
	dr := make([]float64, len(ref))
	dt := make([]float64, len(trs))
	floats.SubTo(dr, spec.reflectance, ref)
	floats.SubTo(dt, spec.transmittance, trs)
	log.Printf("thin-film reference: max |dR| = %.4f, max |dT| = %.4f, mean total = %.4f",
		floats.Norm(dr, math.Inf(1)), floats.Norm(dt, math.Inf(1)),
		floats.Sum(spec.total)/float64(len(spec.total)))
}

// parseFieldDump reads "Ex:-31" into a component name and z index.
func parseFieldDump(s string) (string, int, error) {
	name, zs, ok := strings.Cut(s, ":")
	if !ok {
		return "", 0, configErrorf("dump-field", "expected component:z, got %q", s)
	}
	z, err := strconv.Atoi(zs)
	if err != nil {
		return "", 0, configErrorf("dump-field", "bad z index %q: %v", zs, err)
	}
	return name, z, nil
}

func main() {
	flag.Parse()
	runtime.GOMAXPROCS(runtime.NumCPU())

	cfg, err := configFromFlags()
	if err != nil {
		log.Fatalf("pstd: %v", err)
	}

	stopProfile := func() {}
	if *cpuProfileFlag != "" {
		stopProfile, err = startCPUProfile(*cpuProfileFlag)
		if err != nil {
			log.Fatalf("pstd: %v", err)
		}
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	err = run(ctx, cfg)
	cancel()
	stopProfile()
	if err != nil {
		log.Fatalf("pstd: %v", err)
	}
	if *memProfileFlag != "" {
		if err := writeHeapProfile(*memProfileFlag); err != nil {
			log.Fatalf("pstd: %v", err)
		}
	}
}
