// Command cfmsample is a thin CLI driver wiring import -> apply_big_m ->
// sample -> export (spec.md §6). It is the external "CLI wrapper" the
// core spec explicitly keeps out of pkg/: it never exposes anything
// pkg/model, pkg/validator, pkg/bigm, or the samplers don't already
// expose, and it performs no analysis of its own.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cfmtoolbox/cfm-core/pkg/bigm"
	"github.com/cfmtoolbox/cfm-core/pkg/cfmio"
	"github.com/cfmtoolbox/cfm-core/pkg/model"
	"github.com/cfmtoolbox/cfm-core/pkg/onewise"
	"github.com/cfmtoolbox/cfm-core/pkg/rng"
	"github.com/cfmtoolbox/cfm-core/pkg/runconfig"
	"github.com/cfmtoolbox/cfm-core/pkg/sampler"
	"github.com/cfmtoolbox/cfm-core/pkg/twise"
)

const version = "0.1.0"

var (
	cfmPath    = flag.String("cfm", "", "Path to a CFM JSON document (required)")
	configPath = flag.String("config", "", "Path to a YAML sampling run configuration (required)")
	outputDir  = flag.String("output", ".", "Output directory for generated configuration files")
	svgOut     = flag.Bool("svg", false, "Also render an SVG overlay per sample")
	verbose    = flag.Bool("verbose", false, "Enable verbose output")
	versionF   = flag.Bool("version", false, "Print version and exit")
)

func main() {
	flag.Parse()

	if *versionF {
		fmt.Printf("cfmsample version %s\n", version)
		os.Exit(0)
	}

	if *cfmPath == "" || *configPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -cfm and -config flags are required")
		fmt.Fprintln(os.Stderr, "Usage: cfmsample -cfm <model.json> -config <run.yaml> [options]")
		os.Exit(1)
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfmData, err := os.ReadFile(*cfmPath)
	if err != nil {
		return fmt.Errorf("reading CFM file: %w", err)
	}
	cfm, err := cfmio.DecodeCFM(cfmData)
	if err != nil {
		return fmt.Errorf("decoding CFM: %w", err)
	}

	cfg, err := runconfig.Load(*configPath)
	if err != nil {
		return fmt.Errorf("loading run config: %w", err)
	}

	if *verbose {
		fmt.Printf("Loaded CFM %q with %d features, %d constraints\n",
			cfm.Root.Name, len(cfm.Features()), len(cfm.Constraints))
		fmt.Printf("Mode: %s, seed: %d\n", cfg.Mode, cfg.Seed)
	}

	bigm.ApplyBigM(cfm)

	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	r := rng.NewRNG(cfg.Seed, string(cfg.Mode), cfg.Hash())

	samples, err := generateSamples(r, cfm, cfg)
	if err != nil {
		return err
	}

	if *verbose {
		fmt.Printf("Generated %d configuration(s)\n", len(samples))
	}

	for i, config := range samples {
		if err := exportSample(cfm, config, i); err != nil {
			return err
		}
	}

	fmt.Printf("Wrote %d configuration(s) to %s\n", len(samples), *outputDir)
	return nil
}

func generateSamples(r *rng.RNG, cfm *model.CFM, cfg *runconfig.SamplingConfig) ([]*model.ConfigurationNode, error) {
	switch cfg.Mode {
	case runconfig.ModeRandom:
		s := sampler.NewSampler()
		samples := make([]*model.ConfigurationNode, 0, cfg.NumSamples)
		for i := 0; i < cfg.NumSamples; i++ {
			config, err := s.SampleRandom(r, cfm, sampler.Options{Bias: cfg.Bias})
			if err != nil {
				return nil, fmt.Errorf("random sampling draw %d: %w", i, err)
			}
			samples = append(samples, config)
		}
		return samples, nil

	case runconfig.ModeOneWise:
		s := onewise.NewSampler()
		samples, err := s.Sample(r, cfm)
		if err != nil {
			return nil, fmt.Errorf("one-wise sampling: %w", err)
		}
		return samples, nil

	case runconfig.ModeTWise, runconfig.ModeTWiseInstanceSet:
		mode := twise.MultisetMode
		if cfg.Mode == runconfig.ModeTWiseInstanceSet {
			mode = twise.InstanceSetMode
		}
		enc, err := twise.Encode(cfm, mode)
		if err != nil {
			return nil, fmt.Errorf("encoding CFM for t-wise sampling: %w", err)
		}
		results, infeasible, err := enc.CoverTWise(cfg.T)
		if err != nil {
			return nil, fmt.Errorf("t-wise cover loop: %w", err)
		}
		if *verbose {
			fmt.Printf("%d interaction(s) proved infeasible\n", len(infeasible))
		}
		samples := make([]*model.ConfigurationNode, 0, len(results))
		for i, s := range results {
			config, err := enc.ToConfigurationTree(s)
			if err != nil {
				return nil, fmt.Errorf("converting sample %d to a configuration tree: %w", i, err)
			}
			samples = append(samples, config)
		}
		return samples, nil

	default:
		return nil, fmt.Errorf("unsupported mode %q", cfg.Mode)
	}
}

func exportSample(cfm *model.CFM, config *model.ConfigurationNode, index int) error {
	base := filepath.Join(*outputDir, fmt.Sprintf("sample_%03d", index))

	data, err := cfmio.EncodeConfiguration(config)
	if err != nil {
		return fmt.Errorf("encoding sample %d: %w", index, err)
	}
	if err := os.WriteFile(base+".json", data, 0644); err != nil {
		return fmt.Errorf("writing sample %d: %w", index, err)
	}

	if *svgOut {
		opts := cfmio.DefaultSVGOptions()
		opts.Title = fmt.Sprintf("%s sample %d", cfm.Root.Name, index)
		opts.ShowCounts = true
		if err := cfmio.SaveSVGToFile(cfm, config, base+".svg", opts); err != nil {
			return fmt.Errorf("rendering SVG for sample %d: %w", index, err)
		}
	}

	return nil
}
