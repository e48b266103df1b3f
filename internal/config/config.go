// Package config holds the settings of a conversion run. Values come from
// command-line flags, falling back to environment variables (optionally
// loaded from a .env file) when a flag is not given.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/lehigh-university-libraries/coco2yolo/internal/coco"
)

// Flag names
const (
	FlagCocoPath   = "coco_path"
	FlagOutputPath = "output_path"
	FlagLabels     = "labels"
	FlagNSamples   = "n_samples"
	FlagSeed       = "seed"
)

// Environment variables consulted when the matching flag is unset
const (
	EnvCocoPath   = "COCO_PATH"
	EnvOutputPath = "YOLO_OUTPUT_PATH"
	EnvLabels     = "COCO_LABELS"
	EnvNSamples   = "COCO_N_SAMPLES"
	EnvSeed       = "COCO_SEED"
)

// DefaultNSamples is the per-class sampling cap
const DefaultNSamples = 1000

// Config is the full configuration of a conversion run
type Config struct {
	CocoPath   string
	OutputPath string
	Labels     string
	NSamples   int
	// Seed drives image sampling; 0 means pick one from the clock
	Seed          uint64
	WriteManifest bool
	WriteDataYAML bool
	Verbose       bool
}

// ApplyEnv fills settings whose flag was not set on the command line from
// the environment. changed reports whether a flag was set explicitly.
func (c *Config) ApplyEnv(changed func(flag string) bool) error {
	if !changed(FlagCocoPath) {
		if v := os.Getenv(EnvCocoPath); v != "" {
			c.CocoPath = v
		}
	}
	if !changed(FlagOutputPath) {
		if v := os.Getenv(EnvOutputPath); v != "" {
			c.OutputPath = v
		}
	}
	if !changed(FlagLabels) {
		if v := os.Getenv(EnvLabels); v != "" {
			c.Labels = v
		}
	}
	if !changed(FlagNSamples) {
		if v := os.Getenv(EnvNSamples); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", EnvNSamples, v, err)
			}
			c.NSamples = n
		}
	}
	if !changed(FlagSeed) {
		if v := os.Getenv(EnvSeed); v != "" {
			seed, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid %s %q: %w", EnvSeed, v, err)
			}
			c.Seed = seed
		}
	}
	return nil
}

// Validate checks that required settings are present.
func (c *Config) Validate() error {
	if c.CocoPath == "" {
		return fmt.Errorf("--%s is required", FlagCocoPath)
	}
	if c.OutputPath == "" {
		return fmt.Errorf("--%s is required", FlagOutputPath)
	}
	if len(c.LabelList()) == 0 {
		return fmt.Errorf("--%s is required", FlagLabels)
	}
	if c.NSamples <= 0 {
		return fmt.Errorf("--%s must be positive, got %d", FlagNSamples, c.NSamples)
	}
	return nil
}

// LabelList splits the comma separated labels, trimming whitespace and
// dropping empty entries.
func (c *Config) LabelList() []string {
	return ParseLabels(c.Labels)
}

// AnnotationPath returns the COCO train annotation file under CocoPath.
func (c *Config) AnnotationPath() string {
	return coco.AnnotationPath(c.CocoPath)
}

// ParseLabels splits a comma separated label list.
func ParseLabels(s string) []string {
	var labels []string
	for _, part := range strings.Split(s, ",") {
		if label := strings.TrimSpace(part); label != "" {
			labels = append(labels, label)
		}
	}
	return labels
}
