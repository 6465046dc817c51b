package io

import (
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Manifest records the inputs and outcome of a slab run. It is written next
// to the data file as slab.yaml.
type Manifest struct {
	RunID   string    `yaml:"run_id"`
	Created time.Time `yaml:"created"`

	Inputs     ManifestInputs     `yaml:"inputs"`
	Geometry   ManifestGeometry   `yaml:"geometry"`
	Counts     ManifestCounts     `yaml:"counts"`
	Validation ManifestValidation `yaml:"validation"`

	Files []string `yaml:"files"`
}

type ManifestInputs struct {
	Molecules   int     `yaml:"molecules"`
	Density     float64 `yaml:"density"`
	ZMultiplier float64 `yaml:"z_multiplier"`
	Temperature float64 `yaml:"temperature"`
	Timestep    float64 `yaml:"timestep"`
	Steps       int     `yaml:"steps"`
	Seed        int64   `yaml:"seed"`
	Template    string  `yaml:"template,omitempty"`
}

type ManifestGeometry struct {
	Side   float64 `yaml:"side"`
	Height float64 `yaml:"height"`
	Vacuum float64 `yaml:"vacuum"`
	// Liquid density measured from the oxygen z-range, in g/cm^3.
	LiquidDensity float64 `yaml:"liquid_density"`
}

type ManifestCounts struct {
	Atoms     int     `yaml:"atoms"`
	Molecules int     `yaml:"molecules"`
	Charge    float64 `yaml:"net_charge"`
}

type ManifestValidation struct {
	Pass        bool    `yaml:"pass"`
	Threshold   float64 `yaml:"threshold"`
	MinDistance float64 `yaml:"min_distance"`
	MinPair     []int   `yaml:"min_pair,flow"`
	Violations  int     `yaml:"violations"`
}

// WriteManifest encodes m as YAML.
func WriteManifest(w io.Writer, m *Manifest) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return err
	}
	return enc.Close()
}

func WriteManifestFile(path string, m *Manifest) error {
	return writeAtomic(path, func(w io.Writer) error {
		return WriteManifest(w, m)
	})
}

// ReadManifest decodes a manifest written by WriteManifest.
func ReadManifest(r io.Reader) (*Manifest, error) {
	m := &Manifest{}
	if err := yaml.NewDecoder(r).Decode(m); err != nil {
		return nil, err
	}
	return m, nil
}

func ReadManifestFile(path string) (*Manifest, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadManifest(f)
}
