// Package params loads and validates trainer configuration files.
//
// A parameter set is either read verbatim from a file and checked against a
// trainer Policy, or equal to Defaults(). The two are never merged.
package params

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"
)

// Well known setting keys.
const (
	KeyAlgorithm   = "Algorithm"
	KeyTrainerType = "TrainerType"
	KeyIterations  = "Iterations"
	KeyCutoff      = "Cutoff"
	KeyThreads     = "Threads"
	KeyDataIndexer = "DataIndexer"
)

// Default values.
const (
	DefaultAlgorithm  = AlgorithmMaxent
	DefaultIterations = 100
	DefaultCutoff     = 5
	DefaultThreads    = 1
)

// Parameters is an immutable set of trainer settings.
// The zero value is an empty set.
type Parameters struct {
	settings map[string]string
}

// New copies settings into a parameter set.
func New(settings map[string]string) Parameters {
	return Parameters{settings: maps.Clone(settings)}
}

// Defaults returns the parameter set used when no file is given.
func Defaults() Parameters {
	return New(map[string]string{
		KeyAlgorithm:   DefaultAlgorithm,
		KeyTrainerType: string(TrainerEvent),
		KeyIterations:  strconv.Itoa(DefaultIterations),
		KeyCutoff:      strconv.Itoa(DefaultCutoff),
		KeyThreads:     strconv.Itoa(DefaultThreads),
	})
}

// Get returns the raw value of key.
func (p Parameters) Get(key string) (string, bool) {
	v, ok := p.settings[key]
	return v, ok
}

// Settings returns a copy of all settings.
func (p Parameters) Settings() map[string]string {
	if p.settings == nil {
		return map[string]string{}
	}
	return maps.Clone(p.settings)
}

// Keys returns the setting keys in sorted order.
func (p Parameters) Keys() []string {
	return slices.Sorted(maps.Keys(p.settings))
}

// Len returns the number of settings.
func (p Parameters) Len() int { return len(p.settings) }

// Algorithm returns the trainer algorithm, MAXENT when unset.
func (p Parameters) Algorithm() string {
	if v, ok := p.settings[KeyAlgorithm]; ok && v != "" {
		return v
	}
	return DefaultAlgorithm
}

// TrainerType returns the explicit trainer type, or the empty string.
func (p Parameters) TrainerType() TrainerType {
	return TrainerType(p.settings[KeyTrainerType])
}

// Iterations returns the number of training iterations.
func (p Parameters) Iterations() int {
	v, _ := p.Int(KeyIterations, DefaultIterations)
	return v
}

// Cutoff returns the feature cutoff.
func (p Parameters) Cutoff() int {
	v, _ := p.Int(KeyCutoff, DefaultCutoff)
	return v
}

// Threads returns the number of trainer threads.
func (p Parameters) Threads() int {
	v, _ := p.Int(KeyThreads, DefaultThreads)
	return v
}

// Int parses key as an integer. def is returned when the key is absent,
// and also alongside the error when the value does not parse.
func (p Parameters) Int(key string, def int) (int, error) {
	raw, ok := p.settings[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def, fmt.Errorf("setting %s: %w", key, err)
	}
	return v, nil
}

// Bool parses key as a boolean, with the same default rules as Int.
func (p Parameters) Bool(key string, def bool) (bool, error) {
	raw, ok := p.settings[key]
	if !ok {
		return def, nil
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return def, fmt.Errorf("setting %s: %w", key, err)
	}
	return v, nil
}

// Namespace returns the settings prefixed with ns and a dot, with the prefix removed.
// Parameter files use namespaces to configure several trainers at once.
func (p Parameters) Namespace(ns string) Parameters {
	prefix := ns + "."
	out := make(map[string]string)
	for k, v := range p.settings {
		if rest, ok := strings.CutPrefix(k, prefix); ok && rest != "" {
			out[rest] = v
		}
	}
	return Parameters{settings: out}
}

// String renders the settings as a sorted properties file.
func (p Parameters) String() string {
	var b strings.Builder
	for _, k := range p.Keys() {
		b.WriteString(k)
		b.WriteString("=")
		b.WriteString(p.settings[k])
		b.WriteString("\n")
	}
	return b.String()
}
