package params

import (
	"fmt"
	"maps"
	"slices"
	"strconv"
	"strings"

	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/ports"
)

// TrainerType classifies how a trainer consumes samples.
type TrainerType string

const (
	TrainerEvent              TrainerType = "Event"
	TrainerEventModelSequence TrainerType = "EventModelSequence"
	TrainerSequence           TrainerType = "Sequence"
)

// IsSequence reports whether the trainer type trains over ordered sequences.
func (t TrainerType) IsSequence() bool {
	return t == TrainerEventModelSequence || t == TrainerSequence
}

func (t TrainerType) known() bool {
	return t == TrainerEvent || t.IsSequence()
}

// Registered algorithms.
const (
	AlgorithmMaxent             = "MAXENT"
	AlgorithmMaxentQN           = "MAXENT_QN"
	AlgorithmNaiveBayes         = "NAIVEBAYES"
	AlgorithmPerceptron         = "PERCEPTRON"
	AlgorithmPerceptronSequence = "PERCEPTRON_SEQUENCE"
)

var dataIndexers = []string{"OnePass", "TwoPass", "OnePassRealValue"}

// Policy is the read-only table of trainer algorithms and their trainer types.
type Policy struct {
	trainers map[string]TrainerType
}

var _ ports.TrainerPolicy = (*Policy)(nil)

// NewPolicy copies the algorithm table.
func NewPolicy(trainers map[string]TrainerType) *Policy {
	return &Policy{trainers: maps.Clone(trainers)}
}

// DefaultPolicy knows the built-in trainers.
var DefaultPolicy = NewPolicy(map[string]TrainerType{
	AlgorithmMaxent:             TrainerEvent,
	AlgorithmMaxentQN:           TrainerEvent,
	AlgorithmNaiveBayes:         TrainerEvent,
	AlgorithmPerceptron:         TrainerEvent,
	AlgorithmPerceptronSequence: TrainerEventModelSequence,
})

// Algorithms returns the registered algorithm names, sorted.
func (p *Policy) Algorithms() []string {
	return slices.Sorted(maps.Keys(p.trainers))
}

// TrainerTypeOf returns the registered trainer type of an algorithm.
func (p *Policy) TrainerTypeOf(algorithm string) (TrainerType, bool) {
	t, ok := p.trainers[algorithm]
	return t, ok
}

// IsValid reports whether Check accepts settings.
func (p *Policy) IsValid(settings map[string]string) bool {
	_, err := p.Check(settings)
	return err == nil
}

// Check validates settings. On rejection it returns the offending setting name and
// an error wrapping domain.ErrInvalidTrainingConfiguration.
func (p *Policy) Check(settings map[string]string) (string, error) {
	algorithm, hasAlgorithm := settings[KeyAlgorithm]
	registered, ok := p.trainers[algorithm]
	if hasAlgorithm && !ok {
		return KeyAlgorithm, invalid("unknown algorithm %q", algorithm)
	}
	if !hasAlgorithm {
		registered = p.trainers[DefaultAlgorithm]
	}

	if raw, ok := settings[KeyTrainerType]; ok {
		tt := TrainerType(raw)
		if !tt.known() {
			return KeyTrainerType, invalid("unknown trainer type %q", raw)
		}
		if registered != "" && tt != registered {
			return KeyTrainerType, invalid("trainer type %s does not match algorithm %s (%s)", tt, algorithm, registered)
		}
	}

	for _, check := range []struct {
		key string
		min int
	}{
		{KeyIterations, 1},
		{KeyCutoff, 0},
		{KeyThreads, 1},
	} {
		raw, ok := settings[check.key]
		if !ok {
			continue
		}
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return check.key, invalid("%s is not an integer: %q", check.key, raw)
		}
		if v < check.min {
			return check.key, invalid("%s must be at least %d, got %d", check.key, check.min, v)
		}
	}

	if raw, ok := settings[KeyDataIndexer]; ok && !slices.Contains(dataIndexers, raw) {
		return KeyDataIndexer, invalid("unknown data indexer %q", raw)
	}
	return "", nil
}

// IsSequenceTraining reports whether settings select a sequence trainer,
// either through the algorithm or an explicit trainer type.
func (p *Policy) IsSequenceTraining(settings map[string]string) bool {
	if TrainerType(settings[KeyTrainerType]).IsSequence() {
		return true
	}
	algorithm, ok := settings[KeyAlgorithm]
	if !ok {
		algorithm = DefaultAlgorithm
	}
	return p.trainers[algorithm].IsSequence()
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", domain.ErrInvalidTrainingConfiguration, fmt.Sprintf(format, args...))
}
