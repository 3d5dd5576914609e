package params

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/corpus/pkg/domain"
	"github.com/aretw0/corpus/pkg/ports"
	"github.com/magiconair/properties"
	"gopkg.in/yaml.v3"
)

// Loader reads parameter files and validates them against Policy.
type Loader struct {
	// Policy defaults to DefaultPolicy.
	Policy ports.TrainerPolicy
}

// Load reads path with DefaultPolicy. See Loader.Load.
func Load(path string, sequenceAllowed bool) (Parameters, error) {
	return Loader{}.Load(path, sequenceAllowed)
}

// Load returns Defaults() when path is empty. Otherwise it decodes the file
// (YAML for .yaml/.yml, properties for anything else) and validates it.
// Every failure is a *domain.InitializationError.
func (l Loader) Load(path string, sequenceAllowed bool) (Parameters, error) {
	if path == "" {
		return Defaults(), nil
	}
	p, err := l.read(path)
	if err != nil {
		return Parameters{}, err
	}
	if err := l.validate(path, p, sequenceAllowed); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

// LoadNamespace loads path and returns the settings under ns, validated on their own.
// An empty path yields Defaults().
func (l Loader) LoadNamespace(path, ns string, sequenceAllowed bool) (Parameters, error) {
	if path == "" {
		return Defaults(), nil
	}
	p, err := l.read(path)
	if err != nil {
		return Parameters{}, err
	}
	sub := p.Namespace(ns)
	if err := l.validate(path, sub, sequenceAllowed); err != nil {
		return Parameters{}, err
	}
	return sub, nil
}

// Read decodes and validates a parameter file from r. name selects the decoder by
// extension and labels errors.
func (l Loader) Read(r io.Reader, name string, sequenceAllowed bool) (Parameters, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Parameters{}, &domain.InitializationError{Path: name, Err: err}
	}
	p, err := decode(name, data)
	if err != nil {
		return Parameters{}, &domain.InitializationError{Path: name, Err: err}
	}
	if err := l.validate(name, p, sequenceAllowed); err != nil {
		return Parameters{}, err
	}
	return p, nil
}

func (l Loader) read(path string) (Parameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return Parameters{}, &domain.InitializationError{Path: path, Err: err}
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return Parameters{}, &domain.InitializationError{Path: path, Err: err}
	}
	p, err := decode(path, data)
	if err != nil {
		return Parameters{}, &domain.InitializationError{Path: path, Err: err}
	}
	return p, nil
}

func (l Loader) validate(path string, p Parameters, sequenceAllowed bool) error {
	policy := l.Policy
	if policy == nil {
		policy = DefaultPolicy
	}
	settings := p.settings
	if settings == nil {
		settings = map[string]string{}
	}
	if setting, err := policy.Check(settings); err != nil {
		if !errors.Is(err, domain.ErrInvalidTrainingConfiguration) {
			err = fmt.Errorf("%w: %v", domain.ErrInvalidTrainingConfiguration, err)
		}
		return &domain.InitializationError{Path: path, Setting: setting, Err: err}
	}
	if !sequenceAllowed && policy.IsSequenceTraining(settings) {
		return &domain.InitializationError{Path: path, Err: domain.ErrSequenceTrainingNotSupported}
	}
	return nil
}

func decode(name string, data []byte) (Parameters, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return decodeYAML(data)
	default:
		return decodeProperties(data)
	}
}

func decodeProperties(data []byte) (Parameters, error) {
	props, err := properties.Load(data, properties.UTF8)
	if err != nil {
		return Parameters{}, &domain.ParseError{Msg: "invalid properties", Err: err}
	}
	return Parameters{settings: props.Map()}, nil
}

func decodeYAML(data []byte) (Parameters, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return Parameters{}, &domain.ParseError{Msg: "invalid yaml", Err: err}
	}
	settings := make(map[string]string)
	if err := flatten("", doc, settings); err != nil {
		return Parameters{}, err
	}
	return Parameters{settings: settings}, nil
}

// flatten joins nested mapping keys with dots.
func flatten(prefix string, node map[string]any, out map[string]string) error {
	keys := make([]string, 0, len(node))
	for k := range node {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch v := node[k].(type) {
		case map[string]any:
			if err := flatten(key, v, out); err != nil {
				return err
			}
		case map[any]any:
			nested := make(map[string]any, len(v))
			for nk, nv := range v {
				nested[fmt.Sprint(nk)] = nv
			}
			if err := flatten(key, nested, out); err != nil {
				return err
			}
		case []any:
			return &domain.ParseError{Msg: fmt.Sprintf("setting %s: lists are not supported", key)}
		case nil:
			out[key] = ""
		default:
			out[key] = fmt.Sprint(v)
		}
	}
	return nil
}
