package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hanman2016/fine-grained-sentiment/internal/domain/entity"
)

// ErrUnknownMethod is returned when a requested method is not registered
var ErrUnknownMethod = errors.New("unknown method")

// Registry is an immutable mapping from method identifier to method definition.
// It is constructed once at process start and passed explicitly to consumers.
type Registry struct {
	methods map[string]entity.Method
}

// New creates a registry from the given method definitions
func New(methods ...entity.Method) *Registry {
	m := make(map[string]entity.Method, len(methods))
	for _, method := range methods {
		m[method.Name] = method
	}
	return &Registry{methods: m}
}

// Default returns the registry of built-in explanation methods
func Default() *Registry {
	return New(
		entity.Method{
			Name:         "fasttext",
			ArtifactPath: "models/fasttext/sst.bin",
			Strategy:     entity.StrategyBatch,
		},
		entity.Method{
			Name:         "flair",
			ArtifactPath: "models/flair/best-model-elmo.pt",
			Strategy:     entity.StrategySequential,
		},
	)
}

// Lookup resolves a method identifier to its definition
func (r *Registry) Lookup(name string) (entity.Method, error) {
	method, ok := r.methods[name]
	if !ok {
		return entity.Method{}, fmt.Errorf("%w: %q (choose from: %s)", ErrUnknownMethod, name, strings.Join(r.Names(), ", "))
	}
	return method, nil
}

// Names returns all registered method identifiers in sorted order
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.methods))
	for name := range r.methods {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks every requested method identifier against the registry.
// It fails on the first unknown identifier so that no work starts on a bad request.
func (r *Registry) Validate(names []string) error {
	for _, name := range names {
		if _, err := r.Lookup(name); err != nil {
			return err
		}
	}
	return nil
}
