package service

import (
	"fmt"
	"sync"

	"github.com/driftgate/driftgate/internal/core/domain"
	"github.com/driftgate/driftgate/internal/core/ports"
	"github.com/driftgate/driftgate/internal/errors"
)

// ComponentRegistry holds the pluggable pieces the bootstrap wires up:
// desired-state loaders keyed by type and attribute checkers keyed by
// resource kind.
type ComponentRegistry struct {
	mu       sync.RWMutex
	loaders  map[string]ports.DesiredStateLoader
	checkers map[domain.ResourceKind]ports.AttributeChecker
}

func NewComponentRegistry() *ComponentRegistry {
	return &ComponentRegistry{
		loaders:  make(map[string]ports.DesiredStateLoader),
		checkers: make(map[domain.ResourceKind]ports.AttributeChecker),
	}
}

func (r *ComponentRegistry) RegisterLoader(loader ports.DesiredStateLoader) error {
	if loader == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil loader")
	}
	loaderType := loader.Type()
	if loaderType == "" {
		return errors.New(errors.CodeInternal, "loader type cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.loaders[loaderType]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("loader type '%s' already registered", loaderType))
	}
	r.loaders[loaderType] = loader
	return nil
}

func (r *ComponentRegistry) GetLoader(loaderType string) (ports.DesiredStateLoader, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	loader, exists := r.loaders[loaderType]
	if !exists {
		return nil, errors.New(errors.CodeConfigValidation, fmt.Sprintf("desired state loader type '%s' not found", loaderType))
	}
	return loader, nil
}

func (r *ComponentRegistry) RegisterChecker(checker ports.AttributeChecker) error {
	if checker == nil {
		return errors.New(errors.CodeInternal, "attempted to register nil checker")
	}
	kind := checker.Kind()
	if kind == "" {
		return errors.New(errors.CodeInternal, "checker kind cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.checkers[kind]; exists {
		return errors.New(errors.CodeInternal, fmt.Sprintf("checker for kind '%s' already registered", kind))
	}
	r.checkers[kind] = checker
	return nil
}

func (r *ComponentRegistry) GetChecker(kind domain.ResourceKind) (ports.AttributeChecker, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	checker, exists := r.checkers[kind]
	if !exists {
		return nil, errors.New(errors.CodeConfigValidation, fmt.Sprintf("attribute checker for kind '%s' not found", kind))
	}
	return checker, nil
}
