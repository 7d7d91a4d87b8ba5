// Package sysreg is the System Registry & Pipeline (spec.md §4.5): it turns
// a set of declared systems, each naming its dependencies, into a single
// linear execution order validated once at startup. A cycle or a reference
// to an undeclared dependency is a fatal startup error — there is no
// best-effort partial pipeline.
package sysreg

import (
	"fmt"
	"sort"
)

// System is anything the scheduler can run once per tick. Update never
// returns an error; systems report failures via events (spec.md §4.5
// "Failure semantics") and Update itself must not panic across tick
// boundaries — callers run it under core.Go/core.Recoverf.
type System interface {
	Update(tick uint64)
}

// Factory instantiates a System given an opaque world handle. The concrete
// type is supplied by the caller (normally *worldstate.World boxed as any)
// so this package has no dependency on worldstate.
type Factory func(world any) System

// Declaration is one entry in the registry: a name, its dependency names,
// a factory, and an optional enable predicate (spec.md §4.5 "used to
// suppress AI systems when AI is disabled, checksum system when not
// multiplayer").
type Declaration struct {
	Name      string
	DependsOn []string
	Factory   Factory
	Enabled   func() bool // nil means always enabled
}

// Registry accumulates declarations before Build computes the pipeline.
type Registry struct {
	decls map[string]Declaration
	order []string // insertion order, used only to break ties deterministically
}

func NewRegistry() *Registry {
	return &Registry{decls: make(map[string]Declaration)}
}

// Declare adds or replaces a system declaration.
func (r *Registry) Declare(d Declaration) {
	if _, exists := r.decls[d.Name]; !exists {
		r.order = append(r.order, d.Name)
	}
	r.decls[d.Name] = d
}

// CycleError reports a dependency cycle detected during Build.
type CycleError struct {
	Cycle []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("sysreg: dependency cycle: %v", e.Cycle)
}

// UndeclaredDependencyError reports a dependency name with no matching
// declaration.
type UndeclaredDependencyError struct {
	System     string
	Dependency string
}

func (e *UndeclaredDependencyError) Error() string {
	return fmt.Sprintf("sysreg: system %q depends on undeclared system %q", e.System, e.Dependency)
}

// Pipeline is the validated, linearly-ordered, instantiated result of Build.
type Pipeline struct {
	systems []namedSystem
}

type namedSystem struct {
	name   string
	system System
}

// Names returns the execution order's system names, for diagnostics and
// tests.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.systems))
	for i, ns := range p.systems {
		names[i] = ns.name
	}
	return names
}

// RunOnce invokes Update(tick) on every system in pipeline order.
func (p *Pipeline) RunOnce(tick uint64) {
	for _, ns := range p.systems {
		ns.system.Update(tick)
	}
}

// Build topologically sorts declarations into a single linear order and
// instantiates every enabled one. Disabled systems are dropped from the
// order entirely (spec.md §4.5: "the registry's condition predicates
// enforce consistency" — a disabled system's dependents must not have been
// declared to require it unconditionally if they themselves stay enabled).
//
// Ties among systems with no ordering constraint between them are broken by
// declaration order, so Build is itself deterministic across peers as long
// as every peer declares systems in the same order (true by construction:
// declarations happen in source, not from network input).
func Build(r *Registry, world any) (*Pipeline, error) {
	for _, name := range r.order {
		d := r.decls[name]
		for _, dep := range d.DependsOn {
			if _, ok := r.decls[dep]; !ok {
				return nil, &UndeclaredDependencyError{System: name, Dependency: dep}
			}
		}
	}

	sorted, err := topoSort(r)
	if err != nil {
		return nil, err
	}

	pipeline := &Pipeline{}
	for _, name := range sorted {
		d := r.decls[name]
		if d.Enabled != nil && !d.Enabled() {
			continue
		}
		pipeline.systems = append(pipeline.systems, namedSystem{name: name, system: d.Factory(world)})
	}
	return pipeline, nil
}

const (
	colorWhite = 0
	colorGray  = 1
	colorBlack = 2
)

// topoSort runs a recursive DFS-based topological sort. Among systems with no
// relative ordering constraint, declaration order (r.order) decides —
// ensuring Build's output is fully deterministic rather than dependent on
// Go's unordered map iteration.
func topoSort(r *Registry) ([]string, error) {
	color := make(map[string]int, len(r.decls))
	var result []string
	var stack []string

	var visit func(name string) error
	visit = func(name string) error {
		switch color[name] {
		case colorBlack:
			return nil
		case colorGray:
			cycle := append(append([]string{}, stack...), name)
			return &CycleError{Cycle: cycle}
		}
		color[name] = colorGray
		stack = append(stack, name)

		deps := append([]string{}, r.decls[name].DependsOn...)
		sort.Strings(deps)
		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}

		stack = stack[:len(stack)-1]
		color[name] = colorBlack
		result = append(result, name)
		return nil
	}

	for _, name := range r.order {
		if err := visit(name); err != nil {
			return nil, err
		}
	}
	return result, nil
}
