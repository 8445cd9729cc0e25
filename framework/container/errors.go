package container

import (
	"errors"
	"fmt"
	"strings"
)

// ── Sentinel errors ───────────────────────────────────────────────────────────

var (
	ErrCircularDependency = errors.New("circular dependency")
	ErrNoDefault          = errors.New("no manual value and no default")
	ErrTypeNotDefined     = errors.New("type is not defined")
	ErrMethodNotDefined   = errors.New("method is not defined")
	ErrArgumentCount      = errors.New("argument count mismatch")
	ErrArgumentType       = errors.New("argument type mismatch")
)

var (
	_ error = (*CircularDependencyError)(nil)
	_ error = (*UnresolvableParameterError)(nil)
	_ error = (*ReflectionError)(nil)
	_ error = (*ConstructionError)(nil)
	_ error = (*PanicError)(nil)
)

// ── Typed errors ──────────────────────────────────────────────────────────────

// CircularDependencyError reports a type requested while it is already
// being resolved. Chain holds the active stack followed by the repeated type.
type CircularDependencyError struct {
	Chain []string
}

func (e *CircularDependencyError) Error() string {
	return "circular dependency detected: " + strings.Join(e.Chain, " -> ")
}

func (e *CircularDependencyError) Is(target error) bool {
	return target == ErrCircularDependency
}

// UnresolvableParameterError reports a parameter that could not be given a value.
type UnresolvableParameterError struct {
	Type      string
	Method    string
	Parameter string
	Cause     error
}

func (e *UnresolvableParameterError) Error() string {
	return fmt.Sprintf("unresolvable parameter [%s] of [%s::%s]: %v",
		e.Parameter, e.Type, e.Method, e.Cause)
}

func (e *UnresolvableParameterError) Unwrap() error { return e.Cause }

// ReflectionError reports a type or method that cannot be introspected or called.
type ReflectionError struct {
	Type   string
	Method string
	Cause  error
}

func (e *ReflectionError) Error() string {
	if e.Method == "" {
		return fmt.Sprintf("reflection failed for [%s]: %v", e.Type, e.Cause)
	}
	return fmt.Sprintf("reflection failed for [%s::%s]: %v", e.Type, e.Method, e.Cause)
}

func (e *ReflectionError) Unwrap() error { return e.Cause }

// ConstructionError reports a constructor or provider that failed to build an instance.
type ConstructionError struct {
	Type     string
	Provider string
	Cause    error
}

func (e *ConstructionError) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("construction of [%s] failed: %v", e.Type, e.Cause)
	}
	return fmt.Sprintf("construction of [%s] by %s failed: %v", e.Type, e.Provider, e.Cause)
}

func (e *ConstructionError) Unwrap() error { return e.Cause }

// PanicError carries a value recovered from a panicking constructor.
type PanicError struct {
	Value any
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic: %v", e.Value)
}

// isResolutionError reports whether err already belongs to the container
// taxonomy and should not be wrapped again.
func isResolutionError(err error) bool {
	var (
		circ  *CircularDependencyError
		param *UnresolvableParameterError
		refl  *ReflectionError
		build *ConstructionError
	)
	return errors.As(err, &circ) || errors.As(err, &param) ||
		errors.As(err, &refl) || errors.As(err, &build)
}
