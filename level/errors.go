package level

import (
	"errors"
	"fmt"
)

type LoadErrorKind uint8

const (
	MultipleLoads LoadErrorKind = iota + 1
	IO
	Template
	Unsupported
)

func (k LoadErrorKind) String() string {
	switch k {
	case MultipleLoads:
		return "multiple loads"
	case IO:
		return "io"
	case Template:
		return "template"
	case Unsupported:
		return "unsupported"
	default:
		return fmt.Sprintf("load error(%d)", uint8(k))
	}
}

// LoadError is returned by Level.Load. errors.Is matches any *LoadError of
// the same kind, so the Err* values below work as sentinels.
type LoadError struct {
	Kind LoadErrorKind
	Path string
	Err  error
}

var (
	ErrMultipleLoads = &LoadError{Kind: MultipleLoads}
	ErrIO            = &LoadError{Kind: IO}
	ErrTemplate      = &LoadError{Kind: Template}
	ErrUnsupported   = &LoadError{Kind: Unsupported}
)

func (e *LoadError) Error() string {
	switch {
	case e.Kind == MultipleLoads:
		return "level: Load may only be called once"
	case e.Path != "" && e.Err != nil:
		return fmt.Sprintf("level: %s: %s: %v", e.Kind, e.Path, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("level: %s: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("level: %s", e.Kind)
	}
}

func (e *LoadError) Unwrap() error { return e.Err }

func (e *LoadError) Is(target error) bool {
	var t *LoadError
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

func ioError(path string, err error) error {
	return &LoadError{Kind: IO, Path: path, Err: err}
}

func unsupported(format string, args ...any) error {
	return &LoadError{Kind: Unsupported, Err: fmt.Errorf(format, args...)}
}

type TemplateErrorKind uint8

const (
	TypeError TemplateErrorKind = iota + 1
	ExpectedUnsigned
)

// TemplateError reports a custom property a component template could not
// use. TileID is the global tile id, or 0 for plain objects.
type TemplateError struct {
	Kind     TemplateErrorKind
	TileID   uint32
	Prop     string
	Expected string
}

func (e *TemplateError) Error() string {
	switch e.Kind {
	case TypeError:
		return fmt.Sprintf("level: expected %q property to have type %q (tile GID = %d)", e.Prop, e.Expected, e.TileID)
	case ExpectedUnsigned:
		return fmt.Sprintf("level: expected %q property to be greater than or equal to zero (tile GID = %d)", e.Prop, e.TileID)
	default:
		return fmt.Sprintf("level: template error on %q (tile GID = %d)", e.Prop, e.TileID)
	}
}

func templateError(err error) error {
	return &LoadError{Kind: Template, Err: err}
}
