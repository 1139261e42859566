package schema

import (
	stderrors "errors"

	"go.uber.org/zap"

	"github.com/wippyai/bitfield/errors"
	"github.com/wippyai/bitfield/layout"
	"github.com/wippyai/bitfield/specifier"
)

// Builder collects fields in declaration order.
type Builder struct {
	compiler *layout.Compiler
	logger   *zap.Logger
	err      error
	typ      *Type
	name     string
	fields   []*field
}

// Option configures a Builder.
type Option func(*Builder)

// WithCompiler compiles the layout with c instead of the shared default.
func WithCompiler(c *layout.Compiler) Option {
	return func(b *Builder) {
		b.compiler = c
	}
}

// WithLogger sets the builder's logger. Defaults to the package Logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) {
		b.logger = l
	}
}

// New starts a record type definition.
func New(name string, opts ...Option) *Builder {
	b := &Builder{name: name}
	for _, opt := range opts {
		opt(b)
	}
	if b.compiler == nil {
		b.compiler = layout.Default()
	}
	if b.logger == nil {
		b.logger = Logger()
	}
	return b
}

// Add appends a field bound to spec. The returned handle becomes usable once
// Build succeeds.
func Add[V any](b *Builder, name string, spec specifier.Specifier[V]) *Field[V] {
	f := &Field[V]{spec: spec, def: newField(name, spec)}
	switch {
	case b.typ != nil:
		b.setErr(errors.New(errors.PhaseDefine, errors.KindInvalidInput).
			Path(b.name, name).
			Detail("field added after build").
			Build())
	case !spec.Valid():
		b.setErr(errors.NotInitialized(errors.PhaseDefine, "specifier for field "+name))
	default:
		b.fields = append(b.fields, f.def)
	}
	return f
}

// Build validates the field set and compiles its layout. Calling Build again
// returns the same type.
func (b *Builder) Build() (*Type, error) {
	if b.typ != nil {
		return b.typ, nil
	}
	if b.err != nil {
		return nil, b.err
	}
	if b.name == "" {
		return nil, b.fail(errors.Layout("", "record type has no name"))
	}

	byName := make(map[string]*field, len(b.fields))
	widths := make([]int, len(b.fields))
	for i, f := range b.fields {
		if f.name == "" {
			return nil, b.fail(errors.Layout(b.name, "field %d has no name", i))
		}
		if _, dup := byName[f.name]; dup {
			return nil, b.fail(errors.Layout(b.name, "duplicate field %q", f.name))
		}
		byName[f.name] = f
		widths[i] = f.desc.Bits
	}

	l, err := b.compiler.Compile(widths)
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) {
			e.Type = b.name
		}
		return nil, b.fail(err)
	}

	t := &Type{name: b.name, layout: l, fields: b.fields, byName: byName}
	for i, f := range b.fields {
		f.typ = t
		f.index = i
		f.offset = l.Offset(i)
	}
	b.typ = t

	b.logger.Debug("record type built",
		zap.String("type", t.name),
		zap.Int("fields", len(t.fields)),
		zap.Int("bytes", t.Size()))
	return t, nil
}

// MustBuild is like Build but panics on error.
func (b *Builder) MustBuild() *Type {
	t, err := b.Build()
	if err != nil {
		panic(err)
	}
	return t
}

func (b *Builder) setErr(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) fail(err error) error {
	b.logger.Warn("record type rejected", zap.String("type", b.name), zap.Error(err))
	return err
}
