package layout

import (
	"strconv"
	"strings"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Compiler validates width sequences and caches the resulting layouts.
// It is safe for concurrent use.
type Compiler struct {
	logger  *zap.Logger
	metrics *Metrics
	cache   sync.Map // width key -> *Layout
}

// Option configures a Compiler.
type Option func(*Compiler)

// WithLogger sets the compiler's logger. Defaults to the package Logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Compiler) {
		c.logger = l
	}
}

// WithMetrics registers cache counters with reg.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(c *Compiler) {
		c.metrics = NewMetrics(reg)
	}
}

func NewCompiler(opts ...Option) *Compiler {
	c := &Compiler{}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = Logger()
	}
	return c
}

// Compile returns the layout for widths, compiling it on first use.
// Invalid sequences are not cached.
func (c *Compiler) Compile(widths []int) (*Layout, error) {
	key := cacheKey(widths)
	if cached, ok := c.cache.Load(key); ok {
		c.metrics.hit()
		return cached.(*Layout), nil
	}

	l, err := build(widths)
	if err != nil {
		c.metrics.fail()
		c.logger.Warn("layout rejected", zap.String("widths", key), zap.Error(err))
		return nil, err
	}

	// Concurrent compiles of one shape converge on the first stored layout.
	actual, loaded := c.cache.LoadOrStore(key, l)
	if loaded {
		c.metrics.hit()
	} else {
		c.metrics.miss()
		c.logger.Debug("layout compiled",
			zap.String("widths", key),
			zap.Int("bits", l.totalBits),
			zap.Int("bytes", l.Size()))
	}
	return actual.(*Layout), nil
}

func cacheKey(widths []int) string {
	var b strings.Builder
	for i, w := range widths {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.Itoa(w))
	}
	return b.String()
}

var (
	defaultCompiler     *Compiler
	defaultCompilerOnce sync.Once
)

// Default returns the shared compiler used by Compile.
func Default() *Compiler {
	defaultCompilerOnce.Do(func() {
		defaultCompiler = NewCompiler()
	})
	return defaultCompiler
}

// Compile compiles widths with the shared default compiler.
func Compile(widths []int) (*Layout, error) {
	return Default().Compile(widths)
}
