package types

import (
	"log/slog"

	"github.com/cottand/variance/internal/log"
)

// TypeCtx answers subtyping and well-formedness questions about the classes of a Table.
//
// A TypeCtx never changes after NewTypeCtx returns, except for its internal
// subtype cache, and is safe for concurrent use.
type TypeCtx struct {
	table Table
	mode  RuntimeMode
	cache *subtypeCache

	logger *slog.Logger
}

type Option func(*TypeCtx)

// WithRuntimeMode selects whether casts and instance checks see type arguments at runtime
func WithRuntimeMode(mode RuntimeMode) Option {
	return func(ctx *TypeCtx) { ctx.mode = mode }
}

// WithCacheSize bounds the number of memoised subtype judgements; zero or less disables the cache
func WithCacheSize(size int) Option {
	return func(ctx *TypeCtx) { ctx.cache = newSubtypeCache(size) }
}

func WithLogger(logger *slog.Logger) Option {
	return func(ctx *TypeCtx) { ctx.logger = logger.With("section", log.SectionTypes) }
}

func NewTypeCtx(table Table, opts ...Option) *TypeCtx {
	if table.classes == nil {
		table = NewTable()
	}
	ctx := &TypeCtx{
		table:  table,
		mode:   Erased,
		cache:  newSubtypeCache(defaultCacheSize),
		logger: log.DefaultLogger.With("section", log.SectionTypes),
	}
	for _, opt := range opts {
		opt(ctx)
	}
	return ctx
}

// NewEmptyTypeCtx is a TypeCtx that only knows about builtin classes
func NewEmptyTypeCtx(opts ...Option) *TypeCtx {
	return NewTypeCtx(NewTable(), opts...)
}

func (ctx *TypeCtx) Table() Table      { return ctx.table }
func (ctx *TypeCtx) Mode() RuntimeMode { return ctx.mode }

// cachedJudgements is the number of subtype results currently memoised
func (ctx *TypeCtx) cachedJudgements() int { return ctx.cache.len() }
