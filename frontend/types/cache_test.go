package types

import (
	"sync"
	"testing"

	"github.com/cottand/variance/frontend/ast"
	"github.com/stretchr/testify/assert"
)

func TestSubtypeCache(t *testing.T) {
	a := NewClass("A", false, nil)
	b := NewClass("B", false, nil, Apply(a))
	box := NewClass("Box", false, []*TypeParameter{NewTypeParameter("T", ast.Producer, nil)})
	ctx := NewTypeCtx(NewTable().WithClass(a).WithClass(b).WithClass(box), WithCacheSize(2))

	assert.Equal(t, 0, ctx.cachedJudgements())
	assert.True(t, ctx.IsSubtype(Apply(box, Arg(Apply(b))), Apply(box, Arg(Apply(a)))))
	// the nested judgement B <: A is cached as well
	assert.Equal(t, 2, ctx.cachedJudgements())

	assert.True(t, ctx.IsSubtype(Apply(b), Apply(a)))
	assert.False(t, ctx.IsSubtype(Apply(a), Apply(b)))
	assert.Equal(t, 2, ctx.cachedJudgements(), "the cache is bounded")

	assert.False(t, ctx.IsAssignable(Apply(a), Apply(b)))
	assert.True(t, ctx.IsAssignable(Apply(b), Apply(a)))
}

func TestSubtypeCacheDisabled(t *testing.T) {
	ctx := NewEmptyTypeCtx(WithCacheSize(0))
	assert.True(t, ctx.IsSubtype(Bottom, Top))
	assert.Equal(t, 0, ctx.cachedJudgements())

	var nilCache *subtypeCache
	nilCache.put(subtypeKey{l: 1, r: 2}, true)
	_, ok := nilCache.get(subtypeKey{l: 1, r: 2})
	assert.False(t, ok)
}

func TestSubtypeKeyIsOrdered(t *testing.T) {
	a := NewClass("A", false, nil)
	b := NewClass("B", false, nil, Apply(a))
	ctx := NewTypeCtx(NewTable().WithClass(a).WithClass(b))

	assert.True(t, ctx.IsSubtype(Apply(b), Apply(a)))
	assert.False(t, ctx.IsSubtype(Apply(a), Apply(b)), "a cached B <: A must not answer A <: B")
}

func TestConcurrentJudgements(t *testing.T) {
	a := NewClass("A", false, nil)
	b := NewClass("B", false, nil, Apply(a))
	c := NewClass("C", true, nil, Apply(b))
	box := NewClass("Box", false, []*TypeParameter{NewTypeParameter("T", ast.Consumer, nil)})
	ctx := NewTypeCtx(NewTable().WithClass(a).WithClass(b).WithClass(c).WithClass(box), WithCacheSize(8))

	nominals := []Type{Apply(a), Apply(b), Apply(c)}
	var wg sync.WaitGroup
	for worker := 0; worker < 16; worker++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				x, y := nominals[(worker+i)%3], nominals[i%3]
				want := ctx.IsSubtype(y, x)
				if got := ctx.IsSubtype(Apply(box, Arg(x)), Apply(box, Arg(y))); got != want {
					t.Errorf("Box<%s> <: Box<%s> = %t, expected %t", x, y, got, want)
				}
			}
		}()
	}
	wg.Wait()
}
