package cmd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCommand struct {
	name     string
	aliases  []string
	category string
}

func (c *stubCommand) Name() string            { return c.name }
func (c *stubCommand) Description() string     { return "stub" }
func (c *stubCommand) Aliases() []string       { return c.aliases }
func (c *stubCommand) Usage() string           { return c.name }
func (c *stubCommand) Group() string           { return "stub" }
func (c *stubCommand) Category() string        { return c.category }
func (c *stubCommand) AdminOnly() bool         { return false }
func (c *stubCommand) GuildOnly() bool         { return false }
func (c *stubCommand) Cooldown() time.Duration { return 0 }

func TestRegistryResolve(t *testing.T) {
	r := NewRegistry()
	ping := &stubCommand{name: "Ping", aliases: []string{"P", "pong"}}
	r.Register(ping)

	t.Run("name and aliases resolve to the same instance", func(t *testing.T) {
		for _, key := range []string{"ping", "PING", "p", "PONG"} {
			got, ok := r.Resolve(key)
			require.True(t, ok, "key %q", key)
			assert.Same(t, ping, got, "key %q", key)
		}
	})

	t.Run("unknown key misses", func(t *testing.T) {
		_, ok := r.Resolve("nope")
		assert.False(t, ok)
	})
}

func TestRegistryLastWriteWins(t *testing.T) {
	r := NewRegistry()
	first := &stubCommand{name: "roll", aliases: []string{"dice"}}
	second := &stubCommand{name: "roll"}
	r.RegisterAll(first, second)

	got, ok := r.Resolve("roll")
	require.True(t, ok)
	assert.Same(t, second, got)

	canonical := r.Canonical()
	names := make(map[string]int)
	for _, c := range canonical {
		names[c.Name()]++
	}
	assert.Equal(t, 1, names["roll"], "only the winning definition is canonical")
}

func TestRegistryByCategory(t *testing.T) {
	r := NewRegistry()
	a := &stubCommand{name: "a", category: "fun"}
	b := &stubCommand{name: "b", aliases: []string{"bee"}, category: "fun"}
	c := &stubCommand{name: "c", category: "info"}
	r.RegisterAll(a, b, c)

	fun := r.ByCategory("fun")
	require.Len(t, fun, 2, "aliases must not duplicate entries")
	assert.Same(t, a, fun[0])
	assert.Same(t, b, fun[1])

	assert.Empty(t, r.ByCategory("missing"))
}

func TestChainOrder(t *testing.T) {
	c := &stubCommand{name: "x"}
	var trace []string

	mw := func(label string) Middleware {
		return func(_ Command, next Runner) Runner {
			return func(ctx context.Context, inv *Invocation) error {
				trace = append(trace, label)
				return next(ctx, inv)
			}
		}
	}
	base := func(ctx context.Context, inv *Invocation) error {
		trace = append(trace, "run")
		return nil
	}

	runner := Chain(c, base, mw("outer"), mw("inner"))
	require.NoError(t, runner(context.Background(), &Invocation{}))
	assert.Equal(t, []string{"outer", "inner", "run"}, trace)
}
