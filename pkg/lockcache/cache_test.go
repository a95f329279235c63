package lockcache

import (
	"context"
	"testing"

	"github.com/ethos-core/ethos-core/internal/testutil"
	"github.com/ethos-core/ethos-core/pkg/gitcli"
	"github.com/stretchr/testify/require"
)

func TestPopulate_KeySetMatchesOursUnionTheirs(t *testing.T) {
	v := &testutil.FakeLockVerifier{Result: &gitcli.LockVerifyResult{
		Ours: []gitcli.Lock{
			{Path: "a.uasset"},
		},
		Theirs: []gitcli.Lock{
			{Path: "b.uasset"},
		},
	}}
	c := New(v)
	require.NoError(t, c.Populate(context.Background(), "me"))

	_, ok := c.Get("a.uasset")
	require.True(t, ok)
	_, ok = c.Get("b.uasset")
	require.True(t, ok)
	_, ok = c.Get("c.uasset")
	require.False(t, ok)
}

func TestPopulate_OursBitMatchesOwnerLogin(t *testing.T) {
	locked := gitcli.Lock{Path: "a.uasset"}
	v := &testutil.FakeLockVerifier{Result: &gitcli.LockVerifyResult{Ours: []gitcli.Lock{locked}}}
	c := New(v)
	require.NoError(t, c.Populate(context.Background(), "me"))

	e, ok := c.Get("a.uasset")
	require.True(t, ok)
	require.Equal(t, locked.OwnerLogin() == "me", e.Ours)
}

func TestPopulate_ReplacesPreviousContents(t *testing.T) {
	v := &testutil.FakeLockVerifier{Result: &gitcli.LockVerifyResult{Ours: []gitcli.Lock{{Path: "a.uasset"}}}}
	c := New(v)
	require.NoError(t, c.Populate(context.Background(), "me"))

	v.Result = &gitcli.LockVerifyResult{Ours: []gitcli.Lock{{Path: "b.uasset"}}}
	require.NoError(t, c.Populate(context.Background(), "me"))

	_, ok := c.Get("a.uasset")
	require.False(t, ok, "stale entry from previous populate should be gone")
	_, ok = c.Get("b.uasset")
	require.True(t, ok)
}
