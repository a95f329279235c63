package k8sservers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"sigs.k8s.io/controller-runtime/pkg/client/fake"
)

func newTestClient() *Client {
	scheme := NewScheme()
	fakeClient := fake.NewClientBuilder().WithScheme(scheme).Build()
	return NewClient(fakeClient, "game-servers")
}

func TestClient_CreateGetListDelete(t *testing.T) {
	c := newTestClient()
	ctx := context.Background()

	_, err := c.Create(ctx, "match-1", GameServerSpec{Project: "acme-game", Platform: "linux"})
	require.NoError(t, err)

	got, err := c.Get(ctx, "match-1")
	require.NoError(t, err)
	require.Equal(t, "acme-game", got.Spec.Project)

	list, err := c.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	require.NoError(t, c.Delete(ctx, "match-1"))
	_, err = c.Get(ctx, "match-1")
	require.Error(t, err)
}
