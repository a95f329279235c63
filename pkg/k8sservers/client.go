package k8sservers

import (
	"context"
	"fmt"

	"k8s.io/apimachinery/pkg/runtime"
	ctrlclient "sigs.k8s.io/controller-runtime/pkg/client"
)

// Client wraps a controller-runtime client.Client scoped to one namespace.
type Client struct {
	c         ctrlclient.Client
	namespace string
}

// NewClient constructs a Client. scheme must have GameServer/GameServerList
// registered via AddToScheme.
func NewClient(c ctrlclient.Client, namespace string) *Client {
	return &Client{c: c, namespace: namespace}
}

// NewScheme builds a fresh runtime.Scheme with GameServer types registered,
// for callers wiring up their own controller-runtime client.
func NewScheme() *runtime.Scheme {
	scheme := runtime.NewScheme()
	AddToScheme(scheme)
	return scheme
}

// List returns every GameServer in the configured namespace.
func (c *Client) List(ctx context.Context) ([]GameServer, error) {
	var list GameServerList
	if err := c.c.List(ctx, &list, ctrlclient.InNamespace(c.namespace)); err != nil {
		return nil, fmt.Errorf("k8sservers: listing: %w", err)
	}
	return list.Items, nil
}

// Get returns the named GameServer.
func (c *Client) Get(ctx context.Context, name string) (*GameServer, error) {
	var gs GameServer
	key := ctrlclient.ObjectKey{Namespace: c.namespace, Name: name}
	if err := c.c.Get(ctx, key, &gs); err != nil {
		return nil, fmt.Errorf("k8sservers: getting %q: %w", name, err)
	}
	return &gs, nil
}

// Create requests a new GameServer. The remote controller owns all
// lifecycle decisions from here; this call only submits the request.
func (c *Client) Create(ctx context.Context, name string, spec GameServerSpec) (*GameServer, error) {
	gs := &GameServer{
		Spec: spec,
	}
	gs.Name = name
	gs.Namespace = c.namespace
	if err := c.c.Create(ctx, gs); err != nil {
		return nil, fmt.Errorf("k8sservers: creating %q: %w", name, err)
	}
	return gs, nil
}

// Delete requests deletion of the named GameServer.
func (c *Client) Delete(ctx context.Context, name string) error {
	gs := &GameServer{}
	gs.Name = name
	gs.Namespace = c.namespace
	if err := c.c.Delete(ctx, gs); err != nil {
		return fmt.Errorf("k8sservers: deleting %q: %w", name, err)
	}
	return nil
}
