package longtail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBootstrap_RefusesUnpinnedURL(t *testing.T) {
	_, err := Bootstrap(context.Background(), "https://example.com/longtail-unknown", t.TempDir())
	require.Error(t, err)
	require.Contains(t, err.Error(), "unpinned")
}
