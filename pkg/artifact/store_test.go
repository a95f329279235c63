package artifact

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, root, key string, mtime time.Time) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(key))
	require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
	require.NoError(t, os.WriteFile(full, []byte("x"), 0o644))
	require.NoError(t, os.Chtimes(full, mtime, mtime))
}

func TestStore_ListAndGetByShortSHA(t *testing.T) {
	root := t.TempDir()
	older := time.Now().Add(-time.Hour)
	newer := time.Now()
	writeFixture(t, root, "v1/acme-game/client/win64/shipping/deadbeefdeadbeefdeadbeefdeadbeefdeadbeef.zip", older)
	writeFixture(t, root, "v1/acme-game/client/win64/shipping/cafecafecafecafecafecafecafecafecafecafe.zip", newer)

	store := NewStore(NewFSProvider(root))
	entries, err := store.List(context.Background(), "Acme", "Game", KindClient, PlatformWin64, ConfigShipping)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "cafecafecafecafecafecafecafecafecafecafe", entries[0].Commit, "most recent first")

	e, err := store.GetByShortSHA(context.Background(), "Acme", "Game", KindClient, PlatformWin64, ConfigShipping, "deadbeef")
	require.NoError(t, err)
	require.Equal(t, "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef", e.Commit)
}

func TestStore_GetByShortSHA_Ambiguous(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	writeFixture(t, root, "v1/acme-game/client/win64/shipping/deadbeef11deadbeefdeadbeefdeadbeefdead11.zip", now)
	writeFixture(t, root, "v1/acme-game/client/win64/shipping/deadbeef22deadbeefdeadbeefdeadbeefdead22.zip", now)

	store := NewStore(NewFSProvider(root))
	_, err := store.GetByShortSHA(context.Background(), "Acme", "Game", KindClient, PlatformWin64, ConfigShipping, "deadbeef")
	require.ErrorIs(t, err, ErrAmbiguous)
}

func TestStore_GetByShortSHA_NotFound(t *testing.T) {
	store := NewStore(NewFSProvider(t.TempDir()))
	_, err := store.GetByShortSHA(context.Background(), "Acme", "Game", KindClient, PlatformWin64, ConfigShipping, "deadbeef")
	require.ErrorIs(t, err, ErrNotFound)
}

// Invariant 6 (spec.md §8): a key's commit suffix parses in both its 8- and
// 40-hex-char forms, and a non-hex basename yields no commit.
func TestParseCommit_FilenameSuffixParsing(t *testing.T) {
	require.Equal(t, "deadbeef", parseCommit("v1/a-b/client/win64/shipping/deadbeef.zip"))
	require.Equal(t, "deadbeefdeadbeefdeadbeefdeadbeefdeadbeef", parseCommit("v1/a-b/client/win64/shipping/deadbeefdeadbeefdeadbeefdeadbeefdeadbeef.zip"))
	require.Equal(t, "", parseCommit("v1/a-b/client/win64/shipping/notahexsuffix.zip"))
}

func TestNewestReachableSHA_PicksFirstPresentCandidate(t *testing.T) {
	root := t.TempDir()
	now := time.Now()
	writeFixture(t, root, "v1/acme-game/engine/win64/shipping/cafecafecafecafecafecafecafecafecafecafe.zip", now)

	provider := NewFSProvider(root)
	prefix := NewStore(provider).Prefix("Acme", "Game", KindEngine, PlatformWin64, ConfigShipping)

	sha, found, err := NewestReachableSHA(context.Background(), provider, prefix, []string{
		"1111111111111111111111111111111111111111",
		"cafecafecafecafecafecafecafecafecafecafe",
	})
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "cafecafecafecafecafecafecafecafecafecafe", sha)
}
