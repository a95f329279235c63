package artifact

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseKind_RejectsUnknown(t *testing.T) {
	k, err := ParseKind("client")
	require.NoError(t, err)
	require.Equal(t, KindClient, k)

	_, err = ParseKind("bogus")
	require.Error(t, err)
}

func TestParseBuildConfig_RejectsUnknown(t *testing.T) {
	_, err := ParseBuildConfig("nightly")
	require.Error(t, err)
}

func TestParsePlatform_RejectsUnknown(t *testing.T) {
	_, err := ParsePlatform("xbox")
	require.Error(t, err)
}
