package longtail

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestScanCarriageReturnSeparated_SplitsOnBareCR(t *testing.T) {
	var got []string
	scanCarriageReturnSeparated(strings.NewReader("10%\r50%\r100%"), func(line string) {
		got = append(got, line)
	})
	require.Equal(t, []string{"10%", "50%", "100%"}, got)
}

func TestScanLinesLF_SplitsOnNewline(t *testing.T) {
	var got []string
	scanLinesLF(strings.NewReader("error: first\nerror: second\n"), func(line string) {
		got = append(got, line)
	})
	require.Equal(t, []string{"error: first", "error: second"}, got)
}
