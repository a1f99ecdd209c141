package security

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTempPasswordShape(t *testing.T) {
	for i := 0; i < 50; i++ {
		pw, err := TempPassword()
		require.NoError(t, err)

		assert.Len(t, pw, tempAlnumLen+tempNumericLen+len(tempSuffix))
		assert.True(t, strings.HasSuffix(pw, tempSuffix))

		digits := 0
		for _, c := range pw[:len(pw)-len(tempSuffix)] {
			switch {
			case c >= '0' && c <= '9':
				digits++
			case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
			default:
				t.Fatalf("unexpected character %q in %q", c, pw)
			}
		}
		assert.GreaterOrEqual(t, digits, tempNumericLen)
	}
}

func TestTempPasswordIsRandom(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		pw, err := TempPassword()
		require.NoError(t, err)
		assert.False(t, seen[pw], "generated a duplicate password")
		seen[pw] = true
	}
}
