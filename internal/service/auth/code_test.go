package auth

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_GenerateCode(t *testing.T) {
	t.Parallel()

	// Random output, so sample a bunch
	for range 100 {
		code, err := generateCode()
		require.NoError(t, err)

		require.Len(t, code, 6, "code should always be 6 digits")

		n, err := strconv.Atoi(code)
		require.NoError(t, err, "code should be numeric")
		require.GreaterOrEqual(t, n, 100000)
		require.LessOrEqual(t, n, 999999)
	}
}
