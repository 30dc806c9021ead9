package passhash

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyRoundTrip(t *testing.T) {
	passwords := []string{
		"abcde",
		"correct horse battery staple",
		"пароль-с-юникодом",
		strings.Repeat("x", 60),
	}

	for i, password := range passwords {
		t.Run(strconv.Itoa(i), func(t *testing.T) {
			hashed, err := Hash(password)
			require.NoError(t, err)
			require.NotEmpty(t, hashed)
			assert.NotEqual(t, password, hashed)

			assert.True(t, Verify(password, hashed))
			assert.False(t, Verify(password+"!", hashed))
			assert.False(t, Verify("", hashed))
		})
	}
}

func TestLongPasswordsHashAndVerify(t *testing.T) {
	password := strings.Repeat("x", 100)

	hashed, err := Hash(password)
	require.NoError(t, err)
	assert.True(t, Verify(password, hashed))

	// A change within the significant prefix is detected.
	assert.False(t, Verify("y"+password[1:], hashed))

	// Only the first 72 bytes of the password are significant, matching
	// the previous deployment.
	assert.True(t, Verify(password[:72], hashed))
	assert.True(t, Verify(password+"suffix", hashed))
}

func TestHashIsSalted(t *testing.T) {
	first, err := Hash("abcde")
	require.NoError(t, err)

	second, err := Hash("abcde")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestVerifyMalformedStoredHash(t *testing.T) {
	assert.False(t, Verify("abcde", ""))
	assert.False(t, Verify("abcde", "not-a-bcrypt-hash"))
	assert.False(t, Verify("abcde", "$2a$garbage"))
}
