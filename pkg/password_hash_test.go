package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	passwordHash, err := HashPassword("admin123")
	require.NoError(t, err)
	assert.NotEmpty(t, passwordHash)
	assert.True(t, CheckPasswordHash("admin123", passwordHash))
	assert.False(t, CheckPasswordHash("admin124", passwordHash))
	assert.False(t, CheckPasswordHash("admin123", "not-a-hash"))
}
