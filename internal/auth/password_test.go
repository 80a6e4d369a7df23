package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_SaltedAndVerifiable(t *testing.T) {
	first, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)
	second, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	assert.NotEqual(t, "s3cret", first)
	assert.NotEqual(t, first, second)
	assert.True(t, ComparePassword(first, "s3cret"))
	assert.True(t, ComparePassword(second, "s3cret"))
}

func TestHashPassword_Cost(t *testing.T) {
	tests := []struct {
		name string
		cost int
		want int
	}{
		{"min", bcrypt.MinCost, bcrypt.MinCost},
		{"explicit", 5, 5},
		{"below range", 0, bcrypt.DefaultCost},
		{"above range", bcrypt.MaxCost + 1, bcrypt.DefaultCost},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.want == bcrypt.DefaultCost && testing.Short() {
				t.Skip("default cost is slow")
			}
			hash, err := HashPassword("pw", tt.cost)
			require.NoError(t, err)
			cost, err := bcrypt.Cost([]byte(hash))
			require.NoError(t, err)
			assert.Equal(t, tt.want, cost)
		})
	}
}

func TestHashPassword_TooLong(t *testing.T) {
	_, err := HashPassword(strings.Repeat("a", MaxPasswordBytes), bcrypt.MinCost)
	require.NoError(t, err)

	_, err = HashPassword(strings.Repeat("a", MaxPasswordBytes+1), bcrypt.MinCost)
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestComparePassword(t *testing.T) {
	hash, err := HashPassword("s3cret", bcrypt.MinCost)
	require.NoError(t, err)

	tests := []struct {
		name     string
		hash     string
		password string
		want     bool
	}{
		{"match", hash, "s3cret", true},
		{"wrong password", hash, "s3cret!", false},
		{"empty password", hash, "", false},
		{"malformed hash", "not-a-bcrypt-hash", "s3cret", false},
		{"empty hash", "", "s3cret", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComparePassword(tt.hash, tt.password))
		})
	}
}
