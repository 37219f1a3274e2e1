package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/fivetwenty-io/opsapi/internal/auth"
	"github.com/fivetwenty-io/opsapi/internal/constants"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticTokenManager(t *testing.T) {
	t.Parallel()

	manager := auth.NewStaticTokenManager("abc123")

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "abc123", token)

	err = manager.RefreshToken(context.Background())
	require.ErrorIs(t, err, constants.ErrStaticTokenCannotRefresh)

	manager.SetToken("def456", time.Time{})

	token, err = manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "def456", token)
}

func TestStaticTokenManager_Empty(t *testing.T) {
	t.Parallel()

	var manager auth.TokenManager = auth.NewStaticTokenManager("")

	token, err := manager.GetToken(context.Background())
	require.NoError(t, err)
	assert.Empty(t, token)
}
