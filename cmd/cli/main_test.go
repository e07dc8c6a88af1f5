package main

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/amirasaad/cinema/internal/fixtures"
	"github.com/amirasaad/cinema/pkg/config"
	"github.com/amirasaad/cinema/pkg/domain/user"
	usersvc "github.com/amirasaad/cinema/pkg/service/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExecute(t *testing.T) {
	ctx := context.Background()
	svc := usersvc.New(fixtures.NewUnitOfWork(), nil, &config.Media{}, fixtures.Logger())
	_, err := svc.Register(ctx, "ops@example.com", "password123", "Ops")
	require.NoError(t, err)
	noMigrate := func() error { return nil }

	t.Run("promote", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, execute(ctx, []string{"promote", "ops@example.com"}, svc, noMigrate, &out))
		assert.Contains(t, out.String(), "admin=true")
	})

	t.Run("demote", func(t *testing.T) {
		var out bytes.Buffer
		require.NoError(t, execute(ctx, []string{"demote", "ops@example.com"}, svc, noMigrate, &out))
		assert.Contains(t, out.String(), "admin=false")
	})

	t.Run("unknown user", func(t *testing.T) {
		err := execute(ctx, []string{"promote", "ghost@example.com"}, svc, noMigrate, &bytes.Buffer{})
		assert.ErrorIs(t, err, user.ErrUserNotFound)
	})

	t.Run("missing email", func(t *testing.T) {
		assert.Error(t, execute(ctx, []string{"promote"}, svc, noMigrate, &bytes.Buffer{}))
	})

	t.Run("migrate", func(t *testing.T) {
		var out bytes.Buffer
		called := false
		require.NoError(t, execute(ctx, []string{"migrate"}, svc, func() error { called = true; return nil }, &out))
		assert.True(t, called)

		boom := errors.New("boom")
		assert.ErrorIs(t, execute(ctx, []string{"migrate"}, svc, func() error { return boom }, &out), boom)
	})

	t.Run("unknown command", func(t *testing.T) {
		assert.ErrorIs(t, execute(ctx, []string{"withdraw"}, svc, noMigrate, &bytes.Buffer{}), errUsage)
	})
}
