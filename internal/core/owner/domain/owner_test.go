package domain_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fintrackhq/fintrack/internal/core/owner/domain"
	"github.com/fintrackhq/fintrack/internal/shared/apperr"
	"github.com/fintrackhq/fintrack/pkg/money"
)

func TestNewOwner(t *testing.T) {
	t.Run("valid owner", func(t *testing.T) {
		owner, err := domain.NewOwner("  Ada Lovelace ", "Ada@Example.COM", "s3cret-pass", money.MustParse("150.00"))
		require.NoError(t, err)
		assert.Equal(t, "Ada Lovelace", owner.Name)
		assert.Equal(t, "ada@example.com", owner.Email)
		assert.NotEmpty(t, owner.PasswordHash)
		assert.NotEqual(t, "s3cret-pass", owner.PasswordHash)
		require.NoError(t, owner.CheckPassword("s3cret-pass"))
		require.Error(t, owner.CheckPassword("wrong"))
	})

	tests := []struct {
		name     string
		owner    string
		email    string
		password string
		wantKind apperr.Kind
	}{
		{"empty name", "   ", "a@b.io", "s3cret-pass", apperr.KindInvalidName},
		{"name too long", strings.Repeat("x", 101), "a@b.io", "s3cret-pass", apperr.KindInvalidName},
		{"bad email", "Ada", "not-an-email", "s3cret-pass", apperr.KindInvalidEmail},
		{"email too long", "Ada", strings.Repeat("a", 250) + "@b.io", "s3cret-pass", apperr.KindInvalidEmail},
		{"short password", "Ada", "a@b.io", "short", apperr.KindInvalidPassword},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := domain.NewOwner(tt.owner, tt.email, tt.password, money.MustParse("0"))
			require.Error(t, err)

			var list apperr.ValidationErrors
			require.ErrorAs(t, err, &list)
			assert.Contains(t, list.Kinds(), tt.wantKind)
		})
	}

	t.Run("initial balance scale", func(t *testing.T) {
		bad := money.MustParse("10").Div(money.MustParse("3"))
		_, err := domain.NewOwner("Ada", "a@b.io", "s3cret-pass", bad)
		require.Error(t, err)

		var list apperr.ValidationErrors
		require.ErrorAs(t, err, &list)
		assert.Contains(t, list.Kinds(), apperr.KindInvalidAmount)
	})
}
