package http

import (
	"errors"
	"testing"

	"trivia-quiz-service/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthenticatorPlayer(t *testing.T) {
	auth := NewAuthenticator(testSecret)
	alice := domain.Player{ID: "u1", Name: "Alice", Email: "alice@example.com"}

	p, err := auth.Player("")
	require.NoError(t, err)
	assert.False(t, p.Authenticated())

	p, err = auth.Player(signToken(t, testSecret, alice))
	require.NoError(t, err)
	assert.Equal(t, alice, p)

	_, err = auth.Player(signToken(t, "other-secret", alice))
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))

	_, err = auth.Player(signToken(t, testSecret, domain.Player{Name: "No ID"}))
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))

	_, err = NewAuthenticator("").Player(signToken(t, testSecret, alice))
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestBearerToken(t *testing.T) {
	tok, err := bearerToken("Bearer abc")
	require.NoError(t, err)
	assert.Equal(t, "abc", tok)

	tok, err = bearerToken("")
	require.NoError(t, err)
	assert.Empty(t, tok)

	_, err = bearerToken("Basic abc")
	assert.True(t, errors.Is(err, domain.ErrUnauthenticated))
}

func TestStatusFor(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{domain.ErrInvalidInput, 400},
		{domain.ErrUnauthenticated, 401},
		{domain.ErrCategoryNotFound, 404},
		{domain.ErrQuestionNotFound, 404},
		{domain.ErrResultNotFound, 404},
		{domain.ErrIllegalTransition, 409},
		{errors.New("boom"), 500},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, statusFor(tc.err), tc.err.Error())
	}
}
