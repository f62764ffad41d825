package httpapi_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/httpapi"
	"github.com/AntonStoeckl/cyclerental-dcb-go/rental/shared/core"
)

func Test_ParseToken_Success(t *testing.T) {
	// arrange
	token, err := httpapi.IssueToken([]byte(jwtSecret), "G1", core.RoleGuard, time.Hour, fakeClock)
	require.NoError(t, err)

	// act
	claims, err := httpapi.ParseToken([]byte(jwtSecret), token, fakeClock.Add(time.Minute))

	// assert
	require.NoError(t, err)
	assert.Equal(t, "G1", claims.Subject)
	assert.Equal(t, core.RoleGuard, claims.Role)
}

func Test_ParseToken_Error_Expired(t *testing.T) {
	token, err := httpapi.IssueToken([]byte(jwtSecret), "G1", core.RoleGuard, time.Hour, fakeClock)
	require.NoError(t, err)

	_, err = httpapi.ParseToken([]byte(jwtSecret), token, fakeClock.Add(2*time.Hour))

	assert.ErrorIs(t, err, httpapi.ErrInvalidToken)
}

func Test_ParseToken_Error_WrongAlgorithm(t *testing.T) {
	// arrange
	claims := httpapi.Claims{
		Role: core.RoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "A1",
			ExpiresAt: jwt.NewNumericDate(fakeClock.Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(jwtSecret))
	require.NoError(t, err)

	// act
	_, err = httpapi.ParseToken([]byte(jwtSecret), token, fakeClock)

	// assert
	assert.ErrorIs(t, err, httpapi.ErrInvalidToken)
}

func Test_NewServer_Error_MissingSecret(t *testing.T) {
	_, err := httpapi.NewServer(httpapi.Handlers{}, "")

	assert.ErrorIs(t, err, httpapi.ErrMissingJWTSecret)
}
