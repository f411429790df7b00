package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTIssuer_Issue(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWTIssuer(secret)

	token, err := issuer.Issue("ops@example.com", "admin", time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "ops@example.com", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "devevents", claims.Issuer)
}

func TestJWTVerifier_Verify(t *testing.T) {
	valid, err := NewJWTIssuer("s3cret").Issue("ops", "admin", time.Hour)
	require.NoError(t, err)
	expired, err := NewJWTIssuer("s3cret").Issue("ops", "admin", -time.Minute)
	require.NoError(t, err)
	otherKey, err := NewJWTIssuer("other").Issue("ops", "admin", time.Hour)
	require.NoError(t, err)
	noneAlg, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwtClaims{Role: "admin"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		wantErr  bool
		wantSub  string
		wantRole string
	}{
		{name: "valid", token: valid, wantSub: "ops", wantRole: "admin"},
		{name: "expired", token: expired, wantErr: true},
		{name: "wrong secret", token: otherKey, wantErr: true},
		{name: "none algorithm", token: noneAlg, wantErr: true},
		{name: "garbage", token: "not.a.jwt", wantErr: true},
	}
	verifier := NewJWTVerifier("s3cret")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub, role, err := verifier.Verify(tt.token)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantSub, sub)
			assert.Equal(t, tt.wantRole, role)
		})
	}
}

func TestJWT_EmptySecret(t *testing.T) {
	_, err := NewJWTIssuer("").Issue("ops", "admin", time.Hour)
	require.Error(t, err)
	_, _, err = NewJWTVerifier("").Verify("x.y.z")
	require.Error(t, err)
}
