package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type RefreshClaims struct {
	Type string `json:"typ"`
	jwt.RegisteredClaims
}

// SignRefreshToken returns the signed token and its jti.
func SignRefreshToken(userID string, exp time.Time, secret []byte) (string, string, error) {
	jti := NewJTI()
	claims := RefreshClaims{
		Type: TypeRefresh,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        jti,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		return "", "", err
	}
	return signed, jti, nil
}

func RefreshClaimsFromToken(tokenStr string, refreshSecret []byte) (*RefreshClaims, error) {
	var claims RefreshClaims
	tkn, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected sign method")
		}
		return refreshSecret, nil
	})
	if err != nil {
		return nil, err
	}
	if !tkn.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Type != TypeRefresh {
		return nil, ErrWrongTokenType
	}
	return &claims, nil
}
