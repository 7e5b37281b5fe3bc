package utils

import (
	"errors"
	"net/url"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	callbackAudience = "mpesa-callback"
	callbackIssuer   = "mirage-checkout"
	callbackTokenTTL = 72 * time.Hour
)

// CreateCallbackToken signs a short lived token that is appended to the
// callback URL handed to the gateway.
func CreateCallbackToken(secret string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Issuer:    callbackIssuer,
		Audience:  jwt.ClaimStrings{callbackAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(callbackTokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

func ValidateCallbackToken(tokenString, secret string) error {
	if tokenString == "" {
		return ErrInvalidCallbackToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithAudience(callbackAudience),
		jwt.WithIssuer(callbackIssuer),
	)
	if err != nil {
		return errors.Join(ErrInvalidCallbackToken, err)
	}
	if !token.Valid {
		return ErrInvalidCallbackToken
	}
	return nil
}

// SignedCallbackURL appends ?token=... to rawURL. An empty secret leaves the URL untouched.
func SignedCallbackURL(rawURL, secret string) (string, error) {
	if secret == "" {
		return rawURL, nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	token, err := CreateCallbackToken(secret)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("token", token)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
