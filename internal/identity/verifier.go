package identity

import (
	"errors"
	"log"
	"os"

	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidToken = errors.New("access token is invalid")
	ErrExpiredToken = errors.New("access token is expired")
)

type TokenVerifier interface {
	// VerifyAccessToken checks a provider-issued token and returns its
	// subject (the user identifier).
	VerifyAccessToken(tokenString string) (string, error)
	// Claims extracts the profile claims the provider embeds in the token.
	Claims(tokenString string) (*ProviderClaims, error)
}

// ProviderClaims is the subset of the identity provider's token payload the
// app cares about.
type ProviderClaims struct {
	Email   string `json:"email"`
	Name    string `json:"name"`
	Picture string `json:"picture"`
	jwt.StandardClaims
}

// HSVerifier validates the provider's HS256-signed access tokens with the
// shared project secret. No tokens are ever issued here.
type HSVerifier struct {
	secret string
}

func NewHSVerifier() *HSVerifier {
	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatalf("JWT_SECRET is not set in .env file")
	}
	return &HSVerifier{secret: jwtSecret}
}

func (v *HSVerifier) parse(tokenString string) (*ProviderClaims, error) {
	claims := &ProviderClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(v.secret), nil
	})
	if err != nil {
		var validationError *jwt.ValidationError
		if errors.As(err, &validationError) && validationError.Errors&jwt.ValidationErrorExpired != 0 {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (v *HSVerifier) VerifyAccessToken(tokenString string) (string, error) {
	claims, err := v.parse(tokenString)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func (v *HSVerifier) Claims(tokenString string) (*ProviderClaims, error) {
	return v.parse(tokenString)
}
