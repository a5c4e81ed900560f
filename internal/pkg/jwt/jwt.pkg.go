package jwt

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	types "refund-relay/internal/common/type"
	"refund-relay/internal/pkg/helper"
	"refund-relay/internal/pkg/logger"
	"refund-relay/internal/pkg/validation"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AdminDataKey = "admin_data"

	tokenDuration = 12 * time.Hour
)

var ErrInvalidToken = errors.New("invalid token")

func getJWTSecret() []byte {
	secret := helper.GetEnv("JWT_SECRET")
	if secret == "" {
		logger.Warning.Println("JWT_SECRET not found, using default secret")
		secret = "$d3f4uIt_s3cr3t_key#"
	}
	return []byte(secret)
}

func GenerateToken(data types.AdminWithAuth) (string, *time.Time, error) {
	exp := time.Now().Add(tokenDuration)

	claims := jwt.MapClaims{
		"exp":        exp.Unix(),
		"sub":        data.Subject,
		AdminDataKey: data,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signedToken, err := token.SignedString(getJWTSecret())
	if err != nil {
		return "", nil, fmt.Errorf("sign token: %w", err)
	}

	return signedToken, &exp, nil
}

// ValidateToken accepts a raw token or an "Authorization: Bearer" value.
func ValidateToken(jwtToken string) (*types.AdminWithAuth, error) {
	jwtToken = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(jwtToken), "Bearer "))

	token, err := jwt.Parse(jwtToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return getJWTSecret(), nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims[AdminDataKey] == nil {
		return nil, fmt.Errorf("%w: admin data not found in claims", ErrInvalidToken)
	}

	raw, err := json.Marshal(claims[AdminDataKey])
	if err != nil {
		return nil, fmt.Errorf("error marshalling admin data: %w", err)
	}

	var admin types.AdminWithAuth
	if err := json.Unmarshal(raw, &admin); err != nil {
		return nil, fmt.Errorf("error unmarshalling admin data: %w", err)
	}

	if err := validation.Validate(admin); err != nil {
		return nil, err
	}

	return &admin, nil
}
