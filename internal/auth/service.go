package auth

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"nutrition-coach/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
	ErrMissingClaim = errors.New("invalid token: nutritionist_id missing")
)

const nutritionistClaim = "nutritionist_id"

type Service struct {
	secret    []byte
	expiresIn time.Duration
	now       func() time.Time
}

func NewService(cfg config.JWTConfig) *Service {
	return &Service{
		secret:    cfg.Secret,
		expiresIn: cfg.ExpiresIn,
		now:       time.Now,
	}
}

func (s *Service) ValidateToken(tokenString string) (jwt.MapClaims, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(s.now))

	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	return claims, nil
}

// NutritionistID extracts the nutritionist identity from a validated token.
// The claim may be encoded as a JSON number or a numeric string.
func (s *Service) NutritionistID(tokenString string) (int, error) {
	claims, err := s.ValidateToken(tokenString)
	if err != nil {
		return 0, err
	}

	raw, ok := claims[nutritionistClaim]
	if !ok || raw == nil {
		return 0, ErrMissingClaim
	}

	var id int
	switch v := raw.(type) {
	case float64:
		id = int(v)
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, ErrMissingClaim
		}
		id = n
	default:
		return 0, ErrMissingClaim
	}

	// Ids start at 1; zero marks an account without a nutritionist.
	if id <= 0 {
		return 0, ErrMissingClaim
	}
	return id, nil
}

// NutritionistIDFromRequest reads the Authorization bearer header.
func (s *Service) NutritionistIDFromRequest(r *http.Request) (int, error) {
	tokenString, err := BearerToken(r)
	if err != nil {
		return 0, err
	}
	return s.NutritionistID(tokenString)
}

func BearerToken(r *http.Request) (string, error) {
	header := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// GenerateToken mints a token for local development. Production tokens are
// issued by the account service.
func (s *Service) GenerateToken(nutritionistID int) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		nutritionistClaim: nutritionistID,
		"exp":             now.Add(s.expiresIn).Unix(),
		"iat":             now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}
