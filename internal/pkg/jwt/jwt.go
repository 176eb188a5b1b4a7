package jwt

import (
	"errors"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
)

const PurposeActivation = "activation"

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrWrongPurpose = errors.New("token issued for another purpose")
)

type Service struct {
	secret        []byte
	ttl           time.Duration
	activationTTL time.Duration
}

type Claims struct {
	UserID  int64  `json:"user_id"`
	Role    string `json:"role,omitempty"`
	Purpose string `json:"purpose,omitempty"`
	jwtlib.RegisteredClaims
}

func New(secret string, ttl time.Duration) *Service {
	return &Service{
		secret:        []byte(secret),
		ttl:           ttl,
		activationTTL: 72 * time.Hour,
	}
}

func (s *Service) WithActivationTTL(ttl time.Duration) *Service {
	if ttl > 0 {
		s.activationTTL = ttl
	}
	return s
}

// GenerateToken issues an access token.
func (s *Service) GenerateToken(userID int64, role string) (string, error) {
	return s.sign(Claims{UserID: userID, Role: role}, s.ttl)
}

// GenerateActivationToken issues a token that only confirms a registration.
func (s *Service) GenerateActivationToken(userID int64) (string, error) {
	return s.sign(Claims{UserID: userID, Purpose: PurposeActivation}, s.activationTTL)
}

// ValidateToken accepts access tokens only.
func (s *Service) ValidateToken(tokenStr string) (*Claims, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return nil, err
	}
	if claims.Purpose != "" {
		return nil, ErrWrongPurpose
	}
	return claims, nil
}

func (s *Service) ValidateActivationToken(tokenStr string) (int64, error) {
	claims, err := s.parse(tokenStr)
	if err != nil {
		return 0, err
	}
	if claims.Purpose != PurposeActivation {
		return 0, ErrWrongPurpose
	}
	return claims.UserID, nil
}

func (s *Service) sign(claims Claims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims.RegisteredClaims = jwtlib.RegisteredClaims{
		ExpiresAt: jwtlib.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwtlib.NewNumericDate(now),
	}

	token := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

func (s *Service) parse(tokenStr string) (*Claims, error) {
	token, err := jwtlib.ParseWithClaims(tokenStr, &Claims{}, func(t *jwtlib.Token) (any, error) {
		return s.secret, nil
	}, jwtlib.WithValidMethods([]string{jwtlib.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
