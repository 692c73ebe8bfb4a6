package identity

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/duotopia/backend/internal/config"
)

var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
)

// TokenPair is an access/refresh token pair returned on login and
// refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	ExpiresIn    int64
}

// TokenClaims is the decoded payload of a teacher session token. The
// authorization engine (internal/authz) works entirely in terms of
// TeacherID; it never reads role or domain off the token itself.
type TokenClaims struct {
	TeacherID uint
	Email     string
	Type      string // "access" or "refresh"
}

type teacherClaims struct {
	TeacherID uint   `json:"teacher_id"`
	Email     string `json:"email"`
	Type      string `json:"type"`
	jwt.RegisteredClaims
}

// JWTManager issues and validates teacher session tokens.
type JWTManager struct {
	secretKey            []byte
	accessTokenDuration  time.Duration
	refreshTokenDuration time.Duration
	issuer               string
}

// NewJWTManager constructs a JWTManager from cfg.
func NewJWTManager(cfg config.JWTConfig) *JWTManager {
	return &JWTManager{
		secretKey:            []byte(cfg.SecretKey),
		accessTokenDuration:  time.Duration(cfg.AccessTokenDuration) * time.Minute,
		refreshTokenDuration: time.Duration(cfg.RefreshTokenDuration) * time.Hour,
		issuer:               cfg.Issuer,
	}
}

// GenerateTokenPair mints an access and a refresh token for claims.
func (m *JWTManager) GenerateTokenPair(claims TokenClaims) (*TokenPair, error) {
	access, err := m.generateToken(claims, "access", m.accessTokenDuration)
	if err != nil {
		return nil, err
	}
	refresh, err := m.generateToken(claims, "refresh", m.refreshTokenDuration)
	if err != nil {
		return nil, err
	}
	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(m.accessTokenDuration.Seconds()),
	}, nil
}

func (m *JWTManager) generateToken(claims TokenClaims, tokenType string, duration time.Duration) (string, error) {
	now := time.Now()
	tc := teacherClaims{
		TeacherID: claims.TeacherID,
		Email:     claims.Email,
		Type:      tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Subject:   claims.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(duration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tc)
	return token.SignedString(m.secretKey)
}

// ValidateToken parses and validates tokenString, of either type.
func (m *JWTManager) ValidateToken(tokenString string) (*TokenClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &teacherClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenInvalid
		}
		return m.secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		if errors.Is(err, jwt.ErrTokenMalformed) {
			return nil, ErrTokenMalformed
		}
		return nil, ErrTokenInvalid
	}

	claims, ok := token.Claims.(*teacherClaims)
	if !ok || !token.Valid {
		return nil, ErrTokenInvalid
	}

	return &TokenClaims{
		TeacherID: claims.TeacherID,
		Email:     claims.Email,
		Type:      claims.Type,
	}, nil
}

// ValidateAccessToken validates tokenString and rejects refresh tokens.
func (m *JWTManager) ValidateAccessToken(tokenString string) (*TokenClaims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != "access" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

// ValidateRefreshToken validates tokenString and rejects access tokens.
func (m *JWTManager) ValidateRefreshToken(tokenString string) (*TokenClaims, error) {
	claims, err := m.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}
	if claims.Type != "refresh" {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}
