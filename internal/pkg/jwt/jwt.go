package jwt

import (
	"errors"
	"net/http"
	"time"

	"github.com/dayflow-hr/dayflow-backend/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
	"github.com/lestrrat-go/jwx/v2/jwt"
)

// CookieName is the HttpOnly cookie carrying the access token.
const CookieName = "token"

const tokenTypeAccess = "access"

var ErrInvalidClaims = errors.New("token claims are missing or invalid")

// Claims is the identity carried by an access token.
type Claims struct {
	UserID     string
	Role       user.Role
	FirstLogin bool
}

type Service interface {
	GenerateAccessToken(userID string, role user.Role, firstLogin bool) (token string, expiresAt int64, err error)
	JWTAuth() *jwtauth.JWTAuth
	AccessTokenCookie(token string, expiresAt int64) *http.Cookie
	ClearCookie() *http.Cookie
}

type JWTService struct {
	accessTokenExpiration time.Duration
	secureCookie          bool
	tokenAuth             *jwtauth.JWTAuth
	now                   func() time.Time
}

func (j *JWTService) JWTAuth() *jwtauth.JWTAuth {
	return j.tokenAuth
}

func NewJWTService(secretKey string, accessTokenExpirationTime string, secureCookie bool) (Service, error) {
	expiration, err := time.ParseDuration(accessTokenExpirationTime)
	if err != nil {
		return nil, err
	}
	return &JWTService{
		accessTokenExpiration: expiration,
		secureCookie:          secureCookie,
		tokenAuth:             jwtauth.New("HS256", []byte(secretKey), nil, jwt.WithAcceptableSkew(30*time.Second)),
		now:                   time.Now,
	}, nil
}

func (j *JWTService) GenerateAccessToken(userID string, role user.Role, firstLogin bool) (token string, expiresAt int64, err error) {
	expiresAt = j.now().Add(j.accessTokenExpiration).Unix()

	_, tokenString, err := j.tokenAuth.Encode(map[string]interface{}{
		"user_id":     userID,
		"role":        string(role),
		"first_login": firstLogin,
		"type":        tokenTypeAccess,
		"exp":         expiresAt,
	})
	return tokenString, expiresAt, err
}

func (j *JWTService) AccessTokenCookie(token string, expiresAt int64) *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Unix(expiresAt, 0),
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// ClearCookie expires the access token cookie.
func (j *JWTService) ClearCookie() *http.Cookie {
	return &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   j.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
}

// TokenFromCookie is a jwtauth token finder for the access token cookie.
func TokenFromCookie(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// ClaimsFromMap reads the access token claims verified by jwtauth.
func ClaimsFromMap(claims map[string]interface{}) (Claims, error) {
	if tokenType, _ := claims["type"].(string); tokenType != tokenTypeAccess {
		return Claims{}, ErrInvalidClaims
	}
	userID, _ := claims["user_id"].(string)
	role, _ := claims["role"].(string)
	if userID == "" || !user.Role(role).IsValid() {
		return Claims{}, ErrInvalidClaims
	}
	firstLogin, _ := claims["first_login"].(bool)
	return Claims{UserID: userID, Role: user.Role(role), FirstLogin: firstLogin}, nil
}
