package http

import (
	"fmt"
	"strings"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const playerKey = "player"

// Claims is the payload of an access token issued by the identity provider.
type Claims struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Authenticator verifies HS256 bearer tokens. It never issues tokens.
type Authenticator struct {
	secret []byte
}

func NewAuthenticator(secret string) *Authenticator {
	return &Authenticator{secret: []byte(secret)}
}

// Player parses a raw token. An empty token yields an anonymous player.
func (a *Authenticator) Player(raw string) (domain.Player, error) {
	if raw == "" {
		return domain.Player{}, nil
	}
	if len(a.secret) == 0 {
		return domain.Player{}, fmt.Errorf("%w: token verification disabled", domain.ErrUnauthenticated)
	}
	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return domain.Player{}, fmt.Errorf("%w: %v", domain.ErrUnauthenticated, err)
	}
	if claims.UserID == "" {
		return domain.Player{}, fmt.Errorf("%w: token has no user_id", domain.ErrUnauthenticated)
	}
	return domain.Player{ID: claims.UserID, Name: claims.Name, Email: claims.Email}, nil
}

// Identify attaches the bearer token's player to the request. Requests
// without a token continue anonymously; a bad token is rejected.
func (a *Authenticator) Identify() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := bearerToken(c.GetHeader("Authorization"))
		if err == nil {
			var player domain.Player
			player, err = a.Player(raw)
			if err == nil {
				c.Set(playerKey, player)
				c.Next()
				return
			}
		}
		writeError(c, err)
		c.Abort()
	}
}

// RequirePlayer rejects anonymous requests and records the player as seen.
func RequirePlayer(service *app.QuizService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := service.IdentifyPlayer(c.Request.Context(), playerFrom(c)); err != nil {
			writeError(c, err)
			c.Abort()
			return
		}
		c.Next()
	}
}

func playerFrom(c *gin.Context) domain.Player {
	if v, ok := c.Get(playerKey); ok {
		if p, ok := v.(domain.Player); ok {
			return p
		}
	}
	return domain.Player{}
}

func bearerToken(header string) (string, error) {
	if header == "" {
		return "", nil
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", fmt.Errorf("%w: invalid authorization header format", domain.ErrUnauthenticated)
	}
	return strings.TrimSpace(parts[1]), nil
}
