package http

import (
	"net/http/httptest"
	"testing"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/infra/memory"
	"trivia-quiz-service/internal/seed"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	server  *httptest.Server
	service *app.QuizService
	ws      *WSHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	bank, err := memory.NewStaticQuestionBank(seed.Categories(), seed.Questions())
	require.NoError(t, err)
	service := app.NewQuizService(bank, memory.NewGameRepository(bank), memory.NewResultStore(time.Minute), nil)
	auth := NewAuthenticator(testSecret)
	ws := NewWSHandler(service, auth)
	ws.SetTickInterval(time.Hour)

	server := httptest.NewServer(NewRouter(service, auth, ws, RouterOptions{}))
	t.Cleanup(server.Close)
	return &testEnv{server: server, service: service, ws: ws}
}

func signToken(t *testing.T, secret string, player domain.Player) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: player.ID,
		Name:   player.Name,
		Email:  player.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func correctAnswer(t *testing.T, questionID int64) string {
	t.Helper()
	for _, q := range seed.Questions() {
		if q.ID == questionID {
			return q.CorrectAnswer
		}
	}
	require.FailNow(t, "unknown question", "id %d", questionID)
	return ""
}
