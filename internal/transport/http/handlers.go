package http

import (
	"fmt"
	"net/http"
	"strconv"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"

	"github.com/gin-gonic/gin"
)

type handlers struct {
	service *app.QuizService
}

type addFriendRequest struct {
	FriendID string `json:"friendId"`
}

type questionResponse struct {
	domain.Question
	Answers []string `json:"answers"`
}

func (h *handlers) listCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *handlers) listRootCategories(c *gin.Context) {
	categories, err := h.service.ListRootCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *handlers) listSubCategories(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	categories, err := h.service.ListSubCategories(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, categories)
}

func (h *handlers) fetchQuestions(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		writeError(c, err)
		return
	}
	questions, err := h.service.FetchQuestions(c.Request.Context(), id, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, questions)
}

func (h *handlers) questionDetails(c *gin.Context) {
	id, err := idParam(c, "id")
	if err != nil {
		writeError(c, err)
		return
	}
	q, err := h.service.QuestionDetails(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, questionResponse{Question: q, Answers: q.Options()})
}

func (h *handlers) takeResult(c *gin.Context) {
	result, err := h.service.TakeResult(c.Request.Context(), c.Param("token"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"result":   result,
		"accuracy": result.Accuracy(),
	})
}

func (h *handlers) submitGame(c *gin.Context) {
	var submission domain.GameSubmission
	if err := c.ShouldBindJSON(&submission); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}
	res, err := h.service.SubmitGame(c.Request.Context(), playerFrom(c), submission)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *handlers) globalLeaderboard(c *gin.Context) {
	limit, err := intQuery(c, "limit")
	if err != nil {
		writeError(c, err)
		return
	}
	entries, err := h.service.GlobalLeaderboard(c.Request.Context(), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *handlers) friendsLeaderboard(c *gin.Context) {
	limit, err := intQuery(c, "limit")
	if err != nil {
		writeError(c, err)
		return
	}
	entries, err := h.service.FriendsLeaderboard(c.Request.Context(), playerFrom(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *handlers) history(c *gin.Context) {
	limit, err := intQuery(c, "limit")
	if err != nil {
		writeError(c, err)
		return
	}
	entries, err := h.service.History(c.Request.Context(), playerFrom(c), limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *handlers) stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), playerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlers) friends(c *gin.Context) {
	friends, err := h.service.Friends(c.Request.Context(), playerFrom(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, friends)
}

func (h *handlers) addFriend(c *gin.Context) {
	var req addFriendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err))
		return
	}
	if err := h.service.AddFriend(c.Request.Context(), playerFrom(c), req.FriendID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, domain.SubmitResult{Success: true})
}

func idParam(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: bad %s %q", domain.ErrInvalidInput, name, c.Param(name))
	}
	return id, nil
}

// intQuery returns 0 when the parameter is absent.
func intQuery(c *gin.Context, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: bad %s %q", domain.ErrInvalidInput, name, raw)
	}
	return n, nil
}
