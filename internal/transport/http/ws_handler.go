package http

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"sync"
	"time"

	"trivia-quiz-service/internal/app"
	"trivia-quiz-service/internal/domain"
	"trivia-quiz-service/internal/game"

	"github.com/gorilla/websocket"
)

// WSHandler drives one game per connection. Timer ticks and player
// messages are applied to the session from the same goroutine.
type WSHandler struct {
	service      *app.QuizService
	auth         *Authenticator
	upgrader     websocket.Upgrader
	tickInterval time.Duration

	mu      sync.Mutex
	closing bool
	stop    chan struct{}
	active  sync.WaitGroup
}

func NewWSHandler(service *app.QuizService, auth *Authenticator) *WSHandler {
	return &WSHandler{
		service: service,
		auth:    auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		tickInterval: time.Second,
		stop:         make(chan struct{}),
	}
}

// Close ends every live game and waits for their connections to finish.
// Upgrades attempted afterwards are refused.
func (h *WSHandler) Close() {
	h.mu.Lock()
	if !h.closing {
		h.closing = true
		close(h.stop)
	}
	h.mu.Unlock()
	h.active.Wait()
}

func (h *WSHandler) acquire() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closing {
		return false
	}
	h.active.Add(1)
	return true
}

// SetTickInterval changes how often the question timer counts down.
func (h *WSHandler) SetTickInterval(d time.Duration) {
	if d > 0 {
		h.tickInterval = d
	}
}

// writeWait bounds a single write so a stalled client cannot hold up shutdown.
const writeWait = 10 * time.Second

type inboundMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type answerPayload struct {
	Answer string `json:"answer"`
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

type errorPayload struct {
	Message string `json:"message"`
}

type startedPayload struct {
	Token          string `json:"token"`
	CategoryID     int64  `json:"categoryId"`
	CategoryName   string `json:"categoryName"`
	TotalQuestions int    `json:"totalQuestions"`
	QuestionTime   int    `json:"questionTime"`
}

// questionPayload omits the correct answer.
type questionPayload struct {
	Index         int               `json:"index"`
	Total         int               `json:"total"`
	ID            int64             `json:"id"`
	Question      string            `json:"question"`
	Answers       []string          `json:"answers"`
	Difficulty    domain.Difficulty `json:"difficulty"`
	TimeRemaining int               `json:"timeRemaining"`
}

type tickPayload struct {
	TimeRemaining int `json:"timeRemaining"`
}

type feedbackPayload struct {
	game.Feedback
	Explanation string `json:"explanation,omitempty"`
}

type completedPayload struct {
	Token          string `json:"token"`
	Score          int    `json:"score"`
	MaxCombo       int    `json:"maxCombo"`
	CorrectAnswers int    `json:"correctAnswers"`
	TotalQuestions int    `json:"totalQuestions"`
	Accuracy       int    `json:"accuracy"`
}

type resetPayload struct {
	State string `json:"state"`
}

// ServeWS upgrades the request and plays a game of categoryId. The player
// is taken from the token query parameter or the Authorization header.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	categoryID, err := strconv.ParseInt(q.Get("categoryId"), 10, 64)
	if err != nil || categoryID <= 0 {
		http.Error(w, "missing or bad categoryId", http.StatusBadRequest)
		return
	}
	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil {
			http.Error(w, "bad limit", http.StatusBadRequest)
			return
		}
	}

	raw := q.Get("token")
	if raw == "" {
		raw, err = bearerToken(r.Header.Get("Authorization"))
		if err != nil {
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
	}
	player, err := h.auth.Player(raw)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnauthorized)
		return
	}
	if player.Authenticated() {
		if err := h.service.IdentifyPlayer(r.Context(), player); err != nil {
			log.Printf("identify player %s failed: %v", player.ID, err)
		}
	}

	g, err := h.service.NewGame(r.Context(), player, categoryID, limit)
	if err != nil {
		http.Error(w, err.Error(), statusFor(err))
		return
	}

	if !h.acquire() {
		http.Error(w, "server shutting down", http.StatusServiceUnavailable)
		return
	}
	defer h.active.Done()

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()
	// Hijacked connections keep the server's read and write deadlines.
	_ = conn.NetConn().SetDeadline(time.Time{})

	send := make(chan outboundMessage[any], 16)
	inbound := make(chan inboundMessage)
	closeSignals := make(chan struct{})
	writerDone := make(chan struct{})

	go func() {
		defer close(writerDone)
		for msg := range send {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				log.Printf("ws write error: %v", err)
				return
			}
		}
	}()

	go func() {
		defer close(inbound)
		for {
			var msg inboundMessage
			if err := conn.ReadJSON(&msg); err != nil {
				return
			}
			select {
			case inbound <- msg:
			case <-closeSignals:
				return
			}
		}
	}()

	ticker := time.NewTicker(h.tickInterval)
	defer ticker.Stop()

	p := &play{game: g, send: send, writerDone: writerDone, ticker: ticker, interval: h.tickInterval}
	p.started()

	shutdown := false
loop:
	for {
		select {
		case msg, ok := <-inbound:
			if !ok {
				break loop
			}
			p.handle(r.Context(), msg)
		case <-ticker.C:
			p.tick(r.Context())
		case <-h.stop:
			shutdown = true
			break loop
		}
	}

	close(closeSignals)
	close(send)
	<-writerDone
	if shutdown {
		closeMsg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down")
		_ = conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(time.Second))
	}
}

// play is the per-connection game driver. Its methods run on the
// connection's main goroutine only.
type play struct {
	game       *app.Game
	send       chan<- outboundMessage[any]
	writerDone <-chan struct{}
	ticker     *time.Ticker
	interval   time.Duration
}

func (p *play) emit(typ string, payload any) {
	select {
	case p.send <- outboundMessage[any]{Type: typ, Payload: payload}:
	case <-p.writerDone:
	}
}

func (p *play) fail(err error) {
	p.emit("error", errorPayload{Message: err.Error()})
}

func (p *play) handle(ctx context.Context, msg inboundMessage) {
	s := p.game.Session()
	switch msg.Type {
	case "answer":
		var payload answerPayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			p.emit("error", errorPayload{Message: "invalid answer payload"})
			return
		}
		fb, err := s.SubmitAnswer(payload.Answer)
		if err != nil {
			p.fail(err)
			return
		}
		p.feedback(ctx, fb)
	case "next":
		step, err := s.Advance()
		if err != nil {
			p.fail(err)
			return
		}
		if step.Completed {
			p.completed(step.Result)
			return
		}
		p.question()
	case "replay":
		if err := p.game.Replay(ctx); err != nil {
			p.fail(err)
			return
		}
		p.started()
	case "reset":
		s.Reset()
		p.emit("reset", resetPayload{State: s.State().String()})
	default:
		p.emit("error", errorPayload{Message: "unsupported message type"})
	}
}

// tick counts the timer down. Ticks outside an active question are dropped.
func (p *play) tick(ctx context.Context) {
	s := p.game.Session()
	if !s.Active() {
		return
	}
	fb, timedOut, err := s.Tick()
	if err != nil {
		return
	}
	p.emit("tick", tickPayload{TimeRemaining: s.Snapshot().TimeRemaining})
	if timedOut {
		p.feedback(ctx, fb)
	}
}

func (p *play) started() {
	snap := p.game.Session().Snapshot()
	p.emit("started", startedPayload{
		Token:          p.game.ResultToken(),
		CategoryID:     snap.CategoryID,
		CategoryName:   snap.CategoryName,
		TotalQuestions: len(snap.Questions),
		QuestionTime:   game.QuestionTime,
	})
	p.question()
}

func (p *play) question() {
	s := p.game.Session()
	q, ok := s.Current()
	if !ok {
		return
	}
	// Every question gets a full interval before its first tick.
	p.ticker.Reset(p.interval)
	snap := s.Snapshot()
	p.emit("question", questionPayload{
		Index:         snap.CurrentIndex,
		Total:         len(snap.Questions),
		ID:            q.ID,
		Question:      q.Prompt,
		Answers:       q.Answers,
		Difficulty:    q.Difficulty,
		TimeRemaining: snap.TimeRemaining,
	})
}

func (p *play) feedback(ctx context.Context, fb game.Feedback) {
	explanation, err := p.game.Explanation(ctx, fb.QuestionID)
	if err != nil {
		log.Printf("explanation for question %d failed: %v", fb.QuestionID, err)
	}
	p.emit("feedback", feedbackPayload{Feedback: fb, Explanation: explanation})
}

func (p *play) completed(result domain.GameResult) {
	p.emit("completed", completedPayload{
		Token:          p.game.ResultToken(),
		Score:          result.Score,
		MaxCombo:       result.MaxCombo,
		CorrectAnswers: result.CorrectAnswers,
		TotalQuestions: result.TotalQuestions,
		Accuracy:       result.Accuracy(),
	})
}
