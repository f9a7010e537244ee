package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"trivia-quiz-service/internal/domain"

	amqp "github.com/rabbitmq/amqp091-go"
)

// GameCompletedEvent is the message body published for every persisted game.
type GameCompletedEvent struct {
	Event          string    `json:"event"`
	GameID         int64     `json:"gameId"`
	UserID         string    `json:"userId"`
	CategoryID     int64     `json:"categoryId"`
	Score          int       `json:"score"`
	MaxCombo       int       `json:"maxCombo"`
	CorrectAnswers int       `json:"correctAnswers"`
	TotalQuestions int       `json:"totalQuestions"`
	Accuracy       int       `json:"accuracy"`
	CompletedAt    time.Time `json:"completedAt"`
}

const gameCompletedEvent = "game.completed"

func newGameCompletedEvent(record domain.GameSessionRecord) GameCompletedEvent {
	return GameCompletedEvent{
		Event:          gameCompletedEvent,
		GameID:         record.ID,
		UserID:         record.UserID,
		CategoryID:     record.CategoryID,
		Score:          record.Score,
		MaxCombo:       record.MaxCombo,
		CorrectAnswers: record.CorrectAnswers,
		TotalQuestions: record.TotalQuestions,
		Accuracy:       domain.Accuracy(record.CorrectAnswers, record.TotalQuestions),
		CompletedAt:    record.CompletedAt,
	}
}

// Publisher sends game events to a durable queue.
type Publisher struct {
	conn    *amqp.Connection
	queue   string
	mu      sync.Mutex
	channel *amqp.Channel
}

func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	_, err = channel.QueueDeclare(
		queue,
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // no-wait
		nil,
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &Publisher{conn: conn, channel: channel, queue: queue}, nil
}

func (p *Publisher) PublishGameCompleted(ctx context.Context, record domain.GameSessionRecord) error {
	body, err := json.Marshal(newGameCompletedEvent(record))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.channel.PublishWithContext(
		ctx,
		"",      // exchange
		p.queue, // routing key
		false,   // mandatory
		false,   // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Type:         gameCompletedEvent,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
}

func (p *Publisher) Close() error {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
