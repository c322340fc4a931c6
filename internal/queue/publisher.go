package queue

import (
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"textassign/internal/models"
)

// EventPublisher publishes assignment lifecycle events for the notification
// subsystem. Events must be published only after the transaction that created
// the assignment has committed.
type EventPublisher struct {
	conn      *Connection
	queueName string
}

// AssignmentCreatedEvent is the payload of an assignment-created event
type AssignmentCreatedEvent struct {
	AssignmentID int `json:"assignment_id"`
	UserID       int `json:"user_id"`
	CampaignID   int `json:"campaign_id"`
}

// NewEventPublisher creates a new publisher and declares its queue
func NewEventPublisher(conn *Connection, queueName string) (*EventPublisher, error) {
	if conn == nil {
		return nil, errors.New("connection cannot be nil")
	}
	if queueName == "" {
		return nil, errors.New("queue name cannot be empty")
	}

	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("failed to get channel: %w", err)
	}

	// Durable queue: assignment events survive broker restarts
	_, err = ch.QueueDeclare(
		queueName,
		true,  // durable
		false, // auto-delete
		false, // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return nil, fmt.Errorf("failed to declare queue: %w", err)
	}

	return &EventPublisher{
		conn:      conn,
		queueName: queueName,
	}, nil
}

// PublishAssignmentCreated emits an assignment-created event
func (p *EventPublisher) PublishAssignmentCreated(assignment *models.Assignment) error {
	event := AssignmentCreatedEvent{
		AssignmentID: assignment.ID,
		UserID:       assignment.UserID,
		CampaignID:   assignment.CampaignID,
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal assignment event: %w", err)
	}

	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("failed to get channel: %w", err)
	}

	err = ch.Publish(
		"",          // exchange (default)
		p.queueName, // routing key
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("failed to publish assignment event: %w", err)
	}

	return nil
}
