package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"theatre/internal/reservations"
	"theatre/pkg/logger"

	"github.com/IBM/sarama"
	"github.com/google/uuid"
)

// ErrMalformedEvent marks messages that can never be processed
var ErrMalformedEvent = errors.New("malformed reservation event")

// UserLookup resolves a recipient (implemented by auth.UserServiceAdapter)
type UserLookup interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (email, firstName, lastName string, err error)
}

type ConsumerConfig struct {
	Brokers              []string
	GroupID              string
	Topics               []string
	SessionTimeoutMs     int
	HeartbeatMs          int
	RetryBackoffMs       int
	MaxProcessingTime    time.Duration
	OffsetOldest         bool
	MaxRetries           int
	RetryBackoffDuration time.Duration
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:              []string{"localhost:9092"},
		GroupID:              "theatre-notifications",
		Topics:               []string{"theatre.reservations"},
		SessionTimeoutMs:     30000,
		HeartbeatMs:          3000,
		RetryBackoffMs:       100,
		MaxProcessingTime:    5 * time.Minute,
		OffsetOldest:         false,
		MaxRetries:           3,
		RetryBackoffDuration: time.Second,
	}
}

// ReservationEmailProcessor turns reservation events into confirmation emails
type ReservationEmailProcessor struct {
	emailService EmailService
	users        UserLookup
	log          *logger.Logger
	maxRetries   int
	backoff      time.Duration
}

func NewReservationEmailProcessor(emailService EmailService, users UserLookup, log *logger.Logger, maxRetries int, backoff time.Duration) *ReservationEmailProcessor {
	if maxRetries < 0 {
		maxRetries = 0
	}
	return &ReservationEmailProcessor{
		emailService: emailService,
		users:        users,
		log:          log,
		maxRetries:   maxRetries,
		backoff:      backoff,
	}
}

// Process handles one encoded ReservationCreatedEvent
func (p *ReservationEmailProcessor) Process(ctx context.Context, value []byte) error {
	var event reservations.ReservationCreatedEvent
	if err := json.Unmarshal(value, &event); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedEvent, err)
	}
	if event.Type != reservations.EventReservationCreated {
		p.log.DebugWithContext(ctx, "Skipping event", map[string]interface{}{"type": event.Type})
		return nil
	}

	email, firstName, lastName, err := p.users.GetUserByID(ctx, event.UserID)
	if err != nil {
		return err
	}

	notification := BuildReservationConfirmation(event, email, firstName+" "+lastName)
	notification.Status = NotificationStatusSending

	if err := p.executeWithRetry(ctx, notification); err != nil {
		notification.MarkFailed(err)
		return err
	}
	notification.MarkSent()
	return nil
}

// BuildReservationConfirmation renders the event into an email notification
func BuildReservationConfirmation(event reservations.ReservationCreatedEvent, email, name string) *EmailNotification {
	data := TemplateData{
		Name:          name,
		ReservationID: event.ReservationID.String(),
		Tickets:       make([]TicketLine, 0, len(event.Tickets)),
	}
	for _, t := range event.Tickets {
		data.Tickets = append(data.Tickets, TicketLine{
			PlayTitle: t.PlayTitle,
			HallName:  t.TheatreHallName,
			ShowTime:  t.ShowTime.Format("Mon 2 Jan 2006 15:04"),
			Row:       t.Row,
			Seat:      t.Seat,
		})
	}

	return NewNotificationBuilder().
		WithType(NotificationTypeReservationConfirmed).
		WithRecipient(event.UserID, email, name).
		WithReservationContext(event.ReservationID).
		WithSubject(fmt.Sprintf("Your reservation is confirmed (%d tickets)", len(event.Tickets))).
		WithTemplateData(data).
		Build()
}

func (p *ReservationEmailProcessor) executeWithRetry(ctx context.Context, notification *EmailNotification) error {
	for attempt := 0; ; attempt++ {
		err := p.emailService.SendNotification(ctx, notification)
		if err == nil {
			return nil
		}
		if attempt == p.maxRetries {
			return fmt.Errorf("email not sent after %d attempts: %w", attempt+1, err)
		}

		// Exponential backoff
		delay := p.backoff * time.Duration(1<<attempt)
		p.log.ErrorWithContext(ctx, "Email send failed, retrying", err, map[string]interface{}{
			"attempt": attempt + 1,
			"delay":   delay.String(),
		})

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

type KafkaNotificationConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	processor     *ReservationEmailProcessor
	log           *logger.Logger
	wg            sync.WaitGroup
}

func NewSaramaConsumerConfig(config *ConsumerConfig) *sarama.Config {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Retry.Backoff = time.Duration(config.RetryBackoffMs) * time.Millisecond
	saramaConfig.Consumer.MaxProcessingTime = config.MaxProcessingTime
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}
	return saramaConfig
}

func NewKafkaNotificationConsumer(config *ConsumerConfig, processor *ReservationEmailProcessor, log *logger.Logger) (*KafkaNotificationConsumer, error) {
	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, NewSaramaConsumerConfig(config))
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaNotificationConsumer{
		consumerGroup: consumerGroup,
		config:        config,
		processor:     processor,
		log:           log,
	}, nil
}

// StartConsumers launches numWorkers consume loops that stop when ctx is cancelled
func (knc *KafkaNotificationConsumer) StartConsumers(ctx context.Context, numWorkers int) {
	knc.log.Info("Starting notification consumers", "workers", numWorkers, "topics", knc.config.Topics)

	go knc.handleErrors()

	for i := 0; i < numWorkers; i++ {
		knc.wg.Add(1)
		go func(workerID int) {
			defer knc.wg.Done()
			knc.runWorker(ctx, workerID)
		}(i)
	}
}

func (knc *KafkaNotificationConsumer) runWorker(ctx context.Context, workerID int) {
	handler := &ConsumerGroupHandler{
		processor: knc.processor,
		workerID:  workerID,
		log:       knc.log,
	}

	for ctx.Err() == nil {
		if err := knc.consumerGroup.Consume(ctx, knc.config.Topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			knc.log.Error("Consume failed", "worker", workerID, "error", err)
			select {
			case <-time.After(time.Second):
			case <-ctx.Done():
			}
		}
	}
}

func (knc *KafkaNotificationConsumer) handleErrors() {
	for err := range knc.consumerGroup.Errors() {
		knc.log.Error("Consumer group error", "error", err)
	}
}

// Stop closes the group and waits for the workers. Cancel the start context first.
func (knc *KafkaNotificationConsumer) Stop() error {
	err := knc.consumerGroup.Close()
	knc.wg.Wait()
	if err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	return nil
}

type ConsumerGroupHandler struct {
	processor *ReservationEmailProcessor
	workerID  int
	log       *logger.Logger
}

func (h *ConsumerGroupHandler) Setup(sarama.ConsumerGroupSession) error {
	h.log.Debug("Consumer group session started", "worker", h.workerID)
	return nil
}

func (h *ConsumerGroupHandler) Cleanup(sarama.ConsumerGroupSession) error {
	h.log.Debug("Consumer group session ended", "worker", h.workerID)
	return nil
}

func (h *ConsumerGroupHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}
			if h.handle(session.Context(), message) {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

// handle reports whether the message offset may be committed
func (h *ConsumerGroupHandler) handle(ctx context.Context, message *sarama.ConsumerMessage) bool {
	err := h.processor.Process(ctx, message.Value)
	if err == nil {
		return true
	}

	h.log.ErrorWithContext(ctx, "Failed to process reservation event", err, map[string]interface{}{
		"worker":    h.workerID,
		"topic":     message.Topic,
		"partition": message.Partition,
		"offset":    message.Offset,
	})
	// Redelivery cannot fix a broken payload
	return errors.Is(err, ErrMalformedEvent)
}
