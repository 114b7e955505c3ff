package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"theatre/internal/reservations"
	"theatre/internal/shared/config"
	"theatre/pkg/logger"
)

// Service owns the reservation event producer and the email consumers
type Service struct {
	producer *KafkaReservationProducer
	consumer *KafkaNotificationConsumer
	workers  int
	log      *logger.Logger

	mu        sync.Mutex
	isRunning bool
	cancel    context.CancelFunc
}

// NewEmailService picks SMTP when a host is configured and logs otherwise
func NewEmailService(cfg config.EmailConfig, log *logger.Logger) (EmailService, error) {
	if cfg.SMTPHost == "" {
		return NewLogEmailService(log), nil
	}
	return NewSMTPEmailService(NewSMTPConfig(cfg), log)
}

func NewService(kafkaCfg config.KafkaConfig, emailCfg config.EmailConfig, users UserLookup, log *logger.Logger) (*Service, error) {
	emailService, err := NewEmailService(emailCfg, log)
	if err != nil {
		return nil, err
	}

	producerConfig := DefaultKafkaProducerConfig()
	producerConfig.Brokers = kafkaCfg.Brokers
	producerConfig.Topic = kafkaCfg.ReservationTopic

	producer, err := NewKafkaReservationProducer(producerConfig, log)
	if err != nil {
		return nil, fmt.Errorf("failed to create reservation producer: %w", err)
	}

	consumerConfig := DefaultConsumerConfig()
	consumerConfig.Brokers = kafkaCfg.Brokers
	consumerConfig.Topics = []string{kafkaCfg.ReservationTopic}
	consumerConfig.GroupID = kafkaCfg.ConsumerGroup
	consumerConfig.MaxRetries = kafkaCfg.MaxRetries

	processor := NewReservationEmailProcessor(emailService, users, log, consumerConfig.MaxRetries, consumerConfig.RetryBackoffDuration)
	consumer, err := NewKafkaNotificationConsumer(consumerConfig, processor, log)
	if err != nil {
		producer.Close()
		return nil, fmt.Errorf("failed to create notification consumer: %w", err)
	}

	workers := kafkaCfg.Workers
	if workers < 1 {
		workers = 1
	}

	return &Service{
		producer: producer,
		consumer: consumer,
		workers:  workers,
		log:      log,
	}, nil
}

// Publisher returns the producer as the reservations event sink
func (s *Service) Publisher() reservations.EventPublisher {
	return s.producer
}

func (s *Service) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return errors.New("notification service is already running")
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.consumer.StartConsumers(ctx, s.workers)
	s.isRunning = true

	s.log.Info("Notification service started")
	return nil
}

func (s *Service) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		s.cancel()
		s.isRunning = false
	}

	return errors.Join(s.consumer.Stop(), s.producer.Close())
}
