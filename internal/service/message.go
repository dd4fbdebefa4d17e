package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/oggyb/mollie-sms/internal/cache"
	domain "github.com/oggyb/mollie-sms/internal/domain/message"
	"github.com/oggyb/mollie-sms/internal/sms"
)

type MessageService interface {
	Create(ctx context.Context, in CreateInput) (*domain.Message, error)
	GetSent(ctx context.Context, page, limit int) ([]*domain.Message, int64, error)
	Cancel(ctx context.Context, reference string) (*domain.Message, error)
	ProcessBatch(ctx context.Context) error
}

// CreateInput describes a message to queue. A nil DeliverAt sends on the next batch.
type CreateInput struct {
	To        []string
	Content   string
	DeliverAt *time.Time
	Reference string
}

// sentTTL is how long the sent timestamp of a message stays cached.
const sentTTL = 24 * time.Hour

type messageService struct {
	repo      domain.Repository
	smsClient sms.Client
	cache     cache.Cache
	logger    zerolog.Logger

	// Batch processing configuration, injected from config at startup.
	batchSize         int
	maxWorkers        int
	perMessageTimeout time.Duration

	// gatewayLoc is the zone delivery dates are rendered in for the gateway.
	gatewayLoc *time.Location
}

// Option customises the message service.
type Option func(*messageService)

// WithGatewayLocation sets the zone the gateway reads delivery dates in.
func WithGatewayLocation(loc *time.Location) Option {
	return func(s *messageService) {
		if loc != nil {
			s.gatewayLoc = loc
		}
	}
}

// NewMessageService creates a message service with the given dependencies
// and batch processing settings. The config values are passed explicitly
// from the caller (e.g. main) so this package does not depend on env.
func NewMessageService(
	repo domain.Repository,
	smsClient sms.Client,
	cache cache.Cache,
	logger zerolog.Logger,
	batchSize int,
	maxWorkers int,
	perMessageTimeout time.Duration,
	opts ...Option,
) MessageService {
	if batchSize <= 0 {
		batchSize = 100
	}
	if maxWorkers <= 0 {
		maxWorkers = 4
	}
	if perMessageTimeout <= 0 {
		perMessageTimeout = 5 * time.Second
	}

	s := &messageService{
		repo:              repo,
		smsClient:         smsClient,
		cache:             cache,
		logger:            logger.With().Str("component", "service").Logger(),
		batchSize:         batchSize,
		maxWorkers:        maxWorkers,
		perMessageTimeout: perMessageTimeout,
		gatewayLoc:        sms.DefaultLocation(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create validates the input against the domain rules and stores a pending message.
func (s *messageService) Create(ctx context.Context, in CreateInput) (*domain.Message, error) {
	var (
		msg *domain.Message
		err error
	)
	if in.DeliverAt != nil {
		msg, err = domain.NewScheduledMessage(in.To, in.Content, *in.DeliverAt, in.Reference)
	} else {
		msg, err = domain.NewMessage(in.To, in.Content)
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, msg); err != nil {
		if errors.Is(err, domain.ErrReferenceInUse) {
			return nil, err
		}
		return nil, fmt.Errorf("save message: %w", err)
	}

	s.logger.Info().
		Str("id", msg.ID.String()).
		Int("recipients", len(msg.To)).
		Bool("scheduled", msg.Scheduled()).
		Msg("message queued")
	return msg, nil
}

func (s *messageService) GetSent(ctx context.Context, page, limit int) ([]*domain.Message, int64, error) {
	return s.repo.GetSent(ctx, page, limit)
}

// Cancel withdraws a scheduled message from the gateway.
//
// The message is looked up by reference (redis index first, then the
// repository) so that only references this service handed out are cancelled.
func (s *messageService) Cancel(ctx context.Context, reference string) (*domain.Message, error) {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return nil, sms.ErrMissingReference
	}

	msg, err := s.findScheduled(ctx, reference)
	if err != nil {
		return nil, err
	}
	if !msg.CanCancel() {
		return nil, domain.ErrNotCancellable
	}

	if _, err := s.smsClient.Cancel(ctx, reference); err != nil {
		s.logger.Warn().Err(err).Str("reference", reference).Msg("gateway refused cancel")
		return nil, fmt.Errorf("cancel %s: %w", reference, err)
	}

	if err := msg.MarkCancelled(); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateStatus(ctx, msg); err != nil {
		return nil, fmt.Errorf("update status for %s: %w", msg.ID, err)
	}

	if s.cache != nil {
		if err := s.cache.Del(ctx, cache.ScheduledReferences.Key(reference)); err != nil {
			s.logger.Warn().Err(err).Str("reference", reference).Msg("failed to drop cached reference")
		}
	}

	s.logger.Info().Str("id", msg.ID.String()).Str("reference", reference).Msg("scheduled message cancelled")
	return msg, nil
}

func (s *messageService) findScheduled(ctx context.Context, reference string) (*domain.Message, error) {
	if s.cache != nil {
		id, err := s.cache.Get(ctx, cache.ScheduledReferences.Key(reference))
		switch {
		case err == nil:
			msg, err := s.repo.FindByID(ctx, id)
			if err == nil {
				return msg, nil
			}
			if !errors.Is(err, domain.ErrMessageNotFound) {
				return nil, err
			}
		case !errors.Is(err, cache.ErrMiss):
			s.logger.Warn().Err(err).Str("reference", reference).Msg("reference cache lookup failed")
		}
	}
	return s.repo.FindByReference(ctx, reference)
}

// ProcessBatch pulls a batch of pending messages from the repository and
// processes them using a small worker pool. The batch size, worker count
// and per-message timeout are provided at construction time.
func (s *messageService) ProcessBatch(ctx context.Context) error {
	messages, err := s.repo.GetPending(ctx, s.batchSize)
	if err != nil {
		return fmt.Errorf("failed to fetch pending messages: %w", err)
	}

	// Nothing to do; exit quickly so the scheduler can tick again.
	if len(messages) == 0 {
		s.logger.Debug().Msg("no pending messages to process")
		return nil
	}

	workerCount := len(messages)
	if workerCount > s.maxWorkers {
		workerCount = s.maxWorkers
	}

	s.logger.Info().
		Int("messages", len(messages)).
		Int("workers", workerCount).
		Msg("processing batch")

	var wg sync.WaitGroup

	// Each worker processes a stride of the batch: worker w handles
	// indices w, w+workerCount, w+2*workerCount, ...
	for w := 0; w < workerCount; w++ {
		wg.Add(1)

		go func(workerID, start int) {
			defer wg.Done()

			for i := start; i < len(messages); i += workerCount {
				if ctx.Err() != nil {
					s.logger.Warn().Int("worker", workerID).Msg("context cancelled, stopping worker")
					return
				}

				msg := messages[i]
				msgCtx, cancel := context.WithTimeout(ctx, s.perMessageTimeout)

				if err := s.processMessage(msgCtx, msg); err != nil {
					s.logger.Error().Err(err).
						Int("worker", workerID).
						Str("id", msg.ID.String()).
						Msg("failed to process message")
				}

				cancel()
			}
		}(w+1, w)
	}

	wg.Wait()

	s.logger.Info().Msg("batch completed")
	return nil
}

// processMessage hands a single pending message to the gateway and records the outcome.
//
// Gateway-classified failures mark the message FAILED with the result code.
// An unreachable gateway leaves it PENDING so the next batch picks it up again.
func (s *messageService) processMessage(ctx context.Context, msg *domain.Message) error {
	id := msg.ID.String()

	req := sms.SendRequest{
		Recipients: msg.To,
		Message:    msg.Content,
	}
	if msg.Scheduled() {
		req.DeliveryDate = sms.FormatDeliveryDateIn(*msg.DeliverAt, s.gatewayLoc)
		req.Reference = msg.Reference
	}

	res, err := s.smsClient.Send(ctx, req)
	if err != nil {
		var smsErr *sms.Error
		if !errors.As(err, &smsErr) {
			return fmt.Errorf("send message %s: %w", id, err)
		}
		if smsErr.Kind == sms.KindGatewayUnreachable {
			return fmt.Errorf("send message %s, will retry: %w", id, err)
		}

		reason := smsErr.Message
		if reason == "" {
			reason = smsErr.Kind.String()
		}
		msg.MarkFailed(smsErr.Code, reason, err.Error())
		if uErr := s.repo.UpdateStatus(ctx, msg); uErr != nil {
			s.logger.Error().Err(uErr).Str("id", id).Msg("failed to persist FAILED status")
		}
		return fmt.Errorf("send message %s: %w", id, err)
	}

	msg.MarkSent(res.Code, res.Message, res.Raw)
	if err := s.repo.UpdateStatus(ctx, msg); err != nil {
		return fmt.Errorf("update status for %s: %w", id, err)
	}

	s.cacheSent(ctx, msg)
	return nil
}

// cacheSent indexes an accepted message in the cache. Failures only get logged.
func (s *messageService) cacheSent(ctx context.Context, msg *domain.Message) {
	if s.cache == nil {
		return
	}
	id := msg.ID.String()

	sentAt := time.Now()
	if msg.SentAt != nil {
		sentAt = *msg.SentAt
	}
	if err := s.cache.Set(ctx, cache.SentMessages.Key(id), sentAt.Format(time.RFC3339), sentTTL); err != nil {
		s.logger.Warn().Err(err).Str("id", id).Msg("failed to cache sent timestamp")
	}

	if !msg.Scheduled() {
		return
	}
	// Keep the reference resolvable until a day after delivery; cancelling later is pointless.
	ttl := time.Until(*msg.DeliverAt) + sentTTL
	if err := s.cache.Set(ctx, cache.ScheduledReferences.Key(msg.Reference), id, ttl); err != nil {
		s.logger.Warn().Err(err).Str("reference", msg.Reference).Msg("failed to cache reference")
	}
}
