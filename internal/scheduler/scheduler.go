package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
)

// BatchProcessor is the dependency that actually does the work.
// The scheduler will call ProcessBatch on a fixed interval.
type BatchProcessor interface {
	ProcessBatch(ctx context.Context) error
}

// SchedulerService exposes a small control surface for the scheduler.
// Start/Stop are synchronous controls, and IsRunning reports
// whether the scheduler is currently accepting ticks.
type SchedulerService interface {
	Start() error
	Stop() error
	IsRunning() bool
}

// DefaultInterval is used when no custom interval is provided.
const DefaultInterval = 2 * time.Minute

// DefaultBatchTimeout bounds a single batch before its context is cancelled.
const DefaultBatchTimeout = 30 * time.Second

// controlTimeout is how long Start/Stop wait for the control loop to
// acknowledge a command. Accepting it may additionally take up to one
// batch timeout, since batches run inside the loop.
const controlTimeout = 2 * time.Second

var (
	ErrNotResponding = errors.New("scheduler: control loop not responding")
	ErrAckTimeout    = errors.New("scheduler: acknowledgement timeout")
)

type controlOp int

const (
	opStart controlOp = iota
	opStop
	opStatus
)

type controlMsg struct {
	op   controlOp
	resp chan bool
}

// schedulerService owns the internal state and runs the control loop.
// All mutable state lives in the loop goroutine, so we don't need locks.
type schedulerService struct {
	processor    BatchProcessor
	interval     time.Duration
	batchTimeout time.Duration
	ctrl         chan controlMsg
	logger       zerolog.Logger
}

// NewSchedulerService creates a new scheduler with the given interval
// and batch timeout. Values <= 0 fall back to the defaults.
func NewSchedulerService(
	processor BatchProcessor,
	interval time.Duration,
	batchTimeout time.Duration,
	logger zerolog.Logger,
) SchedulerService {
	if interval <= 0 {
		interval = DefaultInterval
	}
	if batchTimeout <= 0 {
		batchTimeout = DefaultBatchTimeout
	}

	s := &schedulerService{
		processor:    processor,
		interval:     interval,
		batchTimeout: batchTimeout,
		ctrl:         make(chan controlMsg),
		logger:       logger.With().Str("component", "scheduler").Logger(),
	}

	// The control loop lives for the lifetime of the process.
	go s.loop()

	return s
}

// Start tells the scheduler to begin processing ticks.
func (s *schedulerService) Start() error {
	return s.send(opStart)
}

// Stop tells the scheduler to stop accepting new ticks. If a batch is
// running, Stop returns once it finishes or times out.
func (s *schedulerService) Stop() error {
	return s.send(opStop)
}

func (s *schedulerService) send(op controlOp) error {
	resp := make(chan bool, 1)

	select {
	case s.ctrl <- controlMsg{op: op, resp: resp}:
	case <-time.After(s.batchTimeout + controlTimeout):
		return ErrNotResponding
	}

	select {
	case <-resp:
		return nil
	case <-time.After(controlTimeout):
		return ErrAckTimeout
	}
}

// IsRunning reports whether new ticks will be processed. It does not
// mean a batch is executing right now.
func (s *schedulerService) IsRunning() bool {
	resp := make(chan bool, 1)
	s.ctrl <- controlMsg{op: opStatus, resp: resp}
	return <-resp
}

// loop owns all mutable state and reacts to control messages or ticks.
//
// A batch runs synchronously inside the loop, so control messages sent
// while it runs are only read afterwards; a Stop issued mid-batch is
// therefore answered once the batch has finished.
func (s *schedulerService) loop() {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	running := false

	for {
		select {
		case msg := <-s.ctrl:
			switch msg.op {
			case opStart:
				if !running {
					s.logger.Info().
						Dur("interval", s.interval).
						Dur("batch_timeout", s.batchTimeout).
						Msg("started")
				}
				running = true
				msg.resp <- true

			case opStop:
				if running {
					s.logger.Info().Msg("stopped")
				}
				running = false
				msg.resp <- true

			case opStatus:
				msg.resp <- running
			}

		case <-ticker.C:
			if !running {
				continue
			}
			s.runBatch()
		}
	}
}

func (s *schedulerService) runBatch() {
	s.logger.Debug().Msg("triggering batch")

	ctx, cancel := context.WithTimeout(context.Background(), s.batchTimeout)
	defer cancel()

	if err := s.processor.ProcessBatch(ctx); err != nil {
		s.logger.Error().Err(err).Msg("batch failed")
		return
	}
	s.logger.Debug().Msg("batch completed")
}
