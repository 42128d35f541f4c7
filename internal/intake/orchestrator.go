package intake

import (
	"context"
	"time"

	"github.com/mkoellner/praxis-agent/internal/llm"
	"github.com/mkoellner/praxis-agent/internal/observability/metrics"
	"github.com/mkoellner/praxis-agent/pkg/logging"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var tracer = otel.Tracer("praxis.internal.intake")

// RecordExtractor turns a transcript into a structured appointment record.
// Implementations must be total: any failure is absorbed into a degraded but
// valid Record, never an error.
type RecordExtractor interface {
	Extract(ctx context.Context, transcript []Turn) Record
}

// Dispatcher forwards a structured record plus transcript to practice staff.
// A single attempt per call; retrying is the caller's decision.
type Dispatcher interface {
	Dispatch(ctx context.Context, record Record, transcript []Turn) DispatchResult
}

// Result is what one processed turn hands back to the presentation layer.
type Result struct {
	Reply string
	// Dispatched is true when this turn forwarded the request successfully;
	// the UI uses it to show a celebratory indication.
	Dispatched bool
}

// Orchestrator is the per-turn state machine tying the safety gate, the
// detectors, the generation service and the handoff pipeline together. Its
// contract is total: every call yields a reply and a well-formed session
// state, never an error or a panic.
type Orchestrator struct {
	client     llm.Client
	extractor  RecordExtractor
	dispatcher Dispatcher
	practice   Practice
	maxTokens  int32
	timeout    time.Duration
	logger     *logging.Logger
	metrics    *metrics.IntakeMetrics
}

// Options tunes orchestrator behavior.
type Options struct {
	// MaxOutputTokens caps the generation service response length.
	MaxOutputTokens int32
	// Timeout bounds each generation call. Zero means 30s.
	Timeout time.Duration
	// Metrics is optional; a nil receiver is safe.
	Metrics *metrics.IntakeMetrics
}

// NewOrchestrator wires the state machine to its collaborators.
func NewOrchestrator(client llm.Client, extractor RecordExtractor, dispatcher Dispatcher, practice Practice, opts Options, logger *logging.Logger) *Orchestrator {
	if client == nil {
		panic("intake: llm client cannot be nil")
	}
	if extractor == nil {
		panic("intake: extractor cannot be nil")
	}
	if dispatcher == nil {
		panic("intake: dispatcher cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	if opts.MaxOutputTokens <= 0 {
		opts.MaxOutputTokens = 512
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	return &Orchestrator{
		client:     client,
		extractor:  extractor,
		dispatcher: dispatcher,
		practice:   practice,
		maxTokens:  opts.MaxOutputTokens,
		timeout:    opts.Timeout,
		logger:     logger,
		metrics:    opts.Metrics,
	}
}

// HandleTurn processes one patient message against the session and returns
// the externally visible reply. The session is mutated in place; callers
// exposing a session to concurrent requests must serialize access to it.
func (o *Orchestrator) HandleTurn(ctx context.Context, s *Session, userMessage string) Result {
	ctx, span := tracer.Start(ctx, "intake.turn")
	defer span.End()
	span.SetAttributes(
		attribute.String("praxis.session_id", s.ID),
		attribute.String("praxis.phase", string(s.Phase)),
	)

	// The safety gate runs before anything else and must leave the session
	// untouched when it fires.
	if ContainsBlockedTerm(userMessage) {
		o.logger.Warn("intake: message blocked by safety gate", "session_id", s.ID)
		o.metrics.ObserveTurn("blocked")
		span.SetAttributes(attribute.String("praxis.outcome", "blocked"))
		return Result{Reply: RefusalReply}
	}

	if s.Phase == PhaseAwaitingConfirmation && IsConsent(userMessage) {
		return o.handleConsent(ctx, s)
	}

	return o.handleGeneration(ctx, s, userMessage)
}

// handleConsent runs the handoff sequence: extract, dispatch, reply.
func (o *Orchestrator) handleConsent(ctx context.Context, s *Session) Result {
	ctx, span := tracer.Start(ctx, "intake.handoff")
	defer span.End()

	transcript := s.Snapshot()

	extractCtx, cancel := context.WithTimeout(ctx, o.timeout)
	record := o.extractor.Extract(extractCtx, transcript)
	cancel()

	res := o.dispatcher.Dispatch(ctx, record, transcript)

	if res.Success {
		o.logger.Info("intake: handoff dispatched", "session_id", s.ID, "turns", len(transcript))
		o.metrics.ObserveTurn("handoff")
		o.metrics.ObserveHandoff("sent")
		s.Reset()
		return Result{Reply: SuccessReply, Dispatched: true}
	}

	o.logger.Error("intake: handoff dispatch failed", "session_id", s.ID, "error", res.Error)
	o.metrics.ObserveTurn("handoff")
	o.metrics.ObserveHandoff("failed")
	span.SetAttributes(attribute.String("praxis.dispatch_error", res.Error))

	// Drop the pending confirmation so the patient is not stuck re-consenting
	// against a failed send; the transcript stays intact.
	s.Phase = PhaseCollecting
	return Result{Reply: DispatchFailureReply(o.practice.Phone, res.Error)}
}

// handleGeneration runs a normal conversational turn through the generation
// service and re-evaluates the phase afterwards.
func (o *Orchestrator) handleGeneration(ctx context.Context, s *Session, userMessage string) Result {
	messages := make([]llm.ChatMessage, 0, len(s.Transcript)+1)
	for _, t := range s.Transcript {
		messages = append(messages, llm.ChatMessage{Role: t.Role, Content: t.Text})
	}
	messages = append(messages, llm.ChatMessage{Role: llm.ChatRoleUser, Content: userMessage})

	callCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	start := time.Now()
	resp, err := o.client.Complete(callCtx, llm.Request{
		System:      []string{SystemPrompt(o.practice)},
		Messages:    messages,
		MaxTokens:   o.maxTokens,
		Temperature: -1,
	})
	o.metrics.ObserveLLMLatency(time.Since(start).Seconds())

	if err != nil {
		// The failed exchange is not recorded: a half-formed turn must not
		// poison the completion check.
		o.logger.Error("intake: generation service failed", "session_id", s.ID, "error", err)
		o.metrics.ObserveTurn("llm_error")
		return Result{Reply: TechnicalDifficultyReply(o.practice.Phone)}
	}

	s.AppendExchange(userMessage, resp.Text)

	// Phase transition needs both signals: the structural completeness of the
	// user turns and the assistant's own offer phrasing. Either alone is too
	// unreliable; the generator claims completeness early and the regexes
	// under-fire on atypical phrasing.
	if IsComplete(s.Transcript) && IsHandoffOffer(resp.Text) {
		s.Phase = PhaseAwaitingConfirmation
	} else {
		s.Phase = PhaseCollecting
	}

	o.metrics.ObserveTurn("ok")
	return Result{Reply: resp.Text}
}
