package graph

import (
	"context"
	"fmt"
	"time"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"

	"github.com/eduassist/server/internal/agent/graph/agents"
	"github.com/eduassist/server/internal/agent/graph/conversations"
	"github.com/eduassist/server/internal/agent/graph/observers"
	"github.com/eduassist/server/internal/agent/graph/retrievers"
	"github.com/eduassist/server/internal/agent/graph/validators"
	"github.com/eduassist/server/internal/agent/model"
	errx "github.com/eduassist/server/internal/core/error"
	logx "github.com/eduassist/server/pkg/logger"
)

// Stage names one step of the pipeline state machine.
type Stage string

const (
	StageChat     Stage = "chat"
	StageRetrieve Stage = "retrieve"
	StagePreview  Stage = "preview"
	StageValidate Stage = "validate"
)

// Route computes the ordered stage list for one invocation. Routing is pure
// data: fallback mode runs chat only, retrieval joins for teacher mode or
// structured output, and preview+validation join when structured output was
// requested.
func Route(opts model.Options) []Stage {
	if opts.Fallback {
		return []Stage{StageChat}
	}
	stages := []Stage{StageChat}
	if opts.Mode == model.ModeTeacher || opts.StructuredOutput {
		stages = append(stages, StageRetrieve)
	}
	if opts.StructuredOutput {
		stages = append(stages, StagePreview, StageValidate)
	}
	return stages
}

// Runner executes the pipeline for one request and exposes it as a finite,
// single-consumption event stream. Closing the reader cancels the run.
type Runner interface {
	Stream(ctx context.Context, req model.Request) *schema.StreamReader[*model.Event]
}

// Config holds everything needed to compose the full pipeline end-to-end.
// This is a convenience layer over GraphConfig that also constructs the
// chat models, checker and messages manager.
type Config struct {
	APIKey  string
	BaseURL string

	ChatModel       model.ChatModelConfig
	PreviewModel    model.PreviewModelConfig
	ValidationModel model.ValidationModelConfig
	Prompt          model.PromptConfig
	Conversation    model.ConversationConfig
	Retrieval       model.RetrievalConfig

	// Collaborators. ConversationRepo and PreviewRepo are optional; when nil
	// the pipeline runs without persistence. Retriever defaults to the
	// in-memory curriculum catalog.
	ConversationRepo model.ConversationRepository
	PreviewRepo      model.PreviewRepository
	Retriever        retriever.Retriever

	// StageTimeout bounds each stage; zero means no stage timeout.
	StageTimeout time.Duration
}

// GraphConfig wires concrete agents and collaborators into a Runner. Tests
// use it directly with stubbed agents.
type GraphConfig struct {
	Chat     agents.Agent
	Retrieve agents.Agent
	Preview  agents.Agent
	Validate agents.Agent

	Conversations *conversations.MessagesManager
	Previews      model.PreviewRepository
	Observer      observers.Observer
	StageTimeout  time.Duration
}

type graphRunner struct {
	stageAgents   map[Stage]agents.Agent
	conversations *conversations.MessagesManager
	previews      model.PreviewRepository
	observer      observers.Observer
	stageTimeout  time.Duration
}

// BuildPipeline composes models, retriever, checker and repositories into a
// ready Runner.
func BuildPipeline(ctx context.Context, cfg Config) (Runner, error) {
	cms, err := agents.NewChatModels(ctx, agents.ChatModelConfig{
		APIKey:           cfg.APIKey,
		BaseURL:          cfg.BaseURL,
		ChatConfig:       &cfg.ChatModel,
		PreviewConfig:    &cfg.PreviewModel,
		ValidationConfig: &cfg.ValidationModel,
	})
	if err != nil {
		return nil, err
	}

	ret := cfg.Retriever
	if ret == nil {
		ret = retrievers.NewCurriculumRetriever()
	}

	var mm *conversations.MessagesManager
	if cfg.ConversationRepo != nil {
		mm = conversations.NewMessagesManager(cfg.ConversationRepo, cfg.Conversation)
	}

	checker := validators.NewLLMChecker(cms.Validation, cms.ValidationModelName, cfg.Prompt)

	return BuildGraph(&GraphConfig{
		Chat:          agents.NewChatAgent(cms.Chat, cms.ChatModelName, cfg.Prompt),
		Retrieve:      agents.NewRetrieverAgent(ret, cfg.Retrieval),
		Preview:       agents.NewPreviewAgent(cms.Preview, cms.PreviewModelName, cfg.Prompt),
		Validate:      agents.NewValidationAgent(checker),
		Conversations: mm,
		Previews:      cfg.PreviewRepo,
		Observer:      observers.NewLoggingObserver(),
		StageTimeout:  cfg.StageTimeout,
	})
}

// BuildGraph constructs a Runner from pre-built agents. Chat is mandatory;
// the other stages may be absent in degraded deployments, in which case a
// routed retrieve degrades to empty context and a routed preview/validate
// becomes a stage error.
func BuildGraph(config *GraphConfig) (Runner, error) {
	if config == nil {
		return nil, fmt.Errorf("graph config is nil")
	}
	if config.Chat == nil {
		return nil, fmt.Errorf("chat agent is nil")
	}

	logx.Debug().Msg("Pipeline graph built successfully")
	return &graphRunner{
		stageAgents: map[Stage]agents.Agent{
			StageChat:     config.Chat,
			StageRetrieve: config.Retrieve,
			StagePreview:  config.Preview,
			StageValidate: config.Validate,
		},
		conversations: config.Conversations,
		previews:      config.Previews,
		observer:      config.Observer,
		stageTimeout:  config.StageTimeout,
	}, nil
}

const streamBufferSize = 16

func (r *graphRunner) Stream(ctx context.Context, req model.Request) *schema.StreamReader[*model.Event] {
	reader, writer := schema.Pipe[*model.Event](streamBufferSize)
	go r.run(ctx, req, writer)
	return reader
}

// emitter forwards events to the stream writer and observer, and cancels the
// in-flight stage once the reader side has gone away.
type emitter struct {
	writer   *schema.StreamWriter[*model.Event]
	observer observers.Observer
	cancel   context.CancelFunc
	closed   bool
}

func (e *emitter) emit(ev *model.Event) {
	if e.closed || ev == nil {
		return
	}
	if e.observer != nil {
		e.observer(ev)
	}
	if e.writer.Send(ev, nil) {
		e.closed = true
		e.cancel()
	}
}

func (r *graphRunner) run(ctx context.Context, req model.Request, writer *schema.StreamWriter[*model.Event]) {
	defer writer.Close()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	em := &emitter{writer: writer, observer: r.observer, cancel: cancel}
	st := model.NewState(req)
	stages := Route(req.Options)

	// When the caller passes no history, the thread's stored turns seed the
	// conversation instead. Load failures degrade to an empty history.
	if r.conversations != nil && st.ThreadID != "" && len(st.Messages) == 0 {
		history, err := r.conversations.History(runCtx, st.ThreadID)
		if err != nil {
			logx.Warn().Err(err).Str("threadID", st.ThreadID).Msg("failed to load conversation history, continuing without")
		} else {
			st.Messages = history
		}
	}

	for _, stage := range stages {
		if runCtx.Err() != nil || em.closed {
			logx.Debug().Str("stage", string(stage)).Str("threadID", st.ThreadID).Msg("pipeline canceled before stage")
			return
		}

		patch := r.dispatch(runCtx, stage, st, em)
		st = st.Merge(patch)

		if st.Error != "" {
			em.emit(model.ErrorEvent(st.Error))
			return
		}
		r.persist(runCtx, stage, st)
	}

	if runCtx.Err() != nil || em.closed {
		return
	}

	final := st.PreviewContent
	if final == "" {
		final = st.ChatOutput
	}
	st = st.Merge(model.Patch{FinalOutput: &final})
	em.emit(model.FinalEvent(st.FinalOutput))
}

// dispatch runs one stage and always returns a patch: agent errors, panics
// and missing agents are converted to the error-patch path here so nothing
// escapes past the stream boundary.
func (r *graphRunner) dispatch(ctx context.Context, stage Stage, st model.State, em *emitter) (patch model.Patch) {
	ag := r.stageAgents[stage]
	if ag == nil {
		if stage == StageRetrieve {
			em.emit(model.StatusEvent(string(stage), "retrieval unavailable"))
			return model.Patch{RetrievedContext: []*schema.Document{}}
		}
		return model.ErrorPatch(fmt.Sprintf("%s stage not configured", stage))
	}

	defer func() {
		if rec := recover(); rec != nil {
			logx.Error().Interface("panic", rec).Str("stage", string(stage)).Msg("stage panicked")
			patch = model.ErrorPatch(fmt.Sprintf("%s stage failed: internal error", stage))
		}
	}()

	// The retrieve stage announces itself: its status event carries the
	// source count, which is only known after the lookup.
	if stage != StageRetrieve {
		em.emit(model.StatusEvent(string(stage), stageDetail(stage, st.Settings)))
	}

	runCtx := ctx
	if r.stageTimeout > 0 {
		var cancelStage context.CancelFunc
		runCtx, cancelStage = context.WithTimeout(ctx, r.stageTimeout)
		defer cancelStage()
	}

	p, err := ag.Run(runCtx, st, em.emit)
	if err != nil {
		logx.Error().Err(errx.WrapStage(string(stage), err)).Str("threadID", st.ThreadID).Msg("stage execution failed")
		return model.ErrorPatch(fmt.Sprintf("%s stage failed: %v", stage, err))
	}
	return p
}

// persist keeps the thread's stored record in step with the run. Failures are
// logged and swallowed: persistence never fails a pipeline.
func (r *graphRunner) persist(ctx context.Context, stage Stage, st model.State) {
	if st.ThreadID == "" {
		return
	}
	switch stage {
	case StageChat:
		if r.conversations == nil {
			return
		}
		if err := r.conversations.SaveUserTurn(ctx, st.ThreadID, st.UserInput); err != nil {
			logx.Error().Err(err).Str("threadID", st.ThreadID).Msg("failed to save user turn")
			return
		}
		if err := r.conversations.SaveAssistantTurn(ctx, st.ThreadID, st.ChatOutput); err != nil {
			logx.Error().Err(err).Str("threadID", st.ThreadID).Msg("failed to save assistant turn")
		}
	case StagePreview, StageValidate:
		if r.previews == nil || st.PreviewContent == "" {
			return
		}
		record := &model.PreviewRecord{
			ThreadID:    st.ThreadID,
			UserID:      st.UserID,
			ContentType: st.Settings.ContentType,
			Content:     st.PreviewContent,
		}
		if st.ValidationResult != nil {
			record.ValidationStatus = st.ValidationResult.Status
		}
		if err := r.previews.SavePreview(ctx, record); err != nil {
			logx.Error().Err(err).Str("threadID", st.ThreadID).Msg("failed to save preview")
		}
	}
}

func stageDetail(stage Stage, settings model.Settings) string {
	switch stage {
	case StageChat:
		return "generating response"
	case StagePreview:
		contentType := settings.ContentType
		if contentType == "" {
			contentType = "preview"
		}
		return "drafting " + contentType
	case StageValidate:
		return "checking mathematical correctness"
	}
	return ""
}
