package agents

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/components/retriever"
	"github.com/cloudwego/eino/schema"

	"github.com/eduassist/server/internal/agent/model"
	logx "github.com/eduassist/server/pkg/logger"
)

// RetrieverAgent looks up reference material for the current question.
// Retrieval is best-effort: an unavailable or failing backend patches an
// empty context instead of failing the pipeline, and the single status event
// it emits reports how many sources were found.
type RetrieverAgent struct {
	retriever   retriever.Retriever
	maxSnippets int
}

func NewRetrieverAgent(r retriever.Retriever, config model.RetrievalConfig) *RetrieverAgent {
	return &RetrieverAgent{retriever: r, maxSnippets: config.MaxSnippets}
}

func (a *RetrieverAgent) Name() string {
	return "retrieve"
}

func (a *RetrieverAgent) Run(ctx context.Context, st model.State, emit EmitFunc) (model.Patch, error) {
	empty := []*schema.Document{}

	if a.retriever == nil {
		emit(model.StatusEvent(a.Name(), "retrieval unavailable"))
		return model.Patch{RetrievedContext: empty}, nil
	}

	results, err := a.retriever.Retrieve(ctx, st.UserInput)
	if err != nil {
		logx.Warn().Err(err).Str("threadID", st.ThreadID).Msg("retrieval failed, continuing without context")
		emit(model.StatusEvent(a.Name(), "retrieval unavailable"))
		return model.Patch{RetrievedContext: empty}, nil
	}

	docs := make([]*schema.Document, 0, len(results))
	for _, doc := range results {
		if doc == nil || doc.Content == "" {
			continue
		}
		docs = append(docs, doc)
		if a.maxSnippets > 0 && len(docs) >= a.maxSnippets {
			break
		}
	}

	emit(model.StatusEvent(a.Name(), fmt.Sprintf("found %d sources", len(docs))))
	return model.Patch{RetrievedContext: docs}, nil
}

var _ Agent = (*RetrieverAgent)(nil)
