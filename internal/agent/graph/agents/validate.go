package agents

import (
	"context"

	"github.com/eduassist/server/internal/agent/graph/validators"
	"github.com/eduassist/server/internal/agent/model"
	logx "github.com/eduassist/server/pkg/logger"
)

// ValidationAgent checks the drafted artifact for mathematical correctness.
// An internal checker failure is surfaced as data (status validation_error),
// never as a pipeline error: the artifact still reaches the caller.
type ValidationAgent struct {
	checker validators.Checker
}

func NewValidationAgent(checker validators.Checker) *ValidationAgent {
	return &ValidationAgent{checker: checker}
}

func (a *ValidationAgent) Name() string {
	return "validate"
}

func (a *ValidationAgent) Run(ctx context.Context, st model.State, emit EmitFunc) (model.Patch, error) {
	var result *model.ValidationResult

	switch {
	case st.PreviewContent == "":
		result = model.InternalValidationError("no preview content to validate")
	case a.checker == nil:
		result = model.InternalValidationError("validation checker unavailable")
	default:
		var err error
		result, err = a.checker.Check(ctx, st.PreviewContent)
		if err != nil {
			logx.Warn().Err(err).Str("threadID", st.ThreadID).Msg("validation checker failed")
			result = model.InternalValidationError(err.Error())
		}
	}

	emit(model.ValidationEvent(result))
	return model.Patch{ValidationResult: result}, nil
}

var _ Agent = (*ValidationAgent)(nil)
