package core

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"symptom-checker/internal/llm"
	"symptom-checker/internal/logging"
	"symptom-checker/internal/metrics"
)

// Operation names used in logs and metrics.
const (
	OpAnalyze   = "analyze_symptoms"
	OpQuestions = "prepare_questions"
)

// Outcome is the result of one provider round trip.  Either Content holds the
// model text or Err holds the failure; Fallback is what callers see instead
// of a failure.
type Outcome struct {
	Content  string
	Err      error
	Fallback string
}

// Failed reports whether the provider call failed.
func (o Outcome) Failed() bool { return o.Err != nil }

// Text is the only place a failure is turned into user facing content: it
// returns the model text, or the fixed fallback sentence when the call failed.
func (o Outcome) Text() string {
	if o.Err != nil {
		return o.Fallback
	}
	return o.Content
}

// Advisor produces symptom analyses and doctor questions through an LLM.
// It holds no per-request state and is safe for concurrent use.
type Advisor struct {
	LLM    llm.Client
	Logger logrus.FieldLogger
}

// NewAdvisor constructs an Advisor.  A nil logger falls back to the logrus
// standard logger.
func NewAdvisor(client llm.Client, logger logrus.FieldLogger) *Advisor {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Advisor{LLM: client, Logger: logger}
}

// AnalyzeSymptoms asks the model for probable conditions for the given
// free-form description.  The text is embedded verbatim.
func (a *Advisor) AnalyzeSymptoms(ctx context.Context, symptoms string) Outcome {
	user := fmt.Sprintf(conditionsUserTemplate, symptoms)
	return a.complete(ctx, OpAnalyze, ConditionsPrompt, user, AnalysisUnavailable)
}

// PrepareQuestions asks the model for questions the patient can bring to a
// doctor, given the symptoms and the earlier analysis.
func (a *Advisor) PrepareQuestions(ctx context.Context, symptoms, analysis string) Outcome {
	user := fmt.Sprintf(questionsUserTemplate, symptoms, analysis)
	return a.complete(ctx, OpQuestions, QuestionsPrompt, user, QuestionsUnavailable)
}

func (a *Advisor) complete(ctx context.Context, op, system, user, fallback string) Outcome {
	content, err := a.LLM.Complete(ctx, system, user)
	if err != nil {
		logging.FromContext(ctx, a.Logger).
			WithError(err).
			WithField("operation", op).
			Error("llm request failed")
		metrics.LLMRequestsTotal.WithLabelValues(op, "error").Inc()
		return Outcome{Err: err, Fallback: fallback}
	}
	metrics.LLMRequestsTotal.WithLabelValues(op, "ok").Inc()
	return Outcome{Content: content, Fallback: fallback}
}
