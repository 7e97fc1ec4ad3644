package core

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
)

type stubLLM struct {
	reply  string
	err    error
	system string
	user   string
	calls  int
}

func (s *stubLLM) Complete(ctx context.Context, systemPrompt, userMessage string) (string, error) {
	s.calls++
	s.system = systemPrompt
	s.user = userMessage
	return s.reply, s.err
}

func quietLogger(buf *bytes.Buffer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(buf)
	return l
}

func TestAnalyzeSymptomsPassesThroughModelText(t *testing.T) {
	stub := &stubLLM{reply: "**Probable Conditions:**\n1.  **Migraine:** ..."}
	a := NewAdvisor(stub, quietLogger(&bytes.Buffer{}))

	out := a.AnalyzeSymptoms(context.Background(), "I have a headache and fever")
	if out.Failed() {
		t.Fatalf("unexpected failure: %v", out.Err)
	}
	if out.Text() != stub.reply {
		t.Fatalf("expected verbatim model text, got %q", out.Text())
	}
	if stub.system != ConditionsPrompt {
		t.Fatalf("wrong system prompt")
	}
	if stub.user != `Analyze the following symptoms: "I have a headache and fever"` {
		t.Fatalf("unexpected user message %q", stub.user)
	}
}

func TestAnalyzeSymptomsMasksFailure(t *testing.T) {
	var logs bytes.Buffer
	stub := &stubLLM{err: errors.New("dial tcp: connection refused")}
	a := NewAdvisor(stub, quietLogger(&logs))

	out := a.AnalyzeSymptoms(context.Background(), "I have a headache and fever")
	if !out.Failed() {
		t.Fatalf("expected failure")
	}
	if out.Text() != "Error: Could not retrieve information at this time. Please try again later." {
		t.Fatalf("unexpected fallback %q", out.Text())
	}
	if !strings.Contains(logs.String(), "connection refused") || !strings.Contains(logs.String(), OpAnalyze) {
		t.Fatalf("expected failure to be logged, got %q", logs.String())
	}
}

func TestPrepareQuestionsEmbedsBothTexts(t *testing.T) {
	stub := &stubLLM{reply: "**About My Symptoms & Diagnosis**\n* Is it the flu?"}
	a := NewAdvisor(stub, quietLogger(&bytes.Buffer{}))

	out := a.PrepareQuestions(context.Background(), "cough", "possible flu")
	if out.Text() != stub.reply {
		t.Fatalf("unexpected text %q", out.Text())
	}
	if stub.system != QuestionsPrompt {
		t.Fatalf("wrong system prompt")
	}
	if !strings.Contains(stub.user, `- My Symptoms: "cough"`) ||
		!strings.Contains(stub.user, `- AI's Preliminary Analysis: "possible flu"`) {
		t.Fatalf("user message missing inputs: %q", stub.user)
	}
}

func TestPrepareQuestionsMasksFailure(t *testing.T) {
	stub := &stubLLM{err: context.DeadlineExceeded}
	a := NewAdvisor(stub, quietLogger(&bytes.Buffer{}))

	out := a.PrepareQuestions(context.Background(), "cough", "possible flu")
	if out.Text() != QuestionsUnavailable {
		t.Fatalf("unexpected fallback %q", out.Text())
	}
	if !errors.Is(out.Err, context.DeadlineExceeded) {
		t.Fatalf("cause should be kept, got %v", out.Err)
	}
}

func TestPromptsCarryOutputContract(t *testing.T) {
	for _, want := range []string{UnclearSymptomsMessage, "**Probable Conditions:**", "**Recommended Next Steps:**", "**Disclaimer:**"} {
		if !strings.Contains(ConditionsPrompt, want) {
			t.Fatalf("conditions prompt missing %q", want)
		}
	}
	for _, want := range []string{"5-7", "**About My Symptoms & Diagnosis**", "**Treatment & Management**", "**Prevention & Long-Term Outlook**", "**Disclaimer:**"} {
		if !strings.Contains(QuestionsPrompt, want) {
			t.Fatalf("questions prompt missing %q", want)
		}
	}
}
