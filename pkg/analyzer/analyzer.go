package analyzer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/helmcode/log-analyzer/pkg/llm"
	"github.com/helmcode/log-analyzer/pkg/model"
	"github.com/helmcode/log-analyzer/pkg/parser"
	"github.com/helmcode/log-analyzer/pkg/prompts"
)

type Analyzer struct {
	llm llm.LLM
}

func NewWithLLM(l llm.LLM) *Analyzer {
	return &Analyzer{llm: l}
}

// Analyze sends the log to the model once and extracts the JSON summary from
// its reply. When the reply holds no parseable JSON the result wraps the raw
// text instead; only a failed remote call is returned as an error.
func (a *Analyzer) Analyze(ctx context.Context, logText string) (*model.Result, error) {
	messages := prompts.BuildLogPrompt(logText)

	rawResp, err := a.llm.Chat(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("LLM chat: %w", err)
	}

	structured, ok := parser.ExtractJSON(rawResp)
	if !ok {
		slog.Warn("no JSON found in model reply, returning raw response", "model", a.llm.GetModel(), "reply_bytes", len(rawResp))
		return model.NewResult(rawResp, nil), nil
	}

	slog.Debug("extracted JSON from model reply", "model", a.llm.GetModel(), "json_bytes", len(structured))
	return model.NewResult(rawResp, structured), nil
}
