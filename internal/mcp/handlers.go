package mcp

import (
	"context"
	"errors"

	"remasep/internal/pipeline"
	"remasep/internal/visuals"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

var errNoRun = errors.New("no report has been generated in this session")

func (s *Server) handleGenerateReport(ctx context.Context, _ *sdk.CallToolRequest, in generateInput) (*sdk.CallToolResult, any, error) {
	run := pipeline.NewRun(s.cfg, in.InputPath)
	if in.TemplatePath != "" {
		run.TemplatePath = in.TemplatePath
	}
	if in.OutputDir != "" {
		run.OutputDir = in.OutputDir
	}
	if in.Prefix != "" {
		run.Prefix = in.Prefix
	}

	res, err := pipeline.Generate(ctx, run)
	if err != nil {
		log.Warn().Err(err).Str("tool", "generate_report").Msg("Tool call failed")
		return nil, nil, err
	}

	s.mu.Lock()
	s.lastRun = res
	s.mu.Unlock()

	return nil, WrapResponse(res, warnings(res.Analysis)), nil
}

func (s *Server) handleSummarizeVisits(ctx context.Context, _ *sdk.CallToolRequest, in summarizeInput) (*sdk.CallToolResult, any, error) {
	analysis, err := pipeline.Analyze(ctx, pipeline.NewRun(s.cfg, in.InputPath))
	if err != nil {
		log.Warn().Err(err).Str("tool", "summarize_visits").Msg("Tool call failed")
		return nil, nil, err
	}

	resp := WrapResponse(analysis, warnings(*analysis))
	if in.IncludeCharts || s.cfg.EnableMermaidCharts {
		resp["charts"] = visuals.GenerateAll(analysis.Summaries)
	}
	log.Debug().Str("input", in.InputPath).Int("classified", analysis.Diagnostics.Classified).Msg("Summarized visits")
	return nil, resp, nil
}

func (s *Server) handleGetLastRun(context.Context, *sdk.CallToolRequest, lastRunInput) (*sdk.CallToolResult, any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.lastRun == nil {
		return nil, nil, errNoRun
	}
	return nil, WrapResponse(s.lastRun, warnings(s.lastRun.Analysis)), nil
}
