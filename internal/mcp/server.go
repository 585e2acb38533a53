package mcp

import (
	"context"
	"sync"

	"remasep/internal/config"
	"remasep/internal/pipeline"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"
)

const instructions = `Generates the emergency-department statistical report (REMASEP) from a visit export.
Use summarize_visits to inspect the counts and data-quality warnings of an export before calling generate_report.`

// Server exposes the report pipeline as MCP tools.
type Server struct {
	cfg    *config.AppConfig
	server *sdk.Server

	mu      sync.Mutex
	lastRun *pipeline.Result
}

// NewServer creates a new MCP server with every tool registered.
func NewServer(cfg *config.AppConfig, version string) *Server {
	s := &Server{cfg: cfg}
	s.server = sdk.NewServer(&sdk.Implementation{Name: "remasep", Version: version}, &sdk.ServerOptions{
		Instructions: instructions,
		InitializedHandler: func(context.Context, *sdk.InitializedRequest) {
			log.Info().Msg("MCP client initialized")
		},
	})
	s.registerTools()
	return s
}

// Serve runs the server over stdio until the client disconnects or ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	return s.Run(ctx, &sdk.StdioTransport{})
}

// Run serves a single session over t.
func (s *Server) Run(ctx context.Context, t sdk.Transport) error {
	log.Info().Msg("MCP session starting")
	return s.server.Run(ctx, t)
}
