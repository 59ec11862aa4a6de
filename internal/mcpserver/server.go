package mcpserver

import (
	"context"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/julie/internal/config"
	"github.com/standardbeagle/julie/internal/diagnostics"
)

// Server wraps an mcp.Server configured with Julie's 7 navigation/search tools plus
// manage_workspace, grounded on the teacher's internal/mcp.Server: a thin
// struct holding the SDK server plus whatever this domain needs behind
// each handler (here, a workspace Manager instead of a MasterIndex).
type Server struct {
	cfg     *config.Config
	log     *diagnostics.Logger
	manager *Manager
	server  *mcp.Server
}

// NewServer constructs the MCP server and registers every tool. Mirrors
// the teacher's NewServer(goroutineIndex, cfg) shape, substituting a
// workspace Manager for the teacher's MasterIndex.
func NewServer(cfg *config.Config) (*Server, error) {
	log := diagnostics.NewLogger(true)

	manager, err := NewManager(cfg, log)
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:     cfg,
		log:     log,
		manager: manager,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "julie-mcp-server",
			Version: "0.1.0",
		}, nil),
	}

	s.registerTools()
	return s, nil
}

// Run serves over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	defer s.manager.Close()
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	s.registerWorkspaceTool()
	s.registerFastSearchTool()
	s.registerFastGotoTool()
	s.registerFastRefsTool()
	s.registerTraceCallPathTool()
	s.registerGetSymbolsTool()
	s.registerDeepDiveTool()
	s.registerFindLogicTool()
}

func stringSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: desc}
}

func intSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "integer", Description: desc}
}

func boolSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "boolean", Description: desc}
}

func numberSchema(desc string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "number", Description: desc}
}
