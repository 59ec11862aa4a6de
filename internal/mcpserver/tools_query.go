package mcpserver

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/standardbeagle/julie/internal/mcpoutput"
	"github.com/standardbeagle/julie/internal/query"
	julierrors "github.com/standardbeagle/julie/internal/errors"
)

// --- fast_search ---

type fastSearchParams struct {
	Query        string `json:"query"`
	SearchMethod string `json:"search_method"`
	SearchTarget string `json:"search_target"`
	Language     string `json:"language"`
	FilePattern  string `json:"file_pattern"`
	Limit        int    `json:"limit"`
	Workspace    string `json:"workspace"`
	Output       string `json:"output"`
	ContextLines int    `json:"context_lines"` // reserved: not yet consumed by the query layer
}

func (s *Server) registerFastSearchTool() {
	s.server.AddTool(&mcp.Tool{
		Name:        "fast_search",
		Description: "Search symbols, definitions, or file content across an indexed workspace by text, semantic similarity, or a hybrid of both.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"query":         stringSchema("Search query"),
				"search_method": stringSchema("text | semantic | hybrid"),
				"search_target": stringSchema("symbols | content | definitions"),
				"language":      stringSchema("Restrict to one language"),
				"file_pattern":  stringSchema("Glob restricting candidate files"),
				"limit":         intSchema("Maximum results"),
				"workspace":     stringSchema("Workspace ID, or omitted/\"primary\" for the primary workspace"),
				"output":        stringSchema("json | toon | auto | code, or lines for line-level content hits"),
				"context_lines": intSchema("Accepted but ignored: content hits carry no surrounding context lines"),
			},
			Required: []string{"query"},
		},
	}, s.handleFastSearch)
}

func (s *Server) handleFastSearch(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p fastSearchParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("fast_search", julierrors.NewUsageError("fast_search", "arguments", err.Error()))
	}

	engine, err := s.manager.Engine(p.Workspace)
	if err != nil {
		return errorResponse("fast_search", err)
	}

	mode := query.ModeText
	if p.SearchMethod != "" {
		mode = query.SearchMode(p.SearchMethod)
	}
	target := query.TargetSymbols
	if p.SearchTarget != "" {
		target = query.SearchTarget(p.SearchTarget)
	}
	output := query.OutputSymbols
	if p.Output == "lines" {
		output = query.OutputLines
	}

	result, err := engine.FastSearch(ctx, query.SearchParams{
		Query:       p.Query,
		Mode:        mode,
		Target:      target,
		Language:    p.Language,
		FilePattern: p.FilePattern,
		Limit:       p.Limit,
		Output:      output,
	})
	if err != nil {
		return errorResponse("fast_search", err)
	}

	count := len(result.Symbols) + len(result.Lines)
	return formattedResponse(mcpoutput.Format(p.Output), count, result)
}

// --- fast_goto ---

type fastGotoParams struct {
	Symbol      string `json:"symbol"`
	ContextFile string `json:"context_file"`
	LineNumber  int    `json:"line_number"`
	Workspace   string `json:"workspace"`
}

func (s *Server) registerFastGotoTool() {
	s.server.AddTool(&mcp.Tool{
		Name:        "fast_goto",
		Description: "Resolve a symbol name to its ranked definition candidates, nearest first when context_file/line_number are given.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol":       stringSchema("Symbol name, optionally qualified (pkg.Name)"),
				"context_file": stringSchema("File the lookup originates from, for proximity ranking"),
				"line_number":  intSchema("Line the lookup originates from"),
				"workspace":    stringSchema("Workspace ID, or omitted/\"primary\""),
			},
			Required: []string{"symbol"},
		},
	}, s.handleFastGoto)
}

func (s *Server) handleFastGoto(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p fastGotoParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("fast_goto", julierrors.NewUsageError("fast_goto", "arguments", err.Error()))
	}
	engine, err := s.manager.Engine(p.Workspace)
	if err != nil {
		return errorResponse("fast_goto", err)
	}
	defs, err := engine.FastGoto(ctx, query.GotoParams{Symbol: p.Symbol, ContextFile: p.ContextFile, LineNumber: p.LineNumber})
	if err != nil {
		return errorResponse("fast_goto", err)
	}
	return jsonResponse(defs)
}

// --- fast_refs ---

type fastRefsParams struct {
	Symbol            string `json:"symbol"`
	IncludeDefinition bool   `json:"include_definition"`
	Limit             int    `json:"limit"`
	Workspace         string `json:"workspace"`
	ReferenceKind     string `json:"reference_kind"`
}

func (s *Server) registerFastRefsTool() {
	s.server.AddTool(&mcp.Tool{
		Name:        "fast_refs",
		Description: "List every reference site of a symbol, optionally including its own definition(s).",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol":             stringSchema("Symbol name"),
				"include_definition": boolSchema("Include the symbol's own definitions in the result"),
				"limit":              intSchema("Maximum references"),
				"workspace":          stringSchema("Workspace ID, or omitted/\"primary\""),
				"reference_kind":     stringSchema("Filter references by relationship/identifier kind"),
			},
			Required: []string{"symbol"},
		},
	}, s.handleFastRefs)
}

func (s *Server) handleFastRefs(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p fastRefsParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("fast_refs", julierrors.NewUsageError("fast_refs", "arguments", err.Error()))
	}
	engine, err := s.manager.Engine(p.Workspace)
	if err != nil {
		return errorResponse("fast_refs", err)
	}
	result, err := engine.FastRefs(ctx, query.RefsParams{
		Symbol:            p.Symbol,
		IncludeDefinition: p.IncludeDefinition,
		Limit:             p.Limit,
		ReferenceKind:     p.ReferenceKind,
	})
	if err != nil {
		return errorResponse("fast_refs", err)
	}
	return jsonResponse(result)
}

// --- trace_call_path ---

type traceCallPathParams struct {
	Symbol       string `json:"symbol"`
	Direction    string `json:"direction"`
	MaxDepth     int    `json:"max_depth"`
	ContextFile  string `json:"context_file"`
	Workspace    string `json:"workspace"`
	OutputFormat string `json:"output_format"`
}

func (s *Server) registerTraceCallPathTool() {
	s.server.AddTool(&mcp.Tool{
		Name:        "trace_call_path",
		Description: "Build the call-path tree upstream, downstream, or both directions from a symbol, following direct calls, cross-language naming variants, and semantic bridges.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol":        stringSchema("Symbol name"),
				"direction":     stringSchema("upstream | downstream | both"),
				"max_depth":     intSchema("Maximum tree depth"),
				"context_file":  stringSchema("File the trace originates from, to disambiguate the root symbol"),
				"workspace":     stringSchema("Workspace ID, or omitted/\"primary\""),
				"output_format": stringSchema("json | tree"),
			},
			Required: []string{"symbol", "direction"},
		},
	}, s.handleTraceCallPath)
}

func (s *Server) handleTraceCallPath(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p traceCallPathParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("trace_call_path", julierrors.NewUsageError("trace_call_path", "arguments", err.Error()))
	}
	engine, err := s.manager.Engine(p.Workspace)
	if err != nil {
		return errorResponse("trace_call_path", err)
	}
	direction := query.DirectionBoth
	if p.Direction != "" {
		direction = query.TraceDirection(p.Direction)
	}
	root, err := engine.TraceCallPath(ctx, query.TraceParams{
		Symbol:      p.Symbol,
		Direction:   direction,
		MaxDepth:    p.MaxDepth,
		ContextFile: p.ContextFile,
	})
	if err != nil {
		return errorResponse("trace_call_path", err)
	}
	if p.OutputFormat == "tree" {
		return jsonResponse(map[string]interface{}{"tree": renderPathTreeText(root)})
	}
	return jsonResponse(root)
}

func renderPathTreeText(node *query.PathNode) string {
	if node == nil {
		return ""
	}
	var b []byte
	var walk func(n *query.PathNode, prefix string)
	walk = func(n *query.PathNode, prefix string) {
		b = append(b, []byte(prefix+n.Symbol.Name+"\n")...)
		for _, c := range n.Children {
			walk(c, prefix+"  ")
		}
	}
	walk(node, "")
	return string(b)
}

// --- get_symbols ---

type getSymbolsParams struct {
	FilePath  string `json:"file_path"`
	MaxDepth  int    `json:"max_depth"`
	Target    string `json:"target"`
	Limit     int    `json:"limit"`
	Mode      string `json:"mode"`
	Workspace string `json:"workspace"`
	Output    string `json:"output_format"`
}

func (s *Server) registerGetSymbolsTool() {
	s.server.AddTool(&mcp.Tool{
		Name:        "get_symbols",
		Description: "Return a file's symbol tree, optionally filtered by depth or name and including extracted source bodies.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"file_path":     stringSchema("Workspace-relative or absolute file path"),
				"max_depth":     intSchema("Maximum nesting depth, 0 for unlimited"),
				"target":        stringSchema("Substring filter on symbol name"),
				"limit":         intSchema("Maximum symbols"),
				"mode":          stringSchema("structure | minimal | full"),
				"workspace":     stringSchema("Workspace ID, or omitted/\"primary\""),
				"output_format": stringSchema("json | toon | auto | code"),
			},
			Required: []string{"file_path"},
		},
	}, s.handleGetSymbols)
}

func (s *Server) handleGetSymbols(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p getSymbolsParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("get_symbols", julierrors.NewUsageError("get_symbols", "arguments", err.Error()))
	}
	engine, err := s.manager.Engine(p.Workspace)
	if err != nil {
		return errorResponse("get_symbols", err)
	}

	resolved, err := secureWorkspacePath(p.FilePath, engine.Root)
	if err != nil {
		return errorResponse("get_symbols", err)
	}

	mode := query.ModeStructure
	if p.Mode != "" {
		mode = query.SymbolMode(p.Mode)
	}
	symbols, err := engine.GetSymbols(ctx, query.GetSymbolsParams{
		FilePath: resolved,
		MaxDepth: p.MaxDepth,
		Target:   p.Target,
		Limit:    p.Limit,
		Mode:     mode,
	})
	if err != nil {
		return errorResponse("get_symbols", err)
	}
	return formattedResponse(mcpoutput.Format(p.Output), len(symbols), symbols)
}

// --- deep_dive ---

type deepDiveParams struct {
	Symbol      string `json:"symbol"`
	Depth       string `json:"depth"`
	ContextFile string `json:"context_file"`
	Workspace   string `json:"workspace"`
}

func (s *Server) registerDeepDiveTool() {
	s.server.AddTool(&mcp.Tool{
		Name:        "deep_dive",
		Description: "Return a symbol's definition, bounded caller/callee context, and children in a single call, or a disambiguation list when the name is ambiguous.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"symbol":       stringSchema("Symbol name"),
				"depth":        stringSchema("overview | context | full"),
				"context_file": stringSchema("File to disambiguate which same-named symbol is meant"),
				"workspace":    stringSchema("Workspace ID, or omitted/\"primary\""),
			},
			Required: []string{"symbol"},
		},
	}, s.handleDeepDive)
}

func (s *Server) handleDeepDive(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p deepDiveParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("deep_dive", julierrors.NewUsageError("deep_dive", "arguments", err.Error()))
	}
	engine, err := s.manager.Engine(p.Workspace)
	if err != nil {
		return errorResponse("deep_dive", err)
	}
	depth := query.DepthOverview
	if p.Depth != "" {
		depth = query.DeepDiveDepth(p.Depth)
	}
	result, err := engine.DeepDive(ctx, query.DeepDiveParams{Symbol: p.Symbol, Depth: depth, ContextFile: p.ContextFile})
	if err != nil {
		return errorResponse("deep_dive", err)
	}
	return jsonResponse(result)
}

// --- find_logic ---

type findLogicParams struct {
	Domain           string  `json:"domain"`
	MaxResults       int     `json:"max_results"`
	GroupByLayer     bool    `json:"group_by_layer"`
	MinBusinessScore float64 `json:"min_business_score"`
	OutputFormat     string  `json:"output_format"`
	Workspace        string  `json:"workspace"`
}

func (s *Server) registerFindLogicTool() {
	s.server.AddTool(&mcp.Tool{
		Name:        "find_logic",
		Description: "Rank symbols by how likely they implement business logic for a domain, blending keyword, architectural-pattern, path-layer, and call-graph centrality signals.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"domain":             stringSchema("Business domain keywords, e.g. \"billing invoice\""),
				"max_results":        intSchema("Maximum candidates"),
				"group_by_layer":     boolSchema("Group results by architectural layer"),
				"min_business_score": numberSchema("Drop candidates below this composite score"),
				"output_format":      stringSchema("json | toon | auto | code"),
				"workspace":          stringSchema("Workspace ID, or omitted/\"primary\""),
			},
			Required: []string{"domain"},
		},
	}, s.handleFindLogic)
}

func (s *Server) handleFindLogic(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p findLogicParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("find_logic", julierrors.NewUsageError("find_logic", "arguments", err.Error()))
	}
	engine, err := s.manager.Engine(p.Workspace)
	if err != nil {
		return errorResponse("find_logic", err)
	}
	grouped, err := engine.FindLogic(ctx, query.FindLogicParams{
		Domain:           p.Domain,
		MaxResults:       p.MaxResults,
		GroupByLayer:     p.GroupByLayer,
		MinBusinessScore: p.MinBusinessScore,
	})
	if err != nil {
		return errorResponse("find_logic", err)
	}
	total := 0
	for _, layer := range grouped {
		total += len(layer)
	}
	return formattedResponse(mcpoutput.Format(p.OutputFormat), total, grouped)
}
