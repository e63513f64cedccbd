// Package mcpserver exposes the list, history, query and presentation
// operations as Model Context Protocol tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/custodia-labs/risklists/internal/core/domain"
	"github.com/custodia-labs/risklists/internal/core/ports/driving"
)

// Implementation name reported to clients.
const serverName = "risklists"

var errMissingListService = errors.New("list service dependency required")

// Dependencies are the services behind the tools. Only Lists is required;
// tools for missing services are not registered.
type Dependencies struct {
	Lists         driving.ListService
	History       driving.HistoryService
	Query         driving.QueryService
	Presentations driving.PresentationService
	Logger        *zap.Logger
}

// Server wraps an MCP server with the risk list tools.
type Server struct {
	server *mcp.Server
	deps   Dependencies
	logger *zap.Logger
}

// New creates the server and registers its tools.
func New(version string, deps Dependencies) (*Server, error) {
	if deps.Lists == nil {
		return nil, errMissingListService
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		server: mcp.NewServer(&mcp.Implementation{Name: serverName, Version: version}, nil),
		deps:   deps,
		logger: logger,
	}
	s.registerTools()
	return s, nil
}

// MCP returns the underlying server.
func (s *Server) MCP() *mcp.Server {
	return s.server
}

// RunStdio serves over stdin and stdout until the client disconnects or ctx
// is cancelled.
func (s *Server) RunStdio(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

type getListInput struct {
	ListName string `json:"list_name" jsonschema:"list name, e.g. Risk Register, riskmitigations or Follow up"`
}

type compareInput struct {
	ID              string `json:"id,omitempty" jsonschema:"list item ID; may be omitted when both dates are given"`
	VersionCategory string `json:"version_category" jsonschema:"list the snapshots belong to"`
	StartDate       string `json:"start_date,omitempty" jsonschema:"ISO-8601 lower bound"`
	EndDate         string `json:"end_date,omitempty" jsonschema:"ISO-8601 upper bound"`
}

type translateInput struct {
	Question string `json:"question" jsonschema:"question about list history"`
	Model    string `json:"model,omitempty" jsonschema:"deployment name: gpt-4o or o1"`
}

type extractInput struct {
	FilePath string `json:"file_path" jsonschema:"path of the presentation in the site document library"`
}

type cleanInput struct {
	ListName string `json:"list_name" jsonschema:"list the payload belongs to"`
	Payload  string `json:"payload" jsonschema:"JSON array of SharePoint list items"`
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_list",
		Description: "Return the stored cleaned records of a SharePoint list. Risk lists return the merged dataset.",
	}, s.getList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "clean_list",
		Description: "Clean a raw SharePoint list payload without storing it.",
	}, s.cleanList)

	if s.deps.History != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "compare_versions",
			Description: "List field changes between stored versions of a list item, grouped by date and author.",
		}, s.compareVersions)
	}
	if s.deps.Query != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "translate_query",
			Description: "Translate a question about list history into a SQL query for the version store.",
		}, s.translateQuery)
	}
	if s.deps.Presentations != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "extract_pptx_tables",
			Description: "Extract slide titles and tables from a presentation in the SharePoint document library.",
		}, s.extractTables)
	}
}

func (s *Server) getList(ctx context.Context, _ *mcp.CallToolRequest, in getListInput) (*mcp.CallToolResult, any, error) {
	items, err := s.deps.Lists.Get(ctx, in.ListName)
	if err != nil {
		return s.fail("get_list", err)
	}
	return jsonResult(items)
}

func (s *Server) cleanList(_ context.Context, _ *mcp.CallToolRequest, in cleanInput) (*mcp.CallToolResult, any, error) {
	items, err := domain.ParseArray([]byte(in.Payload))
	if err != nil {
		return s.fail("clean_list", fmt.Errorf("%w: payload: %v", domain.ErrInvalidInput, err))
	}
	cleaned, err := s.deps.Lists.CleanLocal(items, in.ListName)
	if err != nil {
		return s.fail("clean_list", err)
	}
	return jsonResult(cleaned)
}

func (s *Server) compareVersions(ctx context.Context, _ *mcp.CallToolRequest, in compareInput) (*mcp.CallToolResult, any, error) {
	result, err := s.deps.History.Compare(ctx, domain.VersionQuery{
		ID:              in.ID,
		VersionCategory: in.VersionCategory,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
	})
	if err != nil {
		return s.fail("compare_versions", err)
	}
	return jsonResult(result)
}

func (s *Server) translateQuery(ctx context.Context, _ *mcp.CallToolRequest, in translateInput) (*mcp.CallToolResult, any, error) {
	translation, err := s.deps.Query.Translate(ctx, in.Question, in.Model)
	if err != nil {
		return s.fail("translate_query", err)
	}
	return textResult(translation.Response), nil, nil
}

func (s *Server) extractTables(ctx context.Context, _ *mcp.CallToolRequest, in extractInput) (*mcp.CallToolResult, any, error) {
	slides, err := s.deps.Presentations.Extract(ctx, in.FilePath)
	if err != nil {
		return s.fail("extract_pptx_tables", err)
	}
	return jsonResult(slides)
}

// fail reports err to the client as a tool error rather than a protocol error.
func (s *Server) fail(tool string, err error) (*mcp.CallToolResult, any, error) {
	s.logger.Debug("tool failed", zap.String("tool", tool), zap.Error(err))
	result := textResult(err.Error())
	result.IsError = true
	return result, nil, nil
}

func jsonResult(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("encode result: %w", err)
	}
	return textResult(string(data)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}
