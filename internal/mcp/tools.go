package mcp

import (
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
	sdk "github.com/modelcontextprotocol/go-sdk/mcp"
)

type generateInput struct {
	InputPath    string `json:"input_path" jsonschema:"Path to the visit export workbook (.xlsx)"`
	TemplatePath string `json:"template_path,omitempty" jsonschema:"Optional report template workbook. Default: configured TEMPLATE_PATH"`
	OutputDir    string `json:"output_dir,omitempty" jsonschema:"Optional output directory. Default: configured OUTPUT_DIR"`
	Prefix       string `json:"prefix,omitempty" jsonschema:"Optional file name prefix. Default: configured REPORT_PREFIX"`
}

type summarizeInput struct {
	InputPath     string `json:"input_path" jsonschema:"Path to the visit export workbook (.xlsx)"`
	IncludeCharts bool   `json:"include_charts,omitempty" jsonschema:"If true, appends Mermaid charts of the summaries"`
}

type lastRunInput struct{}

// inputSchema infers the schema of T and requires a non-empty input_path.
func inputSchema[T any]() *jsonschema.Schema {
	schema, err := jsonschema.For[T](nil)
	if err != nil {
		panic(fmt.Sprintf("invalid tool input type: %v", err))
	}
	if p, ok := schema.Properties["input_path"]; ok {
		p.MinLength = jsonschema.Ptr(1)
	}
	return schema
}

func (s *Server) registerTools() {
	sdk.AddTool(s.server, &sdk.Tool{
		Name: "generate_report",
		Description: "Generate the emergency-department statistical report from a visit export (.xlsx). " +
			"The report is written to the output directory only if every section could be filled. " +
			"Returns the output path, the summary tables and the classification diagnostics.",
		InputSchema: inputSchema[generateInput](),
	}, s.handleGenerateReport)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "summarize_visits",
		Description: "Classify and aggregate a visit export without writing a report. Returns the summary tables and diagnostics, optionally with Mermaid charts.",
		InputSchema: inputSchema[summarizeInput](),
	}, s.handleSummarizeVisits)

	sdk.AddTool(s.server, &sdk.Tool{
		Name:        "get_last_run",
		Description: "Return the result of the last successful generate_report call in this session.",
	}, s.handleGetLastRun)
}
