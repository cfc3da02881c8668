package main

import (
	"context"
	"encoding/json"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/benjaminschreck/go-docxtiptap/pkg/docxtiptap"
)

const (
	serverName    = "docxtiptap"
	serverVersion = "0.1.0"
)

// Tool argument keys, shared by the schemas and the handlers.
const (
	argPath         = "path"
	argJSONPath     = "json_path"
	argOutputPath   = "output_path"
	argTemplatePath = "template_path"
)

func main() {
	// stdout carries the protocol
	docxtiptap.SetLogger(docxtiptap.NewLogger(os.Stderr, docxtiptap.ParseLogLevel(docxtiptap.GetGlobalConfig().LogLevel)))

	s := server.NewMCPServer(serverName, serverVersion)
	registerTools(s, docxtiptap.New())

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("server error: %v\n", err)
	}
}

func registerTools(s *server.MCPServer, engine *docxtiptap.Engine) {
	s.AddTool(
		mcp.NewTool("docx_to_tiptap",
			mcp.WithDescription("Convert a DOCX file to TipTap JSON. "+
				"Returns {\"doc\":...,\"comments\":[...]}; table formatting the editor cannot show is kept in a rawStylesStorage node."),
			mcp.WithString(argPath,
				mcp.Required(),
				mcp.Description("Absolute path of the DOCX file"),
			),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return importTool(engine, req), nil
		},
	)

	s.AddTool(
		mcp.NewTool("tiptap_to_docx",
			mcp.WithDescription("Convert a TipTap JSON file, as produced by docx_to_tiptap, back into a DOCX file."),
			mcp.WithString(argJSONPath,
				mcp.Required(),
				mcp.Description("Path of the JSON document"),
			),
			mcp.WithString(argOutputPath,
				mcp.Required(),
				mcp.Description("Where to write the DOCX file"),
			),
			mcp.WithString(argTemplatePath,
				mcp.Description("Optional DOCX whose styles and page setup are inherited"),
			),
		),
		func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return exportTool(engine, req), nil
		},
	)
}

func importTool(engine *docxtiptap.Engine, req mcp.CallToolRequest) *mcp.CallToolResult {
	path, ok := req.Params.Arguments[argPath].(string)
	if !ok || path == "" {
		return mcp.NewToolResultError(argPath + " is required")
	}
	result, err := engine.ImportFile(path)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	data, err := json.Marshal(result)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText(string(data))
}

func exportTool(engine *docxtiptap.Engine, req mcp.CallToolRequest) *mcp.CallToolResult {
	jsonPath, ok := req.Params.Arguments[argJSONPath].(string)
	if !ok || jsonPath == "" {
		return mcp.NewToolResultError(argJSONPath + " is required")
	}
	output, ok := req.Params.Arguments[argOutputPath].(string)
	if !ok || output == "" {
		return mcp.NewToolResultError(argOutputPath + " is required")
	}
	template, _ := req.Params.Arguments[argTemplatePath].(string)

	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	parsed, err := docxtiptap.ParseDocument(data)
	if err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	if err := engine.ExportFile(parsed.Doc, output, template, parsed.Comments); err != nil {
		return mcp.NewToolResultError(err.Error())
	}
	return mcp.NewToolResultText("wrote " + output)
}
