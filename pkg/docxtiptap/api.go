package docxtiptap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

// Engine provides the main API for converting documents.
// Use New() to create a new engine instance. An Engine holds no per-call
// state and is safe for concurrent use.
type Engine struct {
	config *Config
	logger *Logger
}

// ImportResult is the outcome of converting a DOCX container
type ImportResult struct {
	Doc      *Node     `json:"doc"`
	Comments []Comment `json:"comments"`
}

// ParseDocument decodes JSON produced by Import. It accepts either the
// {"doc":...,"comments":[...]} envelope or a bare {"type":"doc"} tree.
func ParseDocument(data []byte) (*ImportResult, error) {
	var probe struct {
		Type string          `json:"type"`
		Doc  json.RawMessage `json:"doc"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse document JSON: %w", err)
	}

	if probe.Type != "" {
		doc, err := ParseNode(data)
		if err != nil {
			return nil, err
		}
		return &ImportResult{Doc: doc}, nil
	}
	if len(probe.Doc) == 0 {
		return nil, errors.New("document JSON has neither a type nor a doc field")
	}

	var result ImportResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse document JSON: %w", err)
	}
	return &result, nil
}

// New creates a new engine with the global configuration.
func New() *Engine {
	return NewWithConfig(GetGlobalConfig())
}

// NewWithConfig creates a new engine with custom configuration.
func NewWithConfig(config *Config) *Engine {
	if config == nil {
		config = DefaultConfig()
	}
	return &Engine{config: config, logger: GetLogger()}
}

// WithLogger returns a copy of the engine that logs through logger
func (e *Engine) WithLogger(logger *Logger) *Engine {
	clone := *e
	clone.logger = logger
	return &clone
}

// Config returns the engine configuration
func (e *Engine) Config() *Config {
	return e.config
}

// Import converts DOCX bytes into an editor document plus the comment
// registry. A malformed container is reported as a *ContainerError and no
// partial result is returned.
func (e *Engine) Import(data []byte) (*ImportResult, error) {
	if limit := e.config.MaxContainerBytes; limit > 0 && int64(len(data)) > limit {
		return nil, NewContainerError("open", "", fmt.Errorf("container is %d bytes, limit is %d", len(data), limit))
	}

	container, err := OpenContainer(data)
	if err != nil {
		return nil, err
	}

	tree, err := BuildTree(container, BuildOptions{
		OutlineSections: e.config.OutlineSections,
		Logger:          e.logger,
	})
	if err != nil {
		return nil, err
	}

	doc := ProjectWithOptions(tree, ProjectOptions{
		NestedTablePlaceholder: e.config.NestedTablePlaceholder,
		Logger:                 e.logger,
	})

	e.logger.WithFields(Fields{
		"blocks":   len(tree.Blocks),
		"comments": len(tree.Comments),
	}).Debug("imported document")

	return &ImportResult{Doc: doc, Comments: tree.Comments.List()}, nil
}

// ImportFile reads and converts a DOCX file
func (e *Engine) ImportFile(path string) (*ImportResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	result, err := e.Import(data)
	if err != nil {
		return nil, WithContext(err, "import", map[string]interface{}{"path": path})
	}
	return result, nil
}

// Export converts an editor document into DOCX bytes. Engine configuration
// fills any option left empty.
func (e *Engine) Export(doc *Node, opts ExportOptions) ([]byte, error) {
	if opts.DefaultTableStyle == "" {
		opts.DefaultTableStyle = e.config.DefaultTableStyle
	}
	if opts.NestedTablePlaceholder == "" {
		opts.NestedTablePlaceholder = e.config.NestedTablePlaceholder
	}
	if opts.Logger == nil {
		opts.Logger = e.logger
	}
	return Export(doc, opts)
}

// ExportFile converts doc and writes the result to path. templatePath may be
// empty.
func (e *Engine) ExportFile(doc *Node, path, templatePath string, comments []Comment) error {
	opts := ExportOptions{Comments: comments}
	if templatePath != "" {
		template, err := os.ReadFile(templatePath)
		if err != nil {
			return fmt.Errorf("failed to read template %s: %w", templatePath, err)
		}
		opts.Template = template
	}

	data, err := e.Export(doc, opts)
	if err != nil {
		return WithContext(err, "export", map[string]interface{}{"path": path})
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &ExportError{Op: "write file", Cause: err}
	}
	return nil
}
