package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/ironsheep/colony-counter/internal/colony"
	"github.com/ironsheep/colony-counter/internal/config"
	"github.com/ironsheep/colony-counter/internal/imaging"
	"github.com/ironsheep/colony-counter/internal/pipeline"
	"github.com/ironsheep/colony-counter/internal/report"
)

// errInvalidArgs marks tool failures caused by the caller's arguments.
var errInvalidArgs = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "colony_count", "image_load").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Argument and configuration errors return code -32602; other tool execution
// errors return code -32000. Decoded images are dropped from the cache once
// the call returns so a long session does not accumulate plates.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	defer s.cache.Clear()

	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn().Str("tool", params.Name).Err(err).Msg("tool failed")
		if errors.Is(err, errInvalidArgs) || errors.Is(err, colony.ErrInvalidConfig) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each colony tool:
//  1. Decodes its arguments and overlays them on the server configuration
//  2. Validates the resulting configuration
//  3. Runs the pipeline (through the shared image cache)
//  4. Returns a JSON-serializable result
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)

	case "colony_count":
		return s.handleColonyCount(ctx, args)
	case "colony_descriptors":
		return s.handleColonyDescriptors(ctx, args)
	case "colony_classify":
		return s.handleColonyClassify(ctx, args)
	case "colony_crop_region":
		return s.handleColonyCropRegion(ctx, args)

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArgs, name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 {
		args = []byte("{}")
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArgs, err)
	}
	return nil
}

// === Image Information ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if strings.TrimSpace(a.Path) == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

// === Colony Tools ===

// colonyArgs are the arguments shared by the colony tools: the image path and
// optional overrides of any configuration field.
type colonyArgs struct {
	Path string `json:"path"`
	config.File
}

// runner validates a and returns a pipeline runner for its configuration.
func (s *Server) runner(a colonyArgs) (*pipeline.Runner, error) {
	if strings.TrimSpace(a.Path) == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArgs)
	}
	cfg := s.cfg
	a.File.Apply(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return pipeline.New(cfg, s.log, s.cache), nil
}

func (s *Server) analyze(ctx context.Context, args json.RawMessage) (*pipeline.Analysis, error) {
	var a colonyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.runner(a)
	if err != nil {
		return nil, err
	}
	return r.Analyze(ctx, a.Path)
}

func (s *Server) handleColonyCount(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a colonyArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	r, err := s.runner(a)
	if err != nil {
		return nil, err
	}
	res, err := r.Run(ctx, a.Path, r.Config().OutputDir)
	if err != nil {
		return nil, err
	}
	return res.Summary(), nil
}

type descriptorsResult struct {
	Path      string                 `json:"path"`
	Threshold float64                `json:"threshold"`
	Count     int                    `json:"count"`
	Regions   colony.DescriptorTable `json:"regions"`
}

func (s *Server) handleColonyDescriptors(ctx context.Context, args json.RawMessage) (interface{}, error) {
	an, err := s.analyze(ctx, args)
	if err != nil {
		return nil, err
	}
	return &descriptorsResult{
		Path:      an.Path,
		Threshold: an.Threshold,
		Count:     len(an.Table),
		Regions:   an.Table,
	}, nil
}

type classifyResult struct {
	Path      string               `json:"path"`
	Threshold float64              `json:"threshold"`
	Regions   int                  `json:"regions"`
	Modes     []report.ModeSummary `json:"modes"`
	Report    string               `json:"report"`
}

func (s *Server) handleColonyClassify(ctx context.Context, args json.RawMessage) (interface{}, error) {
	an, err := s.analyze(ctx, args)
	if err != nil {
		return nil, err
	}
	results := an.Ordered()

	var sb strings.Builder
	if err := report.WriteCounts(&sb, results); err != nil {
		return nil, err
	}
	return &classifyResult{
		Path:      an.Path,
		Threshold: an.Threshold,
		Regions:   len(an.Table),
		Modes:     report.NewModeSummaries(results),
		Report:    sb.String(),
	}, nil
}

type cropRegionArgs struct {
	colonyArgs
	Region  int     `json:"region"`
	Padding int     `json:"padding"`
	Scale   float64 `json:"scale"`
}

type cropRegionResult struct {
	Region colony.Region       `json:"region"`
	Crop   *imaging.CropResult `json:"crop"`
}

func (s *Server) handleColonyCropRegion(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a cropRegionArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Scale == 0 {
		a.Scale = 1.0
	}
	r, err := s.runner(a.colonyArgs)
	if err != nil {
		return nil, err
	}
	an, err := r.Analyze(ctx, a.Path)
	if err != nil {
		return nil, err
	}
	if a.Region < 1 || a.Region > len(an.Table) {
		return nil, fmt.Errorf("%w: region %d outside 1..%d", errInvalidArgs, a.Region, len(an.Table))
	}

	region := an.Table[a.Region-1]
	crop, err := imaging.CropRegion(an.Image, region.BBox, a.Padding, a.Scale)
	if err != nil {
		return nil, err
	}
	return &cropRegionResult{Region: region, Crop: crop}, nil
}
