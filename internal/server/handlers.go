package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ironsheep/motif-tracer/internal/imaging"
	"github.com/ironsheep/motif-tracer/internal/preview"
	"github.com/ironsheep/motif-tracer/internal/trace"
	"github.com/ironsheep/motif-tracer/internal/vectorize"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke ("vector_trace" or "image_load").
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
// Tool execution errors return a JSON-RPC error response with code -32000.
// An image that cannot be decoded is not a tool error: vector_trace reports
// it in its result with ok set to false.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, CodeInvalidParams, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		s.log.Warn("tool call failed", "tool", params.Name, "error", err)
		return s.errorResponse(req.ID, CodeToolFailed, "Tool execution failed", err.Error())
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
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case ToolVectorTrace:
		return s.handleVectorTrace(ctx, args)
	case ToolImageLoad:
		return s.handleImageLoad(args)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	data, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(data)
}

type vectorTraceArgs struct {
	Path        string `json:"path"`
	ImageBase64 string `json:"image_base64"`
	Layout      string `json:"layout"`
	TracePreset string `json:"trace_preset"`
	Preview     bool   `json:"preview"`
}

// vectorTraceResult is the vector_trace payload: the tracing response plus
// an optional rendering of the traced paths.
type vectorTraceResult struct {
	trace.Response
	PreviewPNG   string `json:"preview_png,omitempty"`
	PreviewError string `json:"preview_error,omitempty"`
}

func (s *Server) handleVectorTrace(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a vectorTraceArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}

	data, source, err := s.traceInput(a)
	if err != nil {
		if trace.IsDecodeError(err) {
			return vectorTraceResult{Response: trace.NewResponse(nil, err)}, nil
		}
		return nil, err
	}

	resp, res := s.svc.Trace(ctx, vectorize.Request{
		Image:  data,
		Layout: a.Layout,
		Preset: a.TracePreset,
		Source: source,
	})

	out := vectorTraceResult{Response: resp}
	if a.Preview && res != nil {
		png, err := preview.PNG(res)
		if err != nil {
			s.log.Warn("preview rendering failed", "source", source, "error", err)
			out.PreviewError = err.Error()
		} else {
			out.PreviewPNG = base64.StdEncoding.EncodeToString(png)
		}
	}
	return out, nil
}

// traceInput resolves the image bytes of a vector_trace call. Exactly one of
// path and image_base64 must be given.
func (s *Server) traceInput(a vectorTraceArgs) ([]byte, string, error) {
	switch {
	case a.Path != "" && a.ImageBase64 != "":
		return nil, "", errors.New("provide either path or image_base64, not both")
	case a.Path != "":
		data, err := s.cache.Load(a.Path)
		if err != nil {
			return nil, "", err
		}
		return data, filepath.Base(a.Path), nil
	case a.ImageBase64 != "":
		data, err := base64.StdEncoding.DecodeString(a.ImageBase64)
		if err != nil {
			return nil, "", fmt.Errorf("invalid image_base64: %w", err)
		}
		return data, "inline", nil
	default:
		return nil, "", errors.New("path or image_base64 is required")
	}
}
