package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Tool names.
const (
	ToolVectorTrace = "vector_trace"
	ToolImageLoad   = "image_load"
)

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		{
			Name: ToolVectorTrace,
			Description: "Trace a raster motif into a single-color SVG. Shapes are grouped into badges " +
				"(compact marks) and banners (large areas or strips). Provide either path or image_base64.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
					"image_base64": map[string]interface{}{
						"type":        "string",
						"description": "Encoded image bytes (PNG, JPEG, GIF, BMP, TIFF or WebP) as standard base64",
					},
					"layout": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"badges_banners", "flat"},
						"description": "Group shapes into badges and banners, or list them all as badges. Default badges_banners",
					},
					"trace_preset": map[string]interface{}{
						"type":        "string",
						"enum":        []string{"solid", "outline", "detailed"},
						"description": "Filled shapes, stroked edges, or filled shapes with finer detail. Default solid",
					},
					"preview": map[string]interface{}{
						"type":        "boolean",
						"description": "Also return a PNG rendering of the traced paths as base64",
						"default":     false,
					},
				},
			},
		},
		{
			Name:        ToolImageLoad,
			Description: "Load an image file and return its dimensions and format. The file is cached for subsequent vector_trace calls.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": map[string]interface{}{
						"type":        "string",
						"description": "Absolute path to the image file",
					},
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
