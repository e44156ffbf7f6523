// Package server implements the MCP (Model Context Protocol) server for motif tracing.
//
// This package provides a JSON-RPC 2.0 server that exposes the tracer through
// the MCP protocol, so MCP-compatible clients can turn raster motifs into SVG
// without going through the HTTP API.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
//   - vector_trace: Trace an image (by path or inline base64) into an SVG with
//     badge and banner groups, optionally with a PNG preview
//   - image_load: Load image and get metadata
//
// # Image Caching
//
// Images read from disk are cached by path as encoded bytes and reused across
// tool calls. Every trace still decodes into its own raster, so concurrent
// calls on the same file never share pixel state.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// An image that cannot be decoded is reported inside the vector_trace result
// with "ok": false, the same shape the HTTP API returns.
//
// # Usage
//
//	srv := server.New(server.WithService(svc), server.WithLogger(log))
//	if err := srv.Serve(ctx, os.Stdin, os.Stdout); err != nil {
//	    log.Error("mcp server stopped", "error", err)
//	}
package server
