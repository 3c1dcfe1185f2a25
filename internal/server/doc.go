// Package server implements the MCP (Model Context Protocol) server exposing
// the colony counter as tools.
//
// The server speaks JSON-RPC 2.0 over a line-oriented stream, so MCP-capable
// clients can count and inspect colonies on plate images without shelling out
// to the CLI.
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
// Image Information:
//   - image_load: Load image and get metadata
//
// Colony Analysis:
//   - colony_count: Full pipeline, writes mask images, returns counts
//   - colony_descriptors: Region descriptor table
//   - colony_classify: Per-mode members, statistics and size band
//   - colony_crop_region: Base64 PNG of one region's bounding box
//
// Every colony tool accepts the configuration fields (threshold,
// eccentricity_threshold, area_deviation, modes, ...) as optional arguments
// that override the server configuration for that call.
//
// # Image Caching
//
// Decoded images are cached by path for the lifetime of the server process, so
// repeated calls on one plate decode it once. Cached images are never modified.
//
// # Error Handling
//
// Tool failures are returned as JSON-RPC error responses with:
//   - code: -32602 for bad arguments or configuration, -32000 for execution
//     failures (unreadable image, extraction errors), -32700 for unparsable
//     requests
//   - message: Human-readable error description
//   - data: The Go error string
//
// # Usage
//
//	srv := server.New(cfg, logger, version)
//	if err := srv.Run(ctx, os.Stdin, os.Stdout); err != nil {
//	    logger.Fatal().Err(err).Msg("server stopped")
//	}
package server
