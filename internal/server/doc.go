// Package server implements the MCP (Model Context Protocol) server for the
// image resize pipeline.
//
// This package provides a JSON-RPC 2.0 server that exposes the resizer
// through the MCP protocol, so MCP-compatible clients can shrink images on
// disk and receive the result inline.
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
//   - image_resize: Fit an image inside a width and/or height and return it
//   - image_load: Decode an image and report its metadata
//   - image_dimensions: Get width and height
//   - engine_status: Report the resize engine lifecycle state
//
// image_resize answers with an MCP image content block followed by a text
// block holding the output dimensions. Every other tool answers with a
// single text block of JSON.
//
// # No Caching
//
// Each call reads and decodes its file afresh. Decoded bitmaps and surfaces
// live only for the duration of one tool call.
package server
