// Package httpapi exposes the service as a REST API for browser-facing
// clients, mirroring the operations of the MCP transport.
//
// All endpoints live under /api. Documentation pages are served as plain
// text; everything else is JSON.
package httpapi
