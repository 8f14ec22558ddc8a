// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/finmcp/finmcp"
)

// Server speaks MCP over newline-delimited JSON-RPC, dispatching resource
// reads and tool calls to the underlying service.
type Server struct {
	service *finmcp.Service
	logger  *slog.Logger

	initialized bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger. The default logs through slog's default
// handler; stdio deployments must point that at stderr.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewServer creates an MCP server over the given service.
func NewServer(service *finmcp.Service, opts ...Option) (*Server, error) {
	if service == nil {
		return nil, ErrServiceRequired
	}

	s := &Server{
		service: service,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Serve runs the protocol loop on stdin and stdout until the input is
// exhausted or the context is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	return s.Run(ctx, os.Stdin, os.Stdout)
}

// Run reads one JSON-RPC message per line from input and writes responses
// to output. Malformed lines produce protocol errors, never a crash.
func (s *Server) Run(ctx context.Context, input io.Reader, output io.Writer) error {
	encoder := &lockedEncoder{encoder: json.NewEncoder(output)}

	// The reader runs in its own goroutine so cancellation is honored even
	// while blocked on input. Scanner buffers are reused between lines, so
	// each line is copied before it crosses the channel.
	lines := make(chan []byte)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(input)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
		for scanner.Scan() {
			line := make([]byte, len(scanner.Bytes()))
			copy(line, scanner.Bytes())
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				return <-scanErr
			}
			if len(line) == 0 {
				continue
			}
			if err := s.handleLine(ctx, encoder, line); err != nil {
				return err
			}
		}
	}
}

func (s *Server) handleLine(ctx context.Context, encoder *lockedEncoder, line []byte) error {
	var req request
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Debug("malformed request line", "error", err)
		return writeError(encoder, json.RawMessage("null"), codeParseError, "parse error: "+err.Error())
	}

	if req.JSONRPC != "2.0" {
		if req.isNotification() {
			return nil
		}
		return writeError(encoder, req.ID, codeInvalidRequest, "unsupported JSON-RPC version")
	}

	if req.isNotification() {
		// Notifications such as notifications/initialized need no reply.
		s.logger.Debug("notification", "method", req.Method)
		return nil
	}

	return s.dispatch(ctx, encoder, &req)
}

func (s *Server) dispatch(ctx context.Context, encoder *lockedEncoder, req *request) error {
	s.logger.Debug("request", "method", req.Method)

	switch req.Method {
	case "initialize":
		return s.handleInitialize(encoder, req)
	case "ping":
		return writeResult(encoder, req.ID, map[string]any{})
	case "resources/list":
		if !s.initialized {
			return writeNotInitialized(encoder, req.ID)
		}
		return s.handleResourcesList(encoder, req)
	case "resources/read":
		if !s.initialized {
			return writeNotInitialized(encoder, req.ID)
		}
		return s.handleResourcesRead(ctx, encoder, req)
	case "tools/list":
		if !s.initialized {
			return writeNotInitialized(encoder, req.ID)
		}
		return s.handleToolsList(encoder, req)
	case "tools/call":
		if !s.initialized {
			return writeNotInitialized(encoder, req.ID)
		}
		return s.handleToolsCall(ctx, encoder, req)
	default:
		return writeError(encoder, req.ID, codeMethodNotFound, "unknown method: "+req.Method)
	}
}

func (s *Server) handleInitialize(encoder *lockedEncoder, req *request) error {
	if len(req.Params) > 0 {
		var params initializeParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return writeError(encoder, req.ID, codeInvalidParams, "invalid initialize params: "+err.Error())
		}
		s.logger.Debug("initialize",
			"client", params.ClientInfo.Name,
			"clientVersion", params.ClientInfo.Version,
			"protocolVersion", params.ProtocolVersion)
	}

	s.initialized = true

	return writeResult(encoder, req.ID, initializeResult{
		ProtocolVersion: protocolVersion,
		Capabilities: serverCapabilities{
			Resources: &resourceCapability{},
			Tools:     &toolCapability{},
		},
		ServerInfo: serverInfo{
			Name:    "finmcp",
			Version: finmcp.Version,
		},
	})
}

// lockedEncoder serializes writes to the shared output stream.
type lockedEncoder struct {
	mu      sync.Mutex
	encoder *json.Encoder
}

func (e *lockedEncoder) Encode(v any) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.encoder.Encode(v)
}

func writeResult(encoder *lockedEncoder, id json.RawMessage, result any) error {
	return encoder.Encode(response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

func writeError(encoder *lockedEncoder, id json.RawMessage, code int, message string) error {
	return encoder.Encode(response{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &rpcError{Code: code, Message: message},
	})
}

func writeNotInitialized(encoder *lockedEncoder, id json.RawMessage) error {
	return writeError(encoder, id, codeInvalidRequest, "server not initialized (call initialize first)")
}
