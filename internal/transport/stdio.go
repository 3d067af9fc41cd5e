package transport

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/jamesprial/mcp-oauth-2.1/internal/protocol"
	"github.com/jamesprial/mcp-oauth-2.1/internal/router"
)

// maxStdioLine bounds a single request frame. A line longer than this is
// rejected with a parse error rather than grown without limit.
const maxStdioLine = 10 << 20 // 10 MiB

// StdioServer serves the MCP protocol over newline-delimited JSON on
// standard input and standard output. Diagnostics go to the supplied
// logger only — stdout is reserved for protocol frames, per the stdio
// framing rules. Unlike the HTTP transport, no middleware runs here: a
// stdio session is assumed to be exactly one trusted local client.
type StdioServer struct {
	router router.Router
	logger *slog.Logger
	in     io.Reader
	out    io.Writer
}

// NewStdioServer builds a stdio server reading from in and writing frames
// to out. Pass os.Stdin/os.Stdout in production; tests substitute buffers.
func NewStdioServer(rt router.Router, logger *slog.Logger, in io.Reader, out io.Writer) *StdioServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &StdioServer{router: rt, logger: logger, in: in, out: out}
}

// Serve reads one JSON request per line until EOF or ctx is canceled.
// Blank lines are skipped. Serve returns nil on a clean EOF.
func (s *StdioServer) Serve(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxStdioLine)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		s.handleLine(ctx, append([]byte(nil), line...))
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("stdio transport: read error: %w", err)
	}

	s.logger.Info("stdio session ended", "reason", "eof")
	return nil
}

// handleLine decodes and dispatches a single frame. A panic here — from a
// malformed tool or a bug in a handler the router's own recover missed —
// is turned into an internal-error response instead of ending the session.
func (s *StdioServer) handleLine(ctx context.Context, line []byte) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("panic recovered in stdio handler", "panic", r)
			s.writeResponse(protocol.Fail(nil, protocol.CodeInternalError, "internal error", fmt.Sprintf("%v", r)))
		}
	}()

	if isJSONArray(line) {
		s.logger.Warn("rejected JSON-RPC batch request")
		s.writeResponse(protocol.Fail(nil, protocol.CodeInvalidRequest, "batch requests are not supported", nil))
		return
	}

	var req protocol.Request
	if err := json.Unmarshal(line, &req); err != nil {
		s.logger.Warn("failed to parse stdio request", "error", err)
		s.writeResponse(protocol.Fail(nil, protocol.CodeParseError, "parse error", err.Error()))
		return
	}

	if err := req.Validate(); err != nil {
		s.logger.Warn("invalid stdio request", "error", err)
		s.writeResponse(protocol.Fail(req.ID, protocol.CodeInvalidRequest, "invalid request", err.Error()))
		return
	}

	resp, err := s.router.Route(ctx, &req)
	if err != nil {
		s.logger.Error("router error", "error", err, "method", req.Method)
		s.writeResponse(protocol.Fail(req.ID, protocol.CodeInternalError, "internal error", err.Error()))
		return
	}

	if resp == nil {
		// Notification: no response frame.
		return
	}

	s.writeResponse(resp)
}

// isJSONArray reports whether line's first byte opens a JSON array, i.e. a
// JSON-RPC batch. Batches get InvalidRequest rather than a generic
// ParseError, since the frame did parse as JSON, just not as a single
// request object.
func isJSONArray(line []byte) bool {
	return len(line) > 0 && line[0] == '['
}

func (s *StdioServer) writeResponse(resp *protocol.Response) {
	body, err := json.Marshal(resp)
	if err != nil {
		s.logger.Error("failed to encode stdio response", "error", err)
		return
	}

	body = append(body, '\n')
	if _, err := s.out.Write(body); err != nil {
		s.logger.Error("failed to write stdio response", "error", err)
	}
}
