package protocol

import (
	"errors"
	"fmt"

	"github.com/omniflow/jsonplug/internal/config"
	"github.com/omniflow/jsonplug/internal/document"
	"github.com/omniflow/jsonplug/internal/parse"
)

// Fault is a caller-visible action failure carrying the protocol status
// code.
type Fault struct {
	Code    int
	Message string
}

func (f *Fault) Error() string {
	return fmt.Sprintf("fault %d: %s", f.Code, f.Message)
}

// Faultf builds a Fault with a formatted message.
func Faultf(code int, format string, args ...any) *Fault {
	return &Fault{Code: code, Message: fmt.Sprintf(format, args...)}
}

// ActionFunc implements one exec action. It receives the allocator the
// response is built with and the request payload (never nil), and
// returns the response body. Ownership of the returned body moves to
// the handler.
type ActionFunc func(a document.Allocator, payload *document.Value) (*document.Value, *Fault)

// Handler dispatches decoded messages to the registered actions. The
// zero value is not usable; construct with NewHandler.
type Handler struct {
	name      string
	version   string
	parseOpts parse.Options
	newAlloc  func() document.Allocator
	actions   map[string]ActionFunc
}

// NewHandler builds a handler with the built-in template actions
// registered.
func NewHandler(cfg *config.Config) *Handler {
	h := &Handler{
		name:      cfg.Name,
		version:   cfg.Version,
		parseOpts: parse.Options{MaxDepth: cfg.MaxDepth},
		newAlloc:  cfg.NewAllocator,
		actions:   make(map[string]ActionFunc),
	}
	h.Register("echo", echoAction)
	h.Register("reverse", reverseAction)
	h.Register("compute", computeAction)
	h.Register("query", queryAction)
	return h
}

// Register exposes fn under the given action name, replacing any
// previous registration.
func (h *Handler) Register(name string, fn ActionFunc) {
	h.actions[name] = fn
}

// Handle processes one request line and returns the response line
// (without trailing newline) plus whether the host asked the plugin to
// stop. Request trees are charged to a per-request allocator so a
// hostile document cannot exceed the configured budget; responses are
// plugin-built and use the heap.
func (h *Handler) Handle(line []byte) (out []byte, shutdown bool) {
	respAlloc := document.HeapAllocator{}

	reqAlloc := h.newAlloc()
	req, err := ParseRequest(reqAlloc, line, h.parseOpts)
	if err != nil {
		return EncodeError(respAlloc, "", CodeBadRequest, parseFailureMessage(err)), false
	}
	defer req.Release(reqAlloc)

	switch req.Type {
	case TypeHealth:
		body, err := h.healthBody(respAlloc)
		if err != nil {
			return EncodeError(respAlloc, req.ID, CodeInternal, "cannot build health body"), false
		}
		return EncodeOK(respAlloc, req.ID, body), false

	case TypeExec:
		return h.handleExec(respAlloc, req), false

	case TypeShutdown, TypeQuit:
		body, err := document.NewObject(respAlloc)
		if err == nil {
			err = addString(respAlloc, body, "status", "stopping")
		}
		if err != nil {
			return EncodeError(respAlloc, req.ID, CodeInternal, "cannot build response"), true
		}
		return EncodeOK(respAlloc, req.ID, body), true

	default:
		return EncodeError(respAlloc, req.ID, CodeBadRequest, fmt.Sprintf("unknown message type %q", req.Type)), false
	}
}

func (h *Handler) handleExec(a document.Allocator, req *Request) []byte {
	if req.Payload == nil {
		return EncodeError(a, req.ID, CodeBadRequest, "missing payload")
	}
	actionVal, err := req.Payload.Get("action")
	if err != nil {
		return EncodeError(a, req.ID, CodeBadRequest, "missing or invalid 'action'")
	}
	action, err := actionVal.StringValue()
	if err != nil {
		return EncodeError(a, req.ID, CodeBadRequest, "missing or invalid 'action'")
	}

	fn, ok := h.actions[action]
	if !ok {
		return EncodeError(a, req.ID, CodeUnsupported, "unsupported action")
	}
	body, fault := fn(a, req.Payload)
	if fault != nil {
		return EncodeError(a, req.ID, fault.Code, fault.Message)
	}
	return EncodeOK(a, req.ID, body)
}

func (h *Handler) healthBody(a document.Allocator) (*document.Value, error) {
	body, err := document.NewObject(a)
	if err != nil {
		return nil, err
	}
	if err := addString(a, body, "status", "healthy"); err != nil {
		document.Release(a, body)
		return nil, err
	}
	if err := addString(a, body, "name", h.name); err != nil {
		document.Release(a, body)
		return nil, err
	}
	if err := addString(a, body, "version", h.version); err != nil {
		document.Release(a, body)
		return nil, err
	}
	return body, nil
}

// parseFailureMessage maps engine errors onto host-facing diagnostics
// without leaking offsets into unrelated categories.
func parseFailureMessage(err error) string {
	switch {
	case errors.Is(err, document.ErrAllocation):
		return "request exceeds memory budget"
	case errors.Is(err, document.ErrMaxDepth):
		return "request nested too deeply"
	case errors.Is(err, document.ErrTrailingData):
		return "trailing data after request"
	default:
		return fmt.Sprintf("invalid request: %v", err)
	}
}
