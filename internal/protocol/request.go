// Package protocol implements the newline-delimited JSON message
// protocol spoken between host and plugin, together with the built-in
// template actions (echo, reverse, compute, query). Requests and
// responses travel through the document engine; encoding/json is never
// involved.
package protocol

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/omniflow/jsonplug/internal/document"
	"github.com/omniflow/jsonplug/internal/parse"
)

// Message types accepted from the host.
const (
	TypeExec     = "exec"
	TypeHealth   = "health"
	TypeShutdown = "shutdown"
	TypeQuit     = "quit"
)

// Request is a decoded host message. Payload, when present, points into
// the tree rooted at root; releasing the request releases the whole
// tree.
type Request struct {
	ID      string
	Type    string
	Payload *document.Value

	root *document.Value
}

// ParseRequest decodes a single message line into a Request allocated
// through a. A request must be a JSON object with a string "type"; "id"
// and "payload" are optional. A missing id is replaced with a fresh
// UUID so every response stays correlatable.
func ParseRequest(a document.Allocator, line []byte, opts parse.Options) (*Request, error) {
	root, err := parse.WithOptions(line, a, opts)
	if err != nil {
		return nil, err
	}
	if root.Kind() != document.KindObject {
		document.Release(a, root)
		return nil, fmt.Errorf("%w: request must be a JSON object", document.ErrTypeMismatch)
	}

	req := &Request{root: root}

	if idVal, err := root.Get("id"); err == nil {
		if s, err := idVal.StringValue(); err == nil {
			req.ID = s
		}
	}
	if req.ID == "" {
		req.ID = uuid.New().String()
	}

	typeVal, err := root.Get("type")
	if err != nil {
		document.Release(a, root)
		return nil, fmt.Errorf("%w: missing \"type\"", document.ErrTypeMismatch)
	}
	req.Type, err = typeVal.StringValue()
	if err != nil {
		document.Release(a, root)
		return nil, fmt.Errorf("%w: \"type\" must be a string", document.ErrTypeMismatch)
	}

	if payload, err := root.Get("payload"); err == nil {
		req.Payload = payload
	}
	return req, nil
}

// Release returns the request's tree to its allocator. The request must
// not be used afterwards.
func (r *Request) Release(a document.Allocator) {
	document.Release(a, r.root)
	r.root = nil
	r.Payload = nil
}
