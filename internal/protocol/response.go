package protocol

import (
	"github.com/omniflow/jsonplug/internal/document"
	"github.com/omniflow/jsonplug/internal/serialize"
)

// Response status codes, mirroring the host contract.
const (
	CodeBadRequest  = 400
	CodeUnsupported = 422
	CodeInternal    = 500
)

// internalErrorLine is the fallback emitted when even the error response
// cannot be built.
const internalErrorLine = `{"status":"error","code":500,"message":"internal error"}`

// EncodeOK serializes a success response. Ownership of body moves to
// this call: it is attached to the response tree and released with it
// through a.
func EncodeOK(a document.Allocator, id string, body *document.Value) []byte {
	resp, err := document.NewObject(a)
	if err != nil {
		document.Release(a, body)
		return []byte(internalErrorLine)
	}
	if err := addString(a, resp, "id", id); err != nil {
		document.Release(a, body)
		document.Release(a, resp)
		return []byte(internalErrorLine)
	}
	if err := addString(a, resp, "status", "ok"); err != nil {
		document.Release(a, body)
		document.Release(a, resp)
		return []byte(internalErrorLine)
	}
	if body != nil {
		if err := resp.Add("body", body); err != nil {
			document.Release(a, body)
			document.Release(a, resp)
			return []byte(internalErrorLine)
		}
	}
	out := serialize.Compact(resp)
	document.Release(a, resp)
	return out
}

// EncodeError serializes an error response with a numeric code and a
// diagnostic message.
func EncodeError(a document.Allocator, id string, code int, message string) []byte {
	resp, err := document.NewObject(a)
	if err != nil {
		return []byte(internalErrorLine)
	}
	ok := addString(a, resp, "id", id) == nil &&
		addString(a, resp, "status", "error") == nil &&
		addInt(a, resp, "code", int64(code)) == nil &&
		addString(a, resp, "message", message) == nil
	if !ok {
		document.Release(a, resp)
		return []byte(internalErrorLine)
	}
	out := serialize.Compact(resp)
	document.Release(a, resp)
	return out
}

func addString(a document.Allocator, obj *document.Value, key, val string) error {
	v, err := document.NewString(a, val)
	if err != nil {
		return err
	}
	if err := obj.Add(key, v); err != nil {
		document.Release(a, v)
		return err
	}
	return nil
}

func addInt(a document.Allocator, obj *document.Value, key string, val int64) error {
	v, err := document.NewInt(a, val)
	if err != nil {
		return err
	}
	if err := obj.Add(key, v); err != nil {
		document.Release(a, v)
		return err
	}
	return nil
}
