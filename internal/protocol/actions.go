package protocol

import (
	"github.com/omniflow/jsonplug/internal/document"
	"github.com/omniflow/jsonplug/internal/query"
)

// payloadString fetches an optional string field from the payload,
// falling back to empty as the host contract allows.
func payloadString(payload *document.Value, key string) string {
	v, err := payload.Get(key)
	if err != nil {
		return ""
	}
	s, err := v.StringValue()
	if err != nil {
		return ""
	}
	return s
}

// echoAction returns the payload message unchanged.
func echoAction(a document.Allocator, payload *document.Value) (*document.Value, *Fault) {
	return messageBody(a, "echo", payloadString(payload, "message"))
}

// reverseAction returns the payload message with its runes reversed.
// Reversal is rune-wise so multi-byte UTF-8 sequences survive intact.
func reverseAction(a document.Allocator, payload *document.Value) (*document.Value, *Fault) {
	runes := []rune(payloadString(payload, "message"))
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return messageBody(a, "reverse", string(runes))
}

// computeAction sums the payload's "numbers" array.
func computeAction(a document.Allocator, payload *document.Value) (*document.Value, *Fault) {
	arrVal, err := payload.Get("numbers")
	if err != nil {
		return nil, Faultf(CodeBadRequest, "missing or invalid 'numbers' array")
	}
	items, err := arrVal.Items()
	if err != nil {
		return nil, Faultf(CodeBadRequest, "missing or invalid 'numbers' array")
	}
	var sum float64
	for _, item := range items {
		f, err := item.Float64()
		if err != nil {
			return nil, Faultf(CodeBadRequest, "numbers must be numeric")
		}
		sum += f
	}

	body, err := newActionBody(a, "compute")
	if err != nil {
		return nil, Faultf(CodeInternal, "cannot build response")
	}
	sumVal, err := document.NewNumber(a, sum)
	if err != nil {
		document.Release(a, body)
		return nil, Faultf(CodeInternal, "cannot build response")
	}
	if err := body.Add("sum", sumVal); err != nil {
		document.Release(a, sumVal)
		document.Release(a, body)
		return nil, Faultf(CodeInternal, "cannot build response")
	}
	return body, nil
}

// queryAction evaluates a JSONPath expression from payload "path"
// against the document under payload "document" and returns all matches.
func queryAction(a document.Allocator, payload *document.Value) (*document.Value, *Fault) {
	pathVal, err := payload.Get("path")
	if err != nil {
		return nil, Faultf(CodeBadRequest, "missing or invalid 'path'")
	}
	path, err := pathVal.StringValue()
	if err != nil {
		return nil, Faultf(CodeBadRequest, "missing or invalid 'path'")
	}
	doc, err := payload.Get("document")
	if err != nil {
		return nil, Faultf(CodeBadRequest, "missing 'document'")
	}

	matches, err := query.Select(a, doc, path)
	if err != nil {
		return nil, Faultf(CodeBadRequest, "query failed: %v", err)
	}

	body, err := newActionBody(a, "query")
	if err != nil {
		document.Release(a, matches)
		return nil, Faultf(CodeInternal, "cannot build response")
	}
	if err := body.Add("matches", matches); err != nil {
		document.Release(a, matches)
		document.Release(a, body)
		return nil, Faultf(CodeInternal, "cannot build response")
	}
	return body, nil
}

func newActionBody(a document.Allocator, action string) (*document.Value, error) {
	body, err := document.NewObject(a)
	if err != nil {
		return nil, err
	}
	if err := addString(a, body, "action", action); err != nil {
		document.Release(a, body)
		return nil, err
	}
	return body, nil
}

func messageBody(a document.Allocator, action, message string) (*document.Value, *Fault) {
	body, err := newActionBody(a, action)
	if err != nil {
		return nil, Faultf(CodeInternal, "cannot build response")
	}
	if err := addString(a, body, "message", message); err != nil {
		document.Release(a, body)
		return nil, Faultf(CodeInternal, "cannot build response")
	}
	return body, nil
}
