package openrouter

import (
	"bufio"
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

var dataPrefix = []byte("data: ")

// reasoningTransport copies OpenRouter's "reasoning" stream delta into the
// "reasoning_content" field go-openai decodes. Deltas that already carry
// reasoning_content are left alone.
type reasoningTransport struct {
	base http.RoundTripper
}

func (t *reasoningTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base.RoundTrip(req)
	if err != nil || resp == nil || resp.Body == nil {
		return resp, err
	}
	resp.Body = &reasoningBody{src: bufio.NewReader(resp.Body), closer: resp.Body}
	return resp, nil
}

type reasoningBody struct {
	src     *bufio.Reader
	closer  io.Closer
	pending []byte
}

func (b *reasoningBody) Read(p []byte) (int, error) {
	for len(b.pending) == 0 {
		line, err := b.src.ReadBytes('\n')
		if len(line) > 0 {
			b.pending = rewriteReasoning(line)
		}
		if err != nil {
			if len(b.pending) == 0 {
				return 0, err
			}
			break
		}
	}
	n := copy(p, b.pending)
	b.pending = b.pending[n:]
	return n, nil
}

func (b *reasoningBody) Close() error { return b.closer.Close() }

func rewriteReasoning(line []byte) []byte {
	payload, ok := bytes.CutPrefix(bytes.TrimRight(line, "\r\n"), dataPrefix)
	if !ok || !bytes.Contains(payload, []byte(`"reasoning"`)) {
		return line
	}

	var event map[string]json.RawMessage
	if err := json.Unmarshal(payload, &event); err != nil {
		return line
	}
	var choices []map[string]json.RawMessage
	if err := json.Unmarshal(event["choices"], &choices); err != nil {
		return line
	}

	changed := false
	for _, choice := range choices {
		var delta map[string]json.RawMessage
		if err := json.Unmarshal(choice["delta"], &delta); err != nil {
			continue
		}
		reasoning, ok := delta["reasoning"]
		if !ok || string(reasoning) == "null" {
			continue
		}
		if _, ok := delta["reasoning_content"]; ok {
			continue
		}
		delta["reasoning_content"] = reasoning
		encoded, err := json.Marshal(delta)
		if err != nil {
			continue
		}
		choice["delta"] = encoded
		changed = true
	}
	if !changed {
		return line
	}

	encoded, err := json.Marshal(choices)
	if err != nil {
		return line
	}
	event["choices"] = encoded
	out, err := json.Marshal(event)
	if err != nil {
		return line
	}
	return append(append(append([]byte{}, dataPrefix...), out...), '\n')
}
