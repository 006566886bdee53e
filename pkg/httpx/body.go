package httpx

import (
	"bytes"
	"io"
	"net/http"
)

// maxPeekBytes caps how much of a request body middleware will buffer.
const maxPeekBytes = 1 << 20

// peekBody reads the request body and puts an identical copy back on the
// request, so middleware can inspect it without starving the handler.
func peekBody(r *http.Request) ([]byte, error) {
	if r.Body == nil {
		return nil, nil
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, maxPeekBytes))
	if err != nil {
		return nil, err
	}
	_ = r.Body.Close()

	r.Body = io.NopCloser(bytes.NewReader(body))
	return body, nil
}
