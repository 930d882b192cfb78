package authclient

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/antchfx/xmlquery"
)

// maxBufferedBody bounds how much of a response body is read into memory.
const maxBufferedBody = 1 << 20

// expiredMessage pulls a user-facing message out of a 401 response body, falling back to
// fallback when the body carries none. Only the first maxBufferedBody bytes are parsed; the
// caller still reads the complete body afterwards.
func expiredMessage(resp *http.Response, fallback string) string {
	if resp == nil || resp.Body == nil {
		return fallback
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBufferedBody))
	restoreBody(resp, body)
	if err != nil || len(body) == 0 {
		return fallback
	}

	if strings.Contains(strings.ToLower(resp.Header.Get("Content-Type")), "xml") {
		if message := xmlMessage(body); message != "" {
			return message
		}
		return fallback
	}

	if message := jsonMessage(body); message != "" {
		return message
	}
	return fallback
}

// jsonMessage returns the top-level string "message" field, or "".
func jsonMessage(body []byte) string {
	var payload map[string]interface{}
	if err := json.Unmarshal(body, &payload); err != nil {
		return ""
	}
	message, _ := payload["message"].(string)
	return message
}

// xmlMessage returns the text of the first <message> element, or "".
func xmlMessage(body []byte) string {
	doc, err := xmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return ""
	}
	node := xmlquery.FindOne(doc, "//message")
	if node == nil {
		return ""
	}
	return strings.TrimSpace(node.InnerText())
}
