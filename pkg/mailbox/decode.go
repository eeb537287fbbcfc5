package mailbox

import (
	"encoding/base64"
	"strings"

	"github.com/cockroachdb/errors"
	"google.golang.org/api/gmail/v1"
)

var urlSafeReplacer = strings.NewReplacer("-", "+", "_", "/")

// decodePayloadData reverses the provider's URL-safe base64 substitutions,
// restores padding and standard-decodes the result as UTF-8 text.
func decodePayloadData(data string) (string, error) {
	s := urlSafeReplacer.Replace(data)

	if m := len(s) % 4; m != 0 {
		s += strings.Repeat("=", 4-m)
	}

	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return "", errors.Wrap(err, "decode body payload")
	}

	return string(raw), nil
}

// firstPartWithBody walks the payload tree depth-first and returns the first
// part that carries body data. The payload may be a single part or a
// multipart tree.
func firstPartWithBody(part *gmail.MessagePart) *gmail.MessagePart {
	if part == nil {
		return nil
	}

	if part.Body != nil && part.Body.Data != "" {
		return part
	}

	for _, child := range part.Parts {
		if found := firstPartWithBody(child); found != nil {
			return found
		}
	}

	return nil
}

// messageBody extracts the decoded plain-text body of a message, or an empty
// string when no part yields a usable body; callers fall back to the snippet.
func messageBody(msg *gmail.Message) string {
	part := firstPartWithBody(msg.Payload)
	if part == nil {
		return ""
	}

	text, err := decodePayloadData(part.Body.Data)
	if err != nil {
		return ""
	}

	return text
}
