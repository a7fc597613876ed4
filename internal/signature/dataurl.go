package signature

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

// MaxArtifactBytes caps the decoded size of a submitted signature image.
const MaxArtifactBytes = 2 << 20

// DecodeDataURL parses a base64 data URL, enforcing the mime allow-list and
// size cap, and verifies the declared mime matches the sniffed content.
func DecodeDataURL(value string, allowedMimes []string, maxBytes int) ([]byte, string, error) {
	raw := strings.TrimSpace(value)
	if raw == "" {
		return nil, "", errors.New("empty data url")
	}
	if !strings.HasPrefix(raw, "data:") {
		return nil, "", errors.New("invalid data url prefix")
	}
	comma := strings.Index(raw, ",")
	if comma <= 5 {
		return nil, "", errors.New("invalid data url payload")
	}
	meta := raw[5:comma]
	payload := raw[comma+1:]
	if !strings.HasSuffix(strings.ToLower(meta), ";base64") {
		return nil, "", errors.New("data url must be base64")
	}
	mime := strings.TrimSpace(meta[:len(meta)-len(";base64")])
	if mime == "" {
		return nil, "", errors.New("missing data url mime type")
	}
	if len(allowedMimes) > 0 {
		ok := false
		for _, allowed := range allowedMimes {
			if strings.EqualFold(strings.TrimSpace(allowed), mime) {
				ok = true
				break
			}
		}
		if !ok {
			return nil, "", errors.New("unsupported data url mime type")
		}
	}
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", errors.New("unable to decode data url")
	}
	if len(decoded) == 0 {
		return nil, "", errors.New("empty data url content")
	}
	if maxBytes > 0 && len(decoded) > maxBytes {
		return nil, "", errors.New("data url exceeds max size")
	}
	detected := http.DetectContentType(decoded)
	if !strings.EqualFold(detected, mime) {
		return nil, "", errors.New("data url mime does not match content")
	}
	return decoded, detected, nil
}

// DecodeArtifact validates a captured signature artifact as produced by the
// pad: a base64 PNG data URL within the size cap.
func DecodeArtifact(value string) ([]byte, error) {
	data, _, err := DecodeDataURL(value, []string{"image/png"}, MaxArtifactBytes)
	return data, err
}
