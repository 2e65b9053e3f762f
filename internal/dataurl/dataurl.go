// Package dataurl encodes and parses RFC 2397 data URLs of the form
// data:<mime>[;param=value]*[;base64],<payload>.
package dataurl

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultMIME is assumed when a data URL omits its media type.
const DefaultMIME = "text/plain;charset=US-ASCII"

var (
	// ErrNoScheme is returned when the string does not start with "data:".
	ErrNoScheme = errors.New("dataurl: missing data: scheme")
	// ErrNoPayload is returned when the header is not terminated by a comma.
	ErrNoPayload = errors.New("dataurl: missing payload separator")
)

// DataURL is a parsed data URL.
type DataURL struct {
	MIME   string
	Base64 bool
	Data   []byte
}

// Encode builds a base64 data URL for data. An empty mime yields
// application/octet-stream, which is what browsers emit for untyped blobs.
func Encode(mime string, data []byte) string {
	if mime == "" {
		mime = "application/octet-stream"
	}
	var b strings.Builder
	b.Grow(len("data:;base64,") + len(mime) + base64.StdEncoding.EncodedLen(len(data)))
	b.WriteString("data:")
	b.WriteString(mime)
	b.WriteString(";base64,")
	b.WriteString(base64.StdEncoding.EncodeToString(data))
	return b.String()
}

// Parse decodes s. Both base64 and percent-encoded payloads are accepted.
func Parse(s string) (*DataURL, error) {
	if len(s) < 5 || !strings.EqualFold(s[:5], "data:") {
		return nil, ErrNoScheme
	}
	header, payload, ok := strings.Cut(s[5:], ",")
	if !ok {
		return nil, ErrNoPayload
	}

	d := &DataURL{}
	params := strings.Split(header, ";")
	if n := len(params); n > 0 && strings.EqualFold(strings.TrimSpace(params[n-1]), "base64") {
		d.Base64 = true
		params = params[:n-1]
	}
	d.MIME = strings.ToLower(strings.TrimSpace(strings.Join(params, ";")))
	if d.MIME == "" || strings.HasPrefix(d.MIME, ";") {
		d.MIME = DefaultMIME
	}

	if d.Base64 {
		data, err := decodeBase64(payload)
		if err != nil {
			return nil, fmt.Errorf("dataurl: invalid base64 payload: %w", err)
		}
		d.Data = data
		return d, nil
	}

	text, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("dataurl: invalid percent-encoding: %w", err)
	}
	d.Data = []byte(text)
	return d, nil
}

// decodeBase64 accepts padded and unpadded payloads; both appear in the wild.
func decodeBase64(payload string) ([]byte, error) {
	payload = strings.TrimSpace(payload)
	if strings.HasSuffix(payload, "=") || len(payload)%4 == 0 {
		return base64.StdEncoding.DecodeString(payload)
	}
	return base64.RawStdEncoding.DecodeString(payload)
}
