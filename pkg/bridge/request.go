package bridge

import (
	"net/http"
	"sort"

	"golang.org/x/net/http/httpguts"

	"github.com/Adda-Baaj/reqbridge/pkg/httpclient"
)

// BuildRequest validates headers and assembles a transport-ready GET request.
// Nothing is returned unless every header is well formed, and no headers are added.
func BuildRequest(url string, headers map[string]string, body []byte) (*httpclient.Request, error) {
	names := make([]string, 0, len(headers))
	for name, value := range headers {
		if !httpguts.ValidHeaderFieldName(name) {
			return nil, invalidHeader("invalid header name %q", name)
		}
		if !httpguts.ValidHeaderFieldValue(value) {
			return nil, invalidHeader("invalid value for header %q", name)
		}
		names = append(names, name)
	}
	// Sorted so that names colliding after canonicalization resolve the same way every time.
	sort.Strings(names)

	hdr := make(http.Header, len(names))
	for _, name := range names {
		hdr.Set(name, headers[name])
	}

	return &httpclient.Request{
		URL:    url,
		Header: hdr,
		Body:   body,
	}, nil
}
