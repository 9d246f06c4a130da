// Package link turns hosted-file sharing links into direct-content URLs.
package link

import (
	"net/url"
	"strings"

	"github.com/kailas-cloud/schemedex/internal/domain"
)

// DriveHost is the host of sharing links that need conversion.
const DriveHost = "drive.google.com"

// IsSharingLink reports whether raw points at a hosted-drive sharing URL.
func IsSharingLink(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	return isDriveHost(u.Hostname())
}

// Normalize converts a drive sharing link into https://<host>/uc?id=<file id>.
// Other links are returned unchanged. An empty link yields "".
// A sharing link without a recoverable file id is rejected with
// *domain.MalformedLinkError.
func Normalize(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}

	u, err := url.Parse(trimmed)
	if err != nil || !isDriveHost(u.Hostname()) {
		return raw, nil
	}

	id := u.Query().Get("id")
	if id == "" {
		segments := strings.Split(strings.Trim(u.EscapedPath(), "/"), "/")
		if len(segments) < 2 {
			return "", &domain.MalformedLinkError{Link: raw}
		}
		id, err = url.PathUnescape(segments[len(segments)-2])
		if err != nil {
			return "", &domain.MalformedLinkError{Link: raw}
		}
	}
	if id == "" {
		return "", &domain.MalformedLinkError{Link: raw}
	}

	out := url.URL{
		Scheme:   "https",
		Host:     strings.ToLower(u.Host),
		Path:     "/uc",
		RawQuery: url.Values{"id": {id}}.Encode(),
	}
	return out.String(), nil
}

func isDriveHost(host string) bool {
	host = strings.ToLower(host)
	return host == DriveHost || host == "www."+DriveHost
}
