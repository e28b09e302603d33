package user

import (
	"net"
	"net/http"
	"strings"

	"github.com/mssola/useragent"
)

// ClientInfo describes where a login or logout came from.
type ClientInfo struct {
	IP        string `json:"ip"`
	Browser   string `json:"browser"`
	OS        string `json:"os"`
	UserAgent string `json:"userAgent"`
}

// ClientFromRequest reads the caller address from proxy headers, falling back
// to the socket address, and parses the User-Agent header.
func ClientFromRequest(r *http.Request) ClientInfo {
	raw := r.UserAgent()
	ua := useragent.New(raw)
	browser, version := ua.Browser()
	if version != "" {
		browser = browser + " " + version
	}

	return ClientInfo{
		IP:        clientIP(r),
		Browser:   browser,
		OS:        ua.OS(),
		UserAgent: raw,
	}
}

// clientIP returns the first candidate that parses as an IP address. Headers
// are client controlled, so anything else is skipped; the result is empty
// when no candidate is an address.
func clientIP(r *http.Request) string {
	first, _, _ := strings.Cut(r.Header.Get("X-Forwarded-For"), ",")
	candidates := []string{first, r.Header.Get("X-Real-IP")}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		candidates = append(candidates, host)
	}
	candidates = append(candidates, r.RemoteAddr)

	for _, c := range candidates {
		if ip := net.ParseIP(strings.TrimSpace(c)); ip != nil {
			return ip.String()
		}
	}
	return ""
}
