package backend

import (
	"context"
	"errors"
	"net"
	"net/url"
	"syscall"
)

// ErrorMessage derives a human-readable message from a backend call error.
func ErrorMessage(err error) string {
	if err == nil {
		return ""
	}

	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		if msg := httpErr.Message(); msg != "" {
			return msg
		}
		return httpErr.Error()
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return "The request to the server timed out."
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return "Unable to connect to the server. Is it running?"
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "Unable to resolve server address " + dnsErr.Name + "."
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "The request to the server timed out."
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return "Network error: " + urlErr.Err.Error()
	}
	return err.Error()
}
