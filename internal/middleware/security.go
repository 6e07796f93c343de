// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"strings"
)

// ContentSecurityPolicy allows the page's own scripts and styles, images
// from data: URIs (uploaded and generated flyer images) and the
// placeholder host.
func ContentSecurityPolicy(placeholderOrigin string) string {
	img := []string{"'self'", "data:", "blob:"}
	if placeholderOrigin != "" {
		img = append(img, placeholderOrigin)
	}
	return strings.Join([]string{
		"default-src 'self'",
		"img-src " + strings.Join(img, " "),
		"script-src 'self' https://unpkg.com",
		"style-src 'self' 'unsafe-inline'",
		"frame-ancestors 'self'",
		"form-action 'self'",
	}, "; ")
}

// SecureHeaders adds security-related HTTP headers to every response.
// An empty csp skips the Content-Security-Policy header.
func SecureHeaders(csp string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()

			h.Set("X-Content-Type-Options", "nosniff")
			h.Set("X-Frame-Options", "SAMEORIGIN")
			// Legacy XSS filter off; CSP covers it.
			h.Set("X-XSS-Protection", "0")
			h.Set("Referrer-Policy", "strict-origin-when-cross-origin")
			h.Set("Permissions-Policy", "camera=(), microphone=(), geolocation=()")
			if csp != "" {
				h.Set("Content-Security-Policy", csp)
			}

			next.ServeHTTP(w, r)
		})
	}
}
