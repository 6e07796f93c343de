// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestRequireOperator(t *testing.T) {
	const token = "0123456789abcdef0123456789abcdef"

	tests := []struct {
		name   string
		token  string
		header string
		want   int
	}{
		{"valid bearer", token, "Bearer " + token, http.StatusOK},
		{"no header", token, "", http.StatusForbidden},
		{"wrong token", token, "Bearer nope", http.StatusForbidden},
		{"missing scheme", token, token, http.StatusForbidden},
		{"basic scheme", token, "Basic " + token, http.StatusForbidden},
		{"unconfigured token", "", "Bearer ", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := RequireOperator(tt.token)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodPost, "/admin/ai/provider", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.want {
				t.Errorf("status: got %d, want %d", rr.Code, tt.want)
			}
			if called != (tt.want == http.StatusOK) {
				t.Errorf("handler called = %v", called)
			}
		})
	}
}
