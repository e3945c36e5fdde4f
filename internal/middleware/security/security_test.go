package security

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractClientIP(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"direct", "203.0.113.7:5555", nil, "203.0.113.7"},
		{"untrusted peer ignores xff", "203.0.113.7:5555", map[string]string{"X-Forwarded-For": "1.1.1.1"}, "203.0.113.7"},
		{"trusted proxy xff", "10.0.0.2:80", map[string]string{"X-Forwarded-For": "198.51.100.1, 10.0.0.2"}, "198.51.100.1"},
		{"trusted proxy real ip", "127.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.9"}, "198.51.100.9"},
		{"trusted proxy garbage", "192.168.1.1:80", map[string]string{"X-Forwarded-For": "nope"}, "192.168.1.1"},
		{"no port", "203.0.113.7", nil, "203.0.113.7"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			if got := d.ExtractClientIP(r); got != tt.want {
				t.Errorf("ExtractClientIP() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInspect(t *testing.T) {
	d := NewDetector()
	tests := []struct {
		name       string
		target     string
		method     string
		agent      string
		suspicious bool
	}{
		{"normal", "/transactions?type=EXPENSE", http.MethodGet, "curl/8.0", false},
		{"traversal", "/../../etc/passwd", http.MethodGet, "", true},
		{"script in query", "/transactions?next=javascript:alert(1)", http.MethodGet, "", true},
		{"scanner", "/", http.MethodGet, "sqlmap/1.7", true},
		{"trace method", "/", "TRACE", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(tt.method, tt.target, nil)
			r.Header.Set("User-Agent", tt.agent)
			if got := d.Inspect(r) != ""; got != tt.suspicious {
				t.Errorf("Inspect() suspicious = %v, want %v", got, tt.suspicious)
			}
		})
	}
}

func TestDetectorMiddlewareServesAndCounts(t *testing.T) {
	d := NewDetector()
	h := d.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/.env", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("request should still reach the handler, got %d", rr.Code)
	}
	if d.GetMetrics().SuspiciousRequests != 1 {
		t.Fatal("expected one suspicious request")
	}
}

func TestHeadersMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })

	t.Run("security headers and wildcard cors", func(t *testing.T) {
		cfg := DefaultHeadersConfig()
		cfg.AllowedOrigin = "*"
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		r.TLS = &tls.ConnectionState{}
		NewHeadersMiddleware(cfg).Middleware(next).ServeHTTP(rr, r)

		for header, want := range map[string]string{
			"X-Content-Type-Options":      "nosniff",
			"X-Frame-Options":             "DENY",
			"Access-Control-Allow-Origin": "*",
			"Strict-Transport-Security":   "max-age=31536000; includeSubDomains",
		} {
			if got := rr.Header().Get(header); got != want {
				t.Errorf("%s = %q, want %q", header, got, want)
			}
		}
	})

	t.Run("specific origin mismatch", func(t *testing.T) {
		cfg := DefaultHeadersConfig()
		cfg.AllowedOrigin = "https://app.example.com"
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/accounts", nil)
		r.Header.Set("Origin", "https://evil.example.com")
		NewHeadersMiddleware(cfg).Middleware(next).ServeHTTP(rr, r)

		if rr.Header().Get("Access-Control-Allow-Origin") != "" {
			t.Fatal("mismatched origin must not be allowed")
		}
	})

	t.Run("preflight", func(t *testing.T) {
		cfg := DefaultHeadersConfig()
		cfg.AllowedOrigin = "*"
		rr := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodOptions, "/transactions", nil)
		r.Header.Set("Access-Control-Request-Method", http.MethodPost)
		NewHeadersMiddleware(cfg).Middleware(next).ServeHTTP(rr, r)

		if rr.Code != http.StatusNoContent {
			t.Fatalf("preflight status = %d", rr.Code)
		}
		if rr.Header().Get("Access-Control-Allow-Methods") == "" {
			t.Fatal("missing allowed methods")
		}
	})
}
