package security

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
)

// DetectionMetrics tracks security detection events
type DetectionMetrics struct {
	SuspiciousRequests int64
}

// Detector flags suspicious requests and resolves client IPs behind
// trusted proxies. The resolved IP also keys rate limiting, so
// forwarded headers are only honored when the direct peer is trusted.
type Detector struct {
	metrics        *DetectionMetrics
	trustedProxies []*net.IPNet
}

// NewDetector creates a new security detector
func NewDetector() *Detector {
	return &Detector{
		metrics: &DetectionMetrics{},
		trustedProxies: []*net.IPNet{
			parseCIDR("127.0.0.0/8"),    // localhost
			parseCIDR("10.0.0.0/8"),     // private networks
			parseCIDR("172.16.0.0/12"),  // private networks
			parseCIDR("192.168.0.0/16"), // private networks
		},
	}
}

// parseCIDR is a helper to parse CIDR during initialization
func parseCIDR(cidr string) *net.IPNet {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		panic(fmt.Sprintf("failed to parse trusted proxy CIDR %s: %v", cidr, err))
	}
	return network
}

// suspiciousPatterns covers probes this API has no business serving.
var suspiciousPatterns = []string{
	"../", "..\\", ".env", "wp-admin", "phpmyadmin",
	"admin.php", "config.php", ".git", ".ssh",
	"eval(", "javascript:", "<script", "union select",
	"etc/passwd", "cmd.exe",
}

// DetectSuspiciousRequest analyzes request patterns for potential threats
func (d *Detector) DetectSuspiciousRequest(r *http.Request) bool {
	suspicious := false

	path := strings.ToLower(r.URL.Path)
	for _, pattern := range suspiciousPatterns {
		if strings.Contains(path, pattern) {
			suspicious = true
			break
		}
	}

	if !suspicious {
		query := strings.ToLower(r.URL.RawQuery)
		for _, pattern := range suspiciousPatterns {
			if strings.Contains(query, pattern) {
				suspicious = true
				break
			}
		}
	}

	userAgent := strings.ToLower(r.Header.Get("User-Agent"))
	scannerAgents := []string{"sqlmap", "nmap", "nikto", "gobuster", "dirb"}
	for _, agent := range scannerAgents {
		if strings.Contains(userAgent, agent) {
			suspicious = true
			break
		}
	}

	unusualMethods := []string{"TRACE", "TRACK", "DEBUG", "CONNECT"}
	for _, method := range unusualMethods {
		if r.Method == method {
			suspicious = true
			break
		}
	}

	// Excessively long URLs suggest an overflow attempt
	if len(r.URL.String()) > 2048 {
		suspicious = true
	}

	if suspicious {
		atomic.AddInt64(&d.metrics.SuspiciousRequests, 1)
	}

	return suspicious
}

// Middleware logs suspicious requests without blocking them. Blocking
// on heuristics would make the heuristics an attack surface of their
// own; the log line is what an operator actually needs.
func (d *Detector) Middleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if d.DetectSuspiciousRequest(r) {
				logger.WarnContext(r.Context(), "suspicious request detected",
					"method", r.Method,
					"path", r.URL.Path,
					"client_ip", d.ExtractClientIP(r),
					"user_agent", r.Header.Get("User-Agent"))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// ExtractClientIP extracts the real client IP, validating forwarded headers
func (d *Detector) ExtractClientIP(r *http.Request) string {
	directIP, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		directIP = r.RemoteAddr
	}

	parsedDirectIP := net.ParseIP(directIP)
	if parsedDirectIP == nil {
		return directIP
	}

	// Forwarded headers are only believed from trusted proxies
	if d.isTrustedProxy(parsedDirectIP) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			ips := strings.Split(xff, ",")
			if len(ips) > 0 {
				clientIP := strings.TrimSpace(ips[0])
				if parsedIP := net.ParseIP(clientIP); parsedIP != nil {
					return clientIP
				}
			}
		}

		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			if parsedIP := net.ParseIP(xri); parsedIP != nil {
				return xri
			}
		}
	}

	return directIP
}

// isTrustedProxy checks if an IP is from a trusted proxy
func (d *Detector) isTrustedProxy(ip net.IP) bool {
	for _, network := range d.trustedProxies {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

// GetMetrics returns current security metrics
func (d *Detector) GetMetrics() DetectionMetrics {
	return DetectionMetrics{
		SuspiciousRequests: atomic.LoadInt64(&d.metrics.SuspiciousRequests),
	}
}

// AddTrustedProxy adds a trusted proxy network
func (d *Detector) AddTrustedProxy(cidr string) error {
	_, network, err := net.ParseCIDR(cidr)
	if err != nil {
		return fmt.Errorf("invalid CIDR %s: %w", cidr, err)
	}

	d.trustedProxies = append(d.trustedProxies, network)
	return nil
}
