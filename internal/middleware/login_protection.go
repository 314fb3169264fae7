// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// LoginProtection combines per-IP rate limiting with lockout of the
// editor account after repeated failures. The builder has a single
// editor credential, so lockout is tracked globally rather than per
// account.
type LoginProtection struct {
	ipLimiters *limiterCache[string]

	mu          sync.Mutex
	count       int
	firstFailed time.Time
	lockedUntil time.Time
	lockouts    int

	maxFailedAttempts int
	lockoutDuration   time.Duration
	attemptWindow     time.Duration
}

// LoginProtectionConfig holds login protection settings.
type LoginProtectionConfig struct {
	// IPRateLimit is login requests per second per IP.
	IPRateLimit float64
	// IPBurst is the burst size for IP rate limiting.
	IPBurst int
	// MaxFailedAttempts before lockout.
	MaxFailedAttempts int
	// LockoutDuration is the base lockout time, doubling per lockout.
	LockoutDuration time.Duration
	// AttemptWindow is the window for counting failures.
	AttemptWindow time.Duration
}

// DefaultLoginProtectionConfig returns sensible defaults.
func DefaultLoginProtectionConfig() LoginProtectionConfig {
	return LoginProtectionConfig{
		IPRateLimit:       0.5,
		IPBurst:           5,
		MaxFailedAttempts: 5,
		LockoutDuration:   15 * time.Minute,
		AttemptWindow:     15 * time.Minute,
	}
}

// NewLoginProtection creates a login protection instance.
func NewLoginProtection(cfg LoginProtectionConfig) *LoginProtection {
	if cfg.IPRateLimit <= 0 {
		cfg.IPRateLimit = 0.5
	}
	if cfg.IPBurst <= 0 {
		cfg.IPBurst = 5
	}
	if cfg.MaxFailedAttempts <= 0 {
		cfg.MaxFailedAttempts = 5
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 15 * time.Minute
	}
	if cfg.AttemptWindow <= 0 {
		cfg.AttemptWindow = 15 * time.Minute
	}

	return &LoginProtection{
		ipLimiters:        newLimiterCache[string](cfg.IPRateLimit, cfg.IPBurst),
		maxFailedAttempts: cfg.MaxFailedAttempts,
		lockoutDuration:   cfg.LockoutDuration,
		attemptWindow:     cfg.AttemptWindow,
	}
}

// IsLocked reports whether login is currently locked out and for how
// much longer.
func (lp *LoginProtection) IsLocked() (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	if time.Now().Before(lp.lockedUntil) {
		return true, time.Until(lp.lockedUntil)
	}
	return false, 0
}

// RecordFailure records a failed login. Returns the lockout duration
// when this failure triggers a lockout.
func (lp *LoginProtection) RecordFailure() (bool, time.Duration) {
	lp.mu.Lock()
	defer lp.mu.Unlock()

	now := time.Now()
	if lp.count == 0 || now.Sub(lp.firstFailed) > lp.attemptWindow {
		lp.count = 1
		lp.firstFailed = now
		return false, 0
	}

	lp.count++
	if lp.count < lp.maxFailedAttempts {
		return false, 0
	}

	// Exponential backoff per lockout, capped at 24h.
	lockDuration := lp.lockoutDuration
	for i := 0; i < lp.lockouts; i++ {
		lockDuration *= 2
		if lockDuration > 24*time.Hour {
			lockDuration = 24 * time.Hour
			break
		}
	}

	lp.lockedUntil = now.Add(lockDuration)
	lp.lockouts++
	lp.count = 0

	slog.Warn("editor login locked after repeated failures",
		"lockouts", lp.lockouts, "duration", lockDuration)
	return true, lockDuration
}

// RecordSuccess clears the failure counter.
func (lp *LoginProtection) RecordSuccess() {
	lp.mu.Lock()
	defer lp.mu.Unlock()
	lp.count = 0
	lp.lockedUntil = time.Time{}
}

// Middleware rate-limits login POSTs per client IP.
func (lp *LoginProtection) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodPost {
				next.ServeHTTP(w, r)
				return
			}

			ip := getClientIP(r)
			if !lp.ipLimiters.get(ip).Allow() {
				slog.Warn("login rate limit exceeded", "ip", ip)
				http.Error(w, "Too many login attempts, slow down", http.StatusTooManyRequests)
				return
			}
			lp.ipLimiters.clearIfExceeds(10000)

			next.ServeHTTP(w, r)
		})
	}
}
