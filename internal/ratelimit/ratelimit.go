// Package ratelimit provides Redis-backed rate limiting for the login endpoint.
// When Redis is unavailable (nil store), all rate limits are disabled — requests pass.
// This ensures the service degrades gracefully in dev/test environments without Redis.
// Email addresses are SHA-256 hashed before use as Redis keys to avoid storing PII.
package ratelimit

import (
	"context"
	"crypto/sha256"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Store is the minimal interface required for rate limiting.
// In production this is implemented by go-redis; in tests by an in-memory map.
type Store interface {
	// Incr atomically increments a counter key and returns the new value.
	Incr(ctx context.Context, key string) (int64, error)
	// Expire sets the TTL on a key (only if TTL not already set by the incr).
	Expire(ctx context.Context, key string, ttl time.Duration) error
	// TTL returns the remaining time-to-live on a key. Returns 0 or negative if expired/missing.
	TTL(ctx context.Context, key string) (time.Duration, error)
	// Del removes one or more keys.
	Del(ctx context.Context, keys ...string) error
	// Set stores a value with expiry.
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
}

// Limiter performs rate limit checks against a Store.
type Limiter struct {
	store Store
}

// New creates a Limiter backed by the given Store.
// If store is nil, the Limiter is a no-op that always allows requests.
func New(store Store) *Limiter {
	return &Limiter{store: store}
}

// CheckLogin enforces: max 20 login attempts per IP per 15 minutes.
// Returns (allowed bool, retryAfterSecs int).
func (l *Limiter) CheckLogin(ctx context.Context, ip string) (bool, int) {
	return l.check(ctx, fmt.Sprintf("rate:login:ip:%s", ip), 20, 900)
}

// ResetLoginIP resets the IP-based login counter on successful login.
func (l *Limiter) ResetLoginIP(ctx context.Context, ip string) {
	if l.store == nil {
		return
	}
	l.store.Del(ctx, fmt.Sprintf("rate:login:ip:%s", ip))
}

// RecordLoginFailure records a failed login for an email. After 5 failures
// within 24 hours the email is locked out for 15 minutes.
// Returns (isLocked bool, lockoutSeconds int).
func (l *Limiter) RecordLoginFailure(ctx context.Context, email string) (bool, int) {
	if l.store == nil {
		return false, 0
	}

	failKey := fmt.Sprintf("lockout:email:%s:fails", hashEmail(email))
	count, err := l.store.Incr(ctx, failKey)
	if err != nil {
		return false, 0
	}
	l.store.Expire(ctx, failKey, 24*time.Hour)

	if count < 5 {
		return false, 0
	}

	const lockoutSecs = 900
	lockoutKey := fmt.Sprintf("lockout:email:%s:until", hashEmail(email))
	l.store.Set(ctx, lockoutKey, "1", lockoutSecs*time.Second)
	return true, lockoutSecs
}

// CheckEmailLockout checks if an email is currently locked out.
// Returns (locked bool, secondsRemaining int).
func (l *Limiter) CheckEmailLockout(ctx context.Context, email string) (bool, int) {
	if l.store == nil {
		return false, 0
	}
	lockoutKey := fmt.Sprintf("lockout:email:%s:until", hashEmail(email))
	ttl, err := l.store.TTL(ctx, lockoutKey)
	if err != nil || ttl <= 0 {
		return false, 0
	}
	return true, int(ttl.Seconds())
}

// ResetLoginEmail clears lockout state for an email on successful login.
func (l *Limiter) ResetLoginEmail(ctx context.Context, email string) {
	if l.store == nil {
		return
	}
	h := hashEmail(email)
	l.store.Del(ctx,
		fmt.Sprintf("lockout:email:%s:fails", h),
		fmt.Sprintf("lockout:email:%s:until", h),
	)
}

// ClientIP extracts the real client IP from a request, handling reverse proxy headers.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	addr := r.RemoteAddr
	if i := strings.LastIndex(addr, ":"); i > 0 {
		return addr[:i]
	}
	return addr
}

// check is the generic increment-and-check against a Redis key.
// Returns (allowed, retryAfterSecs). If store is nil, always returns (true, 0).
func (l *Limiter) check(ctx context.Context, key string, max int, ttlSecs int) (bool, int) {
	if l.store == nil {
		return true, 0
	}

	count, err := l.store.Incr(ctx, key)
	if err != nil {
		// Redis error — fail open (allow request, don't block on infra issues)
		return true, 0
	}

	if count == 1 {
		l.store.Expire(ctx, key, time.Duration(ttlSecs)*time.Second)
	}

	if count > int64(max) {
		ttl, _ := l.store.TTL(ctx, key)
		retry := int(ttl.Seconds())
		if retry < 1 {
			retry = ttlSecs
		}
		return false, retry
	}

	return true, 0
}

// hashEmail produces a 16-hex-char hash of an email for use as Redis key suffix.
// Avoids storing plaintext emails in Redis; good enough for key uniqueness.
func hashEmail(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return fmt.Sprintf("%x", sum[:8])
}
