package auth

import (
	"sync"
	"time"
)

// RateLimiter throttles credential attempts per IP+email combination using a
// sliding window, so one address cannot brute-force one account.
type RateLimiter struct {
	mu              sync.RWMutex
	attempts        map[string]*attemptRecord
	maxAttempts     int
	windowDuration  time.Duration
	lockoutDuration time.Duration
	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	stopOnce        sync.Once
}

type attemptRecord struct {
	count        int
	firstAttempt time.Time
	lockedUntil  time.Time
}

// RateLimitConfig contains configuration for the rate limiter.
type RateLimitConfig struct {
	MaxAttempts     int           // Maximum attempts before lockout (default: 5)
	WindowDuration  time.Duration // Time window for counting attempts (default: 15m)
	LockoutDuration time.Duration // How long to lock out after max attempts (default: 30m)
	CleanupInterval time.Duration // How often to clean up expired records (default: 5m)
}

// NewRateLimiter creates a new rate limiter with the given configuration.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = 5
	}
	if cfg.WindowDuration <= 0 {
		cfg.WindowDuration = 15 * time.Minute
	}
	if cfg.LockoutDuration <= 0 {
		cfg.LockoutDuration = 30 * time.Minute
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = 5 * time.Minute
	}

	rl := &RateLimiter{
		attempts:        make(map[string]*attemptRecord),
		maxAttempts:     cfg.MaxAttempts,
		windowDuration:  cfg.WindowDuration,
		lockoutDuration: cfg.LockoutDuration,
		cleanupInterval: cfg.CleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop stops the background cleanup goroutine. Safe to call more than once;
// both the entrypoint and the auth controller may own the same limiter.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

func (rl *RateLimiter) makeKey(ip, email string) string {
	return ip + ":" + email
}

// Allow checks if a credential attempt should be allowed.
// Returns (allowed bool, retryAfter time.Duration).
func (rl *RateLimiter) Allow(ip, email string) (bool, time.Duration) {
	key := rl.makeKey(ip, email)
	now := time.Now()

	rl.mu.RLock()
	record, exists := rl.attempts[key]
	rl.mu.RUnlock()

	if !exists {
		return true, 0
	}

	if !record.lockedUntil.IsZero() && now.Before(record.lockedUntil) {
		return false, record.lockedUntil.Sub(now)
	}

	if now.Sub(record.firstAttempt) > rl.windowDuration {
		return true, 0
	}

	if record.count < rl.maxAttempts {
		return true, 0
	}

	return false, rl.lockoutDuration
}

// RecordFailure records a failed credential attempt.
// Returns (locked bool, retryAfter time.Duration).
func (rl *RateLimiter) RecordFailure(ip, email string) (bool, time.Duration) {
	key := rl.makeKey(ip, email)
	now := time.Now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	record, exists := rl.attempts[key]
	if !exists {
		record = &attemptRecord{firstAttempt: now}
		rl.attempts[key] = record
	}

	// Reset if window expired
	if now.Sub(record.firstAttempt) > rl.windowDuration {
		record.count = 0
		record.firstAttempt = now
		record.lockedUntil = time.Time{}
	}

	record.count++

	if record.count >= rl.maxAttempts {
		record.lockedUntil = now.Add(rl.lockoutDuration)
		return true, rl.lockoutDuration
	}

	return false, 0
}

// RecordSuccess clears the failure record after a successful sign-in.
func (rl *RateLimiter) RecordSuccess(ip, email string) {
	key := rl.makeKey(ip, email)

	rl.mu.Lock()
	delete(rl.attempts, key)
	rl.mu.Unlock()
}

func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *RateLimiter) cleanup() {
	now := time.Now()
	expiry := rl.windowDuration + rl.lockoutDuration

	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, record := range rl.attempts {
		windowExpired := now.Sub(record.firstAttempt) > expiry
		lockoutExpired := record.lockedUntil.IsZero() || now.After(record.lockedUntil)

		if windowExpired && lockoutExpired {
			delete(rl.attempts, key)
		}
	}
}
