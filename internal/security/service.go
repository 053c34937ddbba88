package security

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dropbox/godropbox/time2"
	"github.com/kashguard/go-wallet-core/internal/metrics"
	"github.com/kashguard/go-wallet-core/internal/storage"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

const (
	pinLength = 6

	// MaxFailedAttempts is the consecutive-failure threshold that
	// triggers a lockout.
	MaxFailedAttempts = 5
	// LockDuration is how long the gate stays locked. Advisory against
	// casual brute force, not a cryptographic guarantee: an attacker
	// with the raw storage is limited by the PIN hash cost, not this.
	LockDuration = 5 * time.Minute

	stateKey = "security:state"
)

var (
	ErrInvalidPin   = errors.New("pin must be exactly 6 digits")
	ErrIncorrectPin = errors.New("incorrect pin")
	ErrNoPinSet     = errors.New("no pin set")
	ErrPinRequired  = errors.New("a pin must be set first")
	// ErrBiometricsNotEnabled rejects a biometric attempt before
	// EnableBiometrics has been called.
	ErrBiometricsNotEnabled = errors.New("biometrics not enabled")
	// ErrAuthenticationFailed covers a wrong credential of either type.
	ErrAuthenticationFailed = errors.New("authentication failed")
)

// LockedError reports a locked gate together with the remaining time.
type LockedError struct {
	Remaining time.Duration
}

func (e *LockedError) Error() string {
	return fmt.Sprintf("account locked for another %s", e.Remaining.Round(time.Second))
}

// CredentialType selects the verification path in Authenticate.
type CredentialType string

const (
	CredentialPIN       CredentialType = "pin"
	CredentialBiometric CredentialType = "biometric"
)

// Credential is one authentication attempt. Value carries the PIN for
// CredentialPIN and is ignored for CredentialBiometric.
type Credential struct {
	Type  CredentialType
	Value string
}

// BiometricVerifier is the platform biometric prompt. The core never
// sees biometric data; it only consumes the accept/reject outcome.
type BiometricVerifier interface {
	Verify(ctx context.Context) (bool, error)
}

// State is the persisted authentication state. Invariants:
// BiometricsEnabled implies PINHash is set; FailedAttempts at the
// threshold implies LockedUntil is in the future until it lazily
// expires.
type State struct {
	PINHash           string    `json:"pin_hash,omitempty"`
	BiometricsEnabled bool      `json:"biometrics_enabled"`
	FailedAttempts    int       `json:"failed_attempts"`
	LockedUntil       time.Time `json:"locked_until"`
}

// Service is the PIN/biometric gate in front of key material. All state
// transitions run under one mutex so rapid concurrent retries cannot
// bypass the attempt counter.
type Service struct {
	store     storage.SecureStorage
	clock     time2.Clock
	biometric BiometricVerifier

	mu sync.Mutex
}

// NewService creates the gate. biometric may be nil when the platform
// offers none; EnableBiometrics then fails.
func NewService(store storage.SecureStorage, clock time2.Clock, biometric BiometricVerifier) *Service {
	return &Service{
		store:     store,
		clock:     clock,
		biometric: biometric,
	}
}

// SetPIN hashes and stores a new PIN. Valid both for first-time setup
// and for overwriting an existing PIN.
func (s *Service) SetPIN(ctx context.Context, pin string) error {
	if !validPINFormat(pin) {
		return ErrInvalidPin
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}

	hash, err := hashPIN(pin)
	if err != nil {
		return err
	}

	state.PINHash = hash
	state.FailedAttempts = 0
	state.LockedUntil = time.Time{}
	return s.saveState(ctx, state)
}

// VerifyPIN checks a PIN without affecting the attempt counter. Returns
// false when no PIN is set.
func (s *Service) VerifyPIN(ctx context.Context, pin string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return false, err
	}
	if state.PINHash == "" {
		return false, nil
	}
	return verifyPIN(pin, state.PINHash), nil
}

// ChangePIN replaces the PIN after verifying the current one.
func (s *Service) ChangePIN(ctx context.Context, current, next string) error {
	if !validPINFormat(next) {
		return ErrInvalidPin
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	if state.PINHash == "" {
		return ErrNoPinSet
	}
	if !verifyPIN(current, state.PINHash) {
		return ErrIncorrectPin
	}

	hash, err := hashPIN(next)
	if err != nil {
		return err
	}
	state.PINHash = hash
	return s.saveState(ctx, state)
}

// RemovePIN clears the PIN after verification. Biometrics are forced
// off: they cannot exist without a PIN fallback.
func (s *Service) RemovePIN(ctx context.Context, current string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	if state.PINHash == "" {
		return ErrNoPinSet
	}
	if !verifyPIN(current, state.PINHash) {
		return ErrIncorrectPin
	}

	state.PINHash = ""
	state.BiometricsEnabled = false
	state.FailedAttempts = 0
	state.LockedUntil = time.Time{}
	return s.saveState(ctx, state)
}

// EnableBiometrics turns the biometric path on. Requires a PIN and a
// platform verifier.
func (s *Service) EnableBiometrics(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	if state.PINHash == "" {
		return ErrPinRequired
	}
	if s.biometric == nil {
		return errors.New("no biometric verifier available")
	}

	state.BiometricsEnabled = true
	return s.saveState(ctx, state)
}

// DisableBiometrics turns the biometric path off.
func (s *Service) DisableBiometrics(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}
	state.BiometricsEnabled = false
	return s.saveState(ctx, state)
}

// Authenticate is the central gate. A locked gate fails immediately
// with the remaining time and does not consume an attempt. A success
// resets the counter; the failure that reaches MaxFailedAttempts locks
// the gate for LockDuration.
func (s *Service) Authenticate(ctx context.Context, cred Credential) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return err
	}

	if remaining, locked := s.lockRemaining(state); locked {
		return &LockedError{Remaining: remaining}
	}

	metrics.AuthAttempts.WithLabelValues(string(cred.Type)).Inc()

	ok, err := s.verifyCredential(ctx, state, cred)
	if err != nil {
		return err
	}

	if ok {
		state.FailedAttempts = 0
		state.LockedUntil = time.Time{}
		return s.saveState(ctx, state)
	}

	metrics.AuthFailures.WithLabelValues(string(cred.Type)).Inc()
	state.FailedAttempts++
	if state.FailedAttempts >= MaxFailedAttempts {
		state.LockedUntil = s.clock.Now().Add(LockDuration)
		metrics.Lockouts.Inc()
		log.Warn().Int("failed_attempts", state.FailedAttempts).Msg("authentication gate locked")
	}
	if err := s.saveState(ctx, state); err != nil {
		return err
	}
	return ErrAuthenticationFailed
}

// IsLocked reports the lock state, lazily expiring a stale lock and
// resetting the attempt counter when it does.
func (s *Service) IsLocked(ctx context.Context) (bool, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return false, 0, err
	}

	hadLock := !state.LockedUntil.IsZero()
	remaining, locked := s.lockRemaining(state)
	if !locked && hadLock {
		// The lock just expired: persist the attempt-counter reset.
		if err := s.saveState(ctx, state); err != nil {
			return false, 0, err
		}
	}
	return locked, remaining, nil
}

// GetState returns a copy of the current state for status displays.
func (s *Service) GetState(ctx context.Context) (*State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return nil, err
	}
	out := *state
	out.PINHash = "" // never expose the hash
	return &out, nil
}

// HasPIN reports whether a PIN has been configured.
func (s *Service) HasPIN(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, err := s.loadState(ctx)
	if err != nil {
		return false, err
	}
	return state.PINHash != "", nil
}

// Reset wipes all authentication state (full app data wipe).
func (s *Service) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store.DeleteItem(ctx, stateKey)
}

// lockRemaining reports whether state is locked at the current clock
// reading. An expired lock is cleared in state (caller persists).
func (s *Service) lockRemaining(state *State) (time.Duration, bool) {
	if state.LockedUntil.IsZero() {
		return 0, false
	}
	now := s.clock.Now()
	if now.Before(state.LockedUntil) {
		return state.LockedUntil.Sub(now), true
	}
	state.LockedUntil = time.Time{}
	state.FailedAttempts = 0
	return 0, false
}

func (s *Service) verifyCredential(ctx context.Context, state *State, cred Credential) (bool, error) {
	switch cred.Type {
	case CredentialPIN:
		if state.PINHash == "" {
			return false, ErrNoPinSet
		}
		return verifyPIN(cred.Value, state.PINHash), nil
	case CredentialBiometric:
		if !state.BiometricsEnabled {
			return false, ErrBiometricsNotEnabled
		}
		if s.biometric == nil {
			return false, errors.New("no biometric verifier available")
		}
		return s.biometric.Verify(ctx)
	default:
		return false, errors.Errorf("unknown credential type %q", cred.Type)
	}
}

func (s *Service) loadState(ctx context.Context) (*State, error) {
	var state State
	err := s.store.GetObject(ctx, stateKey, &state)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return &State{}, nil
		}
		return nil, err
	}
	return &state, nil
}

func (s *Service) saveState(ctx context.Context, state *State) error {
	return s.store.SetObject(ctx, stateKey, state)
}
