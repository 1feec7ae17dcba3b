package keypair

import (
	"context"
	"crypto"
	"fmt"
	"sync"
	"time"

	kerrors "github.com/PolarWolf314/whisper/internal/errors"
	"github.com/PolarWolf314/whisper/internal/fingerprint"
	"github.com/PolarWolf314/whisper/internal/keycodec"
	logger "github.com/PolarWolf314/whisper/internal/logging"
	"github.com/PolarWolf314/whisper/internal/platform"
	"github.com/PolarWolf314/whisper/internal/store"
)

// KeyPair holds the handles of the active key pair.
type KeyPair struct {
	Public  platform.Key
	Private platform.Key
}

// Source records how the active key pair was obtained.
type Source string

const (
	SourceGenerated Source = "generated"
	SourceImported  Source = "imported"
	SourceLoaded    Source = "loaded"
)

// State is a consistent view of one commit.
type State struct {
	Ready              bool
	Source             Source
	PublicPem          string
	PrivatePem         string
	PublicFingerprint  string
	PrivateFingerprint string
	CommittedAt        time.Time
}

// Record returns the persisted/saved form of the key pair: the public PEM, a
// newline, then the private PEM. Empty when not ready.
func (s State) Record() string {
	if !s.Ready {
		return ""
	}
	return s.PublicPem + "\n" + s.PrivatePem
}

// Manager owns the active key pair. The zero value is not usable; use NewManager.
type Manager struct {
	provider platform.Provider
	store    store.Store
	log      logger.Logger
	now      func() time.Time

	// commitMu serializes commits so persistence order matches visible order.
	commitMu sync.Mutex

	mu          sync.RWMutex
	state       State
	active      KeyPair
	subscribers []func(State)
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the logger used for the silent startup load.
func WithLogger(l logger.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithClock overrides time.Now for CommittedAt.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager returns a manager with no active key pair.
func NewManager(provider platform.Provider, st store.Store, opts ...Option) *Manager {
	m := &Manager{
		provider: provider,
		store:    st,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns the current state.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Ready reports whether a key pair is active.
func (m *Manager) Ready() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state.Ready
}

// Active returns the active handles.
func (m *Manager) Active() (KeyPair, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.active, m.state.Ready
}

// Subscribe registers fn to be called with the new state after every commit.
// Calls happen in commit order.
func (m *Manager) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subscribers = append(m.subscribers, fn)
}

// Generate creates a fresh key pair with platform.DefaultParams and commits it.
// On failure the previous key pair stays active.
func (m *Manager) Generate(ctx context.Context) (State, error) {
	material, err := m.provider.GenerateKey(ctx, platform.DefaultParams)
	if err != nil {
		return m.Snapshot(), fmt.Errorf("%w: %v", kerrors.ErrKeyGenerate, err)
	}

	var kp KeyPair
	switch v := material.(type) {
	case platform.Pair:
		kp = KeyPair{Public: v.Public, Private: v.Private}
	case platform.Single:
		return m.Snapshot(), fmt.Errorf("%w: expected a key pair, got a single key", kerrors.ErrKeyGenerate)
	default:
		return m.Snapshot(), fmt.Errorf("%w: unexpected key material %T", kerrors.ErrKeyGenerate, material)
	}

	state, _, err := m.commit(ctx, kp, SourceGenerated, false)
	return state, err
}

// Import parses a key pair text (a PUBLIC KEY block and a PRIVATE KEY block in
// any order) and commits it. Parse and import failures return ErrKeyImport
// and leave the previous key pair active.
func (m *Manager) Import(ctx context.Context, text string) (State, error) {
	kp, err := m.ParseKeyPair(ctx, text)
	if err != nil {
		return m.Snapshot(), err
	}
	state, _, err := m.commit(ctx, kp, SourceImported, false)
	return state, err
}

// Commit makes kp the active key pair and records source as its origin.
// The record is persisted even for SourceLoaded.
func (m *Manager) Commit(ctx context.Context, kp KeyPair, source Source) (State, error) {
	state, _, err := m.commit(ctx, kp, source, false)
	return state, err
}

// LoadFromPersistence restores the persisted key pair when none is active. It
// never returns an error: failures are logged and the manager stays not
// ready. It reports whether a key pair was loaded by this call.
func (m *Manager) LoadFromPersistence(ctx context.Context) bool {
	if m.Ready() {
		m.log.Debugf("Key pair already active, skipping persisted record")
		return false
	}

	record, ok, err := m.store.Get(store.RecordKey)
	if err != nil {
		m.log.Warnf("Failed to read persisted key pair: %v", err)
		return false
	}
	if !ok {
		m.log.Debugf("No persisted key pair found")
		return false
	}

	kp, err := m.ParseKeyPair(ctx, record)
	if err != nil {
		m.log.Warnf("Failed to parse persisted key pair: %v", err)
		return false
	}

	_, loaded, err := m.commit(ctx, kp, SourceLoaded, true)
	if err != nil {
		m.log.Warnf("Failed to restore persisted key pair: %v", err)
		return false
	}
	if loaded {
		m.log.Infof("Loaded key pair from %s", store.RecordKey)
	}
	return loaded
}

// ParseKeyPair extracts the private and public blocks from text and imports
// each one. The two blocks are located independently.
func (m *Manager) ParseKeyPair(ctx context.Context, text string) (KeyPair, error) {
	if blocks, err := keycodec.Blocks(text); err == nil {
		labels := make([]string, 0, len(blocks))
		for _, b := range blocks {
			labels = append(labels, b.Label)
		}
		m.log.Debugf("Found PEM blocks: %v", labels)
	}

	privDER, err := keycodec.Decode(text, keycodec.LabelPrivate)
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: %w", kerrors.ErrKeyImport, err)
	}
	pubDER, err := keycodec.Decode(text, keycodec.LabelPublic)
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: %w", kerrors.ErrKeyImport, err)
	}

	priv, err := m.provider.ImportKey(ctx, platform.FormatPKCS8, privDER, platform.DefaultParams, platform.UsageDecrypt)
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: private key: %v", kerrors.ErrKeyImport, err)
	}
	pub, err := m.provider.ImportKey(ctx, platform.FormatSPKI, pubDER, platform.DefaultParams, platform.UsageEncrypt)
	if err != nil {
		return KeyPair{}, fmt.Errorf("%w: public key: %v", kerrors.ErrKeyImport, err)
	}

	return KeyPair{Public: pub, Private: priv}, nil
}

// commit derives everything first, then persists and swaps under commitMu.
// With onlyIfEmpty the commit is skipped (and not persisted) when a key pair
// became active in the meantime; the record already on disk is the one being
// loaded, so it is not written again.
func (m *Manager) commit(ctx context.Context, kp KeyPair, source Source, onlyIfEmpty bool) (State, bool, error) {
	next, err := m.derive(ctx, kp)
	if err != nil {
		return m.Snapshot(), false, err
	}
	next.Ready = true
	next.Source = source

	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	if onlyIfEmpty {
		if m.Ready() {
			return m.Snapshot(), false, nil
		}
	} else if err := m.store.Set(store.RecordKey, next.Record()); err != nil {
		return m.Snapshot(), false, fmt.Errorf("saving key pair: %w", err)
	}

	next.CommittedAt = m.now()

	m.mu.Lock()
	m.state = next
	m.active = kp
	subscribers := append([]func(State){}, m.subscribers...)
	m.mu.Unlock()

	for _, fn := range subscribers {
		fn(next)
	}

	return next, true, nil
}

func (m *Manager) derive(ctx context.Context, kp KeyPair) (State, error) {
	if kp.Public == nil || kp.Private == nil {
		return State{}, fmt.Errorf("%w: key pair is incomplete", kerrors.ErrKeyImport)
	}

	privDER, err := m.provider.ExportKey(ctx, platform.FormatPKCS8, kp.Private)
	if err != nil {
		return State{}, fmt.Errorf("%w: private key: %v", kerrors.ErrKeyExport, err)
	}
	pubDER, err := m.provider.ExportKey(ctx, platform.FormatSPKI, kp.Public)
	if err != nil {
		return State{}, fmt.Errorf("%w: public key: %v", kerrors.ErrKeyExport, err)
	}

	s := State{
		PrivatePem: keycodec.Encode(privDER, keycodec.LabelPrivate),
		PublicPem:  keycodec.Encode(pubDER, keycodec.LabelPublic),
	}

	if s.PrivateFingerprint, err = m.Fingerprint(ctx, s.PrivatePem); err != nil {
		return State{}, err
	}
	if s.PublicFingerprint, err = m.Fingerprint(ctx, s.PublicPem); err != nil {
		return State{}, err
	}

	return s, nil
}

// Fingerprint returns the emoji fingerprint of pemText, hashed by the
// manager's provider.
func (m *Manager) Fingerprint(ctx context.Context, pemText string) (string, error) {
	digest, err := m.provider.Digest(ctx, crypto.SHA256, []byte(pemText))
	if err != nil {
		return "", fmt.Errorf("%w: fingerprint: %v", kerrors.ErrKeyExport, err)
	}
	return fingerprint.Encode(digest), nil
}
