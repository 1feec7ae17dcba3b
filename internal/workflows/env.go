package workflows

import (
	"context"
	"fmt"
	"sync"

	"github.com/PolarWolf314/whisper/internal/audit"
	"github.com/PolarWolf314/whisper/internal/cipher"
	"github.com/PolarWolf314/whisper/internal/configs"
	"github.com/PolarWolf314/whisper/internal/keypair"
	logger "github.com/PolarWolf314/whisper/internal/logging"
	"github.com/PolarWolf314/whisper/internal/platform"
	"github.com/PolarWolf314/whisper/internal/store"
)

// OpenOptions configures Open. Zero values select the on-disk defaults.
type OpenOptions struct {
	Logger logger.Logger

	// Config overrides config.toml.
	Config *configs.Config

	// Provider overrides the RSA provider.
	Provider platform.Provider

	// Store overrides the file store at Config.Store.Path.
	Store store.Store
}

// Env is an opened whisper environment: configuration, the key pair manager
// and the cipher service sharing one provider.
type Env struct {
	Config   *configs.Config
	Manager  *keypair.Manager
	Cipher   *cipher.Service
	Provider platform.Provider
	Log      logger.Logger

	metaMu   sync.Mutex
	metadata *configs.KeyMetadata
}

// Open builds an Env and restores the persisted key pair, if any. A missing
// or unreadable key pair is not an error: the Env is simply not ready.
//
// Returns ErrStoreCorrupted if the store file cannot be decoded.
func Open(ctx context.Context, opts OpenOptions) (*Env, error) {
	config := opts.Config
	if config == nil {
		var err error
		config, err = configs.LoadConfig()
		if err != nil {
			return nil, err
		}
	}

	audit.SetEnabled(config.Audit.Enabled)

	st := opts.Store
	if st == nil {
		fileStore, err := store.NewFileStore(config.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("opening key store: %w", err)
		}
		st = fileStore
	}

	provider := opts.Provider
	if provider == nil {
		provider = platform.NewRSAProvider()
	}

	env := &Env{
		Config:   config,
		Manager:  keypair.NewManager(provider, st, keypair.WithLogger(opts.Logger)),
		Cipher:   cipher.NewService(provider),
		Provider: provider,
		Log:      opts.Logger,
	}

	metadata, err := configs.LoadKeyMetadata()
	if err != nil {
		opts.Logger.Warnf("Ignoring key metadata: %v", err)
	}
	env.metadata = metadata

	env.Manager.Subscribe(env.recordCommit)

	if env.Manager.LoadFromPersistence(ctx) {
		entry := audit.Result(audit.OpLoad, nil)
		entry.Fingerprint = env.Manager.Snapshot().PublicFingerprint
		entry.KeyID = env.KeyID()
		audit.Log(entry)
	}

	return env, nil
}

// Metadata returns a copy of the active key pair's metadata, or nil.
func (e *Env) Metadata() *configs.KeyMetadata {
	e.metaMu.Lock()
	defer e.metaMu.Unlock()
	if e.metadata == nil {
		return nil
	}
	m := *e.metadata
	return &m
}

// KeyID returns the id of the active key pair, or "" when unknown.
func (e *Env) KeyID() string {
	if m := e.Metadata(); m != nil {
		return m.KeyID
	}
	return ""
}

// NewSession returns a decrypt session bound to whatever key pair is active
// when each input is submitted.
func (e *Env) NewSession(opts ...cipher.SessionOption) *cipher.Session {
	return cipher.NewSession(e.Cipher, e.privateKey, opts...)
}

func (e *Env) privateKey() (platform.Key, bool) {
	kp, ok := e.Manager.Active()
	if !ok {
		return nil, false
	}
	return kp.Private, true
}

// recordCommit keeps metadata.toml in step with the manager. A loaded key pair
// keeps its metadata when the public fingerprint still matches.
func (e *Env) recordCommit(state keypair.State) {
	e.metaMu.Lock()
	defer e.metaMu.Unlock()

	if state.Source == keypair.SourceLoaded && e.metadata != nil &&
		e.metadata.PublicFingerprint == state.PublicFingerprint {
		return
	}

	metadata := &configs.KeyMetadata{
		KeyID:             configs.GenerateKeyID(),
		Source:            string(state.Source),
		PublicFingerprint: state.PublicFingerprint,
		CreatedAt:         state.CommittedAt.UTC(),
	}
	if err := configs.SaveKeyMetadata(metadata); err != nil {
		e.Log.Warnf("Failed to save key metadata: %v", err)
	}
	e.metadata = metadata
}
