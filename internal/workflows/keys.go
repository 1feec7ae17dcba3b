package workflows

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/PolarWolf314/whisper/internal/audit"
	kerrors "github.com/PolarWolf314/whisper/internal/errors"
	"github.com/PolarWolf314/whisper/internal/fingerprint"
	"github.com/PolarWolf314/whisper/internal/keypair"
	"github.com/PolarWolf314/whisper/internal/platform"
	"github.com/PolarWolf314/whisper/internal/utils"
)

// Export formats.
const (
	ExportFormatPEM = "pem"
	ExportFormatSSH = "ssh"
)

// KeyResult contains the key pair committed by Generate or Import.
type KeyResult struct {
	State keypair.State
	KeyID string
}

// Generate creates a fresh key pair and makes it the active one.
//
// Returns ErrKeyGenerate if the platform cannot produce a key pair, or
// ErrStorePersist if it cannot be saved. The previous key pair stays active
// in both cases.
func Generate(ctx context.Context, env *Env) (*KeyResult, error) {
	state, err := env.Manager.Generate(ctx)

	entry := audit.Result(audit.OpGenerate, err)
	if err != nil {
		audit.Log(entry)
		return nil, err
	}

	result := &KeyResult{State: state, KeyID: env.KeyID()}
	entry.KeyID = result.KeyID
	entry.Fingerprint = state.PublicFingerprint
	audit.Log(entry)

	return result, nil
}

// ImportOptions configures the import workflow.
type ImportOptions struct {
	// Path is the key pair file. Ignored when Data is set.
	Path string

	// Data contains the key pair text when reading from stdin.
	Data []byte
}

// Import replaces the active key pair with the one in a key pair file. The
// file must hold one PUBLIC KEY and one PRIVATE KEY block, in either order.
//
// Returns ErrFileNotFound if Path does not exist, or ErrKeyImport (wrapping
// ErrPemParse where applicable) if the text is not a usable key pair.
func Import(ctx context.Context, env *Env, opts ImportOptions) (*KeyResult, error) {
	source := "stdin"
	data := opts.Data
	if data == nil {
		source = opts.Path
		var err error
		data, err = utils.ReadFile(opts.Path)
		if err != nil {
			return nil, err
		}
	}

	state, err := env.Manager.Import(ctx, string(data))

	entry := audit.Result(audit.OpImport, err)
	entry.Source = source
	if err != nil {
		audit.Log(entry)
		return nil, err
	}

	result := &KeyResult{State: state, KeyID: env.KeyID()}
	entry.KeyID = result.KeyID
	entry.Fingerprint = state.PublicFingerprint
	audit.Log(entry)

	return result, nil
}

// ShowOptions configures the show workflow.
type ShowOptions struct {
	// SSH adds the OpenSSH SHA256 fingerprint of the public key.
	SSH bool
}

// ShowResult describes the active key pair.
type ShowResult struct {
	Ready              bool       `json:"ready" yaml:"ready"`
	KeyID              string     `json:"key_id,omitempty" yaml:"key_id,omitempty"`
	Source             string     `json:"source,omitempty" yaml:"source,omitempty"`
	CreatedAt          *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	PublicFingerprint  string     `json:"public_fingerprint,omitempty" yaml:"public_fingerprint,omitempty"`
	PrivateFingerprint string     `json:"private_fingerprint,omitempty" yaml:"private_fingerprint,omitempty"`
	SSHFingerprint     string     `json:"ssh_fingerprint,omitempty" yaml:"ssh_fingerprint,omitempty"`
}

// Show reports whether a key pair is active and, if so, its fingerprints.
// Not being ready is a result, not an error.
func Show(ctx context.Context, env *Env, opts ShowOptions) (*ShowResult, error) {
	state := env.Manager.Snapshot()
	if !state.Ready {
		return &ShowResult{}, nil
	}

	result := &ShowResult{
		Ready:              true,
		Source:             string(state.Source),
		PublicFingerprint:  state.PublicFingerprint,
		PrivateFingerprint: state.PrivateFingerprint,
	}

	if m := env.Metadata(); m != nil && m.PublicFingerprint == state.PublicFingerprint {
		result.KeyID = m.KeyID
		createdAt := m.CreatedAt
		result.CreatedAt = &createdAt
		if state.Source == keypair.SourceLoaded && m.Source != "" {
			result.Source = m.Source
		}
	}

	if opts.SSH {
		kp, _ := env.Manager.Active()
		pub, ok := platform.PublicKeyOf(kp.Public)
		if !ok {
			return nil, fmt.Errorf("%w: public key has no SSH form", kerrors.ErrKeyExport)
		}
		sshFP, err := fingerprint.SSH(pub)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", kerrors.ErrKeyExport, err)
		}
		result.SSHFingerprint = sshFP
	}

	return result, nil
}

// Public returns the active public key PEM.
//
// Returns ErrNotReady if no key pair is active.
func Public(ctx context.Context, env *Env) (string, error) {
	state := env.Manager.Snapshot()
	if !state.Ready {
		return "", kerrors.ErrNotReady
	}
	return state.PublicPem, nil
}

// ExportOptions configures the export workflow.
type ExportOptions struct {
	// Path is the output file. Defaults to the configured export name.
	Path string

	// PublicOnly writes only the public key.
	PublicOnly bool

	// Format is ExportFormatPEM (default) or ExportFormatSSH. SSH output is
	// always the public key as an authorized_keys line.
	Format string

	// Force overwrites an existing file.
	Force bool
}

// ExportResult contains the outcome of an export operation.
type ExportResult struct {
	Path       string
	Format     string
	PublicOnly bool
}

// Export saves the active key pair to a file: the public PEM, a newline, then
// the private PEM, which Import reads back.
//
// Returns ErrNotReady if no key pair is active, ErrOutputExists if the file
// exists and Force is not set, or ErrUnsupportedFormat.
func Export(ctx context.Context, env *Env, opts ExportOptions) (*ExportResult, error) {
	result := &ExportResult{
		Path:       opts.Path,
		Format:     opts.Format,
		PublicOnly: opts.PublicOnly,
	}
	if result.Path == "" {
		result.Path = env.Config.Keys.ExportName
	}
	if result.Format == "" {
		result.Format = ExportFormatPEM
	}

	err := export(env, result, opts.Force)

	entry := audit.Result(audit.OpExport, err)
	entry.OutputPath = result.Path
	entry.Format = result.Format
	entry.KeyID = env.KeyID()
	audit.Log(entry)

	if err != nil {
		return nil, err
	}
	return result, nil
}

func export(env *Env, result *ExportResult, force bool) error {
	state := env.Manager.Snapshot()
	if !state.Ready {
		return kerrors.ErrNotReady
	}

	var content string
	perm := os.FileMode(filePermPrivate)

	switch result.Format {
	case ExportFormatPEM:
		if result.PublicOnly {
			content = state.PublicPem
			perm = filePermPublic
		} else {
			content = state.Record()
		}
	case ExportFormatSSH:
		kp, _ := env.Manager.Active()
		pub, ok := platform.PublicKeyOf(kp.Public)
		if !ok {
			return fmt.Errorf("%w: public key has no SSH form", kerrors.ErrKeyExport)
		}
		line, err := fingerprint.AuthorizedKey(pub, authorizedKeyComment(env.KeyID()))
		if err != nil {
			return fmt.Errorf("%w: %v", kerrors.ErrKeyExport, err)
		}
		content = line + "\n"
		perm = filePermPublic
		result.PublicOnly = true
	default:
		return fmt.Errorf("%w: %q (use pem or ssh)", kerrors.ErrUnsupportedFormat, result.Format)
	}

	return utils.WriteFile(result.Path, []byte(content), perm, force)
}

const (
	filePermPrivate = 0600
	filePermPublic  = 0644
)

func authorizedKeyComment(keyID string) string {
	if keyID == "" {
		return "whisper"
	}
	return "whisper:" + keyID
}

// IsExpected reports whether err is one of the failures commands print as a
// plain message rather than an internal error.
func IsExpected(err error) bool {
	for _, target := range []error{
		kerrors.ErrNotReady,
		kerrors.ErrKeyImport,
		kerrors.ErrPemParse,
		kerrors.ErrDecryption,
		kerrors.ErrPayloadTooLarge,
		kerrors.ErrFileNotFound,
		kerrors.ErrOutputExists,
		kerrors.ErrUnsupportedFormat,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
