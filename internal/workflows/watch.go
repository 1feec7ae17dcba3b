package workflows

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/PolarWolf314/whisper/internal/cipher"
	"github.com/PolarWolf314/whisper/internal/utils"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits after the last change to a file
// before decrypting it again.
const DefaultDebounce = 200 * time.Millisecond

// WatchOptions configures the watch workflow.
type WatchOptions struct {
	// Path is the file holding the ciphertext.
	Path string

	// Debounce defaults to DefaultDebounce.
	Debounce time.Duration

	// OnView receives every view the session applies, newest input only. It
	// must not block.
	OnView func(cipher.View)
}

// Watch decrypts the file at Path and again every time it changes, until ctx
// is done. Rapid successive writes collapse into one decrypt, and a result
// for an older version of the file is never shown after a newer one.
//
// Returns ErrFileNotFound if Path does not exist when watching starts.
func Watch(ctx context.Context, env *Env, opts WatchOptions) error {
	path, err := filepath.Abs(opts.Path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", opts.Path, err)
	}

	initial, err := utils.ReadFile(path)
	if err != nil {
		return err
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	var sessionOpts []cipher.SessionOption
	if opts.OnView != nil {
		sessionOpts = append(sessionOpts, cipher.OnChange(opts.OnView))
	}
	session := env.NewSession(sessionOpts...)
	defer session.Wait()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Editors often replace a file by renaming over it, which drops a watch
	// on the file itself, so the directory is watched instead.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	session.Submit(ctx, string(initial))

	reload := make(chan struct{}, 1)
	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case reload <- struct{}{}:
				default:
				}
			})

		case <-reload:
			data, err := utils.ReadFile(path)
			if err != nil {
				env.Log.Debugf("Skipping change to %s: %v", path, err)
				continue
			}
			env.Log.Debugf("Decrypting %s (%s)", path, utils.Abbreviate(string(data), 16))
			session.Submit(ctx, string(data))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			env.Log.Warnf("File watcher error: %v", err)
		}
	}
}
