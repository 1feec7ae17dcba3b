package cipher

import (
	"bytes"
	"context"
	"encoding/base64"
	"sync"
	"testing"
	"time"

	"github.com/PolarWolf314/whisper/internal/platform"
	"github.com/PolarWolf314/whisper/internal/platform/platformtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func staticKey(key platform.Key) KeyFunc {
	return func() (platform.Key, bool) { return key, key != nil }
}

func TestSession_AppliesLatestResult(t *testing.T) {
	pair, _ := platformtest.Pairs(t)
	provider := platformtest.New()
	svc := NewService(provider)
	ctx := context.Background()

	first, err := svc.Encrypt(ctx, "first", pair.Public)
	require.NoError(t, err)
	second, err := svc.Encrypt(ctx, "second", pair.Public)
	require.NoError(t, err)
	firstRaw, _ := base64.StdEncoding.DecodeString(first)

	release := make(chan struct{})
	provider.BeforeDecrypt = func(ciphertext []byte) {
		if bytes.Equal(ciphertext, firstRaw) {
			<-release
		}
	}

	session := NewSession(svc, staticKey(pair.Private))
	firstSeq := session.Submit(ctx, first)
	secondSeq := session.Submit(ctx, second)
	assert.Greater(t, secondSeq, firstSeq)

	require.Eventually(t, func() bool {
		return session.View().Plaintext == "second"
	}, 5*time.Second, 10*time.Millisecond)

	// The older decrypt resolves last and must be ignored.
	close(release)
	session.Wait()

	view := session.View()
	assert.Equal(t, "second", view.Plaintext)
	assert.Equal(t, secondSeq, view.Seq)
	assert.False(t, view.Invalid)
	assert.False(t, view.Pending)
	assert.Equal(t, uint64(1), session.Dropped())
}

func TestSession_EmptyInputClearsError(t *testing.T) {
	pair, _ := platformtest.Pairs(t)
	provider := platformtest.New()
	session := NewSession(NewService(provider), staticKey(pair.Private))
	ctx := context.Background()

	session.Submit(ctx, "not-valid-base64!!")
	session.Wait()
	view := session.View()
	assert.True(t, view.Invalid)
	assert.Equal(t, HelperInvalid, view.Helper)
	assert.Equal(t, "", view.Plaintext)

	calls := provider.Calls(platformtest.OpDecrypt)
	session.Submit(ctx, "")
	view = session.View()
	assert.False(t, view.Invalid)
	assert.Equal(t, "", view.Helper)
	assert.Equal(t, "", view.Plaintext)
	assert.Equal(t, calls, provider.Calls(platformtest.OpDecrypt))
}

func TestSession_EmptyInputSupersedesPendingDecrypt(t *testing.T) {
	pair, _ := platformtest.Pairs(t)
	provider := platformtest.New()
	svc := NewService(provider)
	ctx := context.Background()

	ciphertext, err := svc.Encrypt(ctx, "slow", pair.Public)
	require.NoError(t, err)

	release := make(chan struct{})
	provider.BeforeDecrypt = func([]byte) { <-release }

	session := NewSession(svc, staticKey(pair.Private))
	session.Submit(ctx, ciphertext)
	session.Submit(ctx, "")
	close(release)
	session.Wait()

	assert.Equal(t, View{Seq: 2}, session.View())
}

func TestSession_NotReady(t *testing.T) {
	session := NewSession(NewService(platformtest.New()), staticKey(nil))

	session.Submit(context.Background(), "AAAA")
	view := session.View()
	assert.Equal(t, HelperNotReady, view.Helper)
	assert.False(t, view.Invalid)
}

func TestSession_OnChangeSeesOnlyAppliedViews(t *testing.T) {
	pair, _ := platformtest.Pairs(t)
	svc := NewService(platformtest.New())
	ctx := context.Background()

	var mu sync.Mutex
	var seen []View
	session := NewSession(svc, staticKey(pair.Private), OnChange(func(v View) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, v)
	}))

	ciphertext, err := svc.Encrypt(ctx, "hello", pair.Public)
	require.NoError(t, err)

	session.Submit(ctx, ciphertext)
	session.Wait()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, "hello", seen[0].Plaintext)
	assert.Equal(t, ciphertext, seen[0].Input)
}

func TestSession_PendingViewDropsPreviousResult(t *testing.T) {
	pair, _ := platformtest.Pairs(t)
	provider := platformtest.New()
	svc := NewService(provider)
	ctx := context.Background()

	first, err := svc.Encrypt(ctx, "first", pair.Public)
	require.NoError(t, err)
	second, err := svc.Encrypt(ctx, "second", pair.Public)
	require.NoError(t, err)
	secondRaw, _ := base64.StdEncoding.DecodeString(second)

	session := NewSession(svc, staticKey(pair.Private))
	session.Submit(ctx, first)
	session.Wait()
	require.Equal(t, "first", session.View().Plaintext)

	release := make(chan struct{})
	provider.BeforeDecrypt = func(ciphertext []byte) {
		if bytes.Equal(ciphertext, secondRaw) {
			<-release
		}
	}

	seq := session.Submit(ctx, second)
	assert.Equal(t, View{Seq: seq, Input: second, Pending: true}, session.View())

	close(release)
	session.Wait()
	assert.Equal(t, View{Seq: seq, Input: second, Plaintext: "second"}, session.View())
}

func TestSession_CancelledDecryptIsNotInvalid(t *testing.T) {
	pair, _ := platformtest.Pairs(t)
	provider := platformtest.New()
	svc := NewService(provider)

	ciphertext, err := svc.Encrypt(context.Background(), "hello", pair.Public)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	provider.BeforeDecrypt = func([]byte) { cancel() }

	var mu sync.Mutex
	var seen []View
	session := NewSession(svc, staticKey(pair.Private), OnChange(func(v View) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, v)
	}))

	seq := session.Submit(ctx, ciphertext)
	session.Wait()

	view := session.View()
	assert.Equal(t, seq, view.Seq)
	assert.False(t, view.Invalid)
	assert.Empty(t, view.Helper)
	assert.Empty(t, view.Plaintext)
	assert.Equal(t, uint64(0), session.Dropped())

	mu.Lock()
	defer mu.Unlock()
	assert.Empty(t, seen)
}

func TestSession_OnChangeMayReadView(t *testing.T) {
	pair, _ := platformtest.Pairs(t)
	svc := NewService(platformtest.New())
	ctx := context.Background()

	ciphertext, err := svc.Encrypt(ctx, "hello", pair.Public)
	require.NoError(t, err)

	var session *Session
	inCallback := make(chan View, 2)
	session = NewSession(svc, staticKey(pair.Private), OnChange(func(View) {
		inCallback <- session.View()
	}))

	session.Submit(ctx, ciphertext)
	session.Wait()
	session.Submit(ctx, "")

	require.Len(t, inCallback, 2)
	assert.Equal(t, "hello", (<-inCallback).Plaintext)
	assert.Equal(t, View{Seq: 2}, <-inCallback)
}
