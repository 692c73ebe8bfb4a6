package speech

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/duotopia/backend/internal/apperr"
)

type fakeQuotaStore struct {
	mu       sync.Mutex
	counts   map[string]int64
	expireAt map[string]time.Duration
}

func newFakeQuotaStore() *fakeQuotaStore {
	return &fakeQuotaStore{counts: make(map[string]int64), expireAt: make(map[string]time.Duration)}
}

func (f *fakeQuotaStore) Increment(ctx context.Context, key string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.counts[key]++
	return f.counts[key], nil
}

func (f *fakeQuotaStore) Expire(ctx context.Context, key string, expiration time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.expireAt[key] = expiration
	return nil
}

func newTestIssuer(store quotaStore, demoQuota int) *CredentialIssuer {
	return &CredentialIssuer{
		redis:     store,
		secret:    []byte("test-secret"),
		region:    "eastus",
		demoQuota: demoQuota,
	}
}

func TestIssueCredential_AuthenticatedUnlimited(t *testing.T) {
	ctx := context.Background()
	issuer := newTestIssuer(newFakeQuotaStore(), 3)
	principal := NewStudentPrincipal(7)

	for i := 0; i < 10; i++ {
		cred, err := issuer.IssueCredential(ctx, principal)
		require.NoError(t, err)
		assert.NotEmpty(t, cred.Token)
		assert.Equal(t, "eastus", cred.Region)
		assert.Equal(t, int64(600), cred.ExpiresIn)
	}
}

func TestIssueCredential_DemoQuotaExceeded(t *testing.T) {
	ctx := context.Background()
	store := newFakeQuotaStore()
	issuer := newTestIssuer(store, 2)
	principal := NewDemoPrincipal("203.0.113.5")

	_, err := issuer.IssueCredential(ctx, principal)
	require.NoError(t, err)
	_, err = issuer.IssueCredential(ctx, principal)
	require.NoError(t, err)

	_, err = issuer.IssueCredential(ctx, principal)
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindRateLimit))
}

func TestIssueCredential_DemoQuotaIsPerPrincipal(t *testing.T) {
	ctx := context.Background()
	store := newFakeQuotaStore()
	issuer := newTestIssuer(store, 1)

	_, err := issuer.IssueCredential(ctx, NewDemoPrincipal("198.51.100.1"))
	require.NoError(t, err)
	_, err = issuer.IssueCredential(ctx, NewDemoPrincipal("198.51.100.2"))
	require.NoError(t, err, "a different demo IP has its own quota bucket")
}

func TestIssueCredential_ConcurrentSamePrincipalCoalesces(t *testing.T) {
	ctx := context.Background()
	store := newFakeQuotaStore()
	issuer := newTestIssuer(store, 100)
	principal := NewDemoPrincipal("192.0.2.1")

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := issuer.IssueCredential(ctx, principal)
			errs[i] = err
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		assert.NoError(t, err)
	}
}
