// File: internal/service/reconciler_test.go
package service

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"bucketwarden/pkg/common"
	"bucketwarden/pkg/lifecycle"
	"bucketwarden/pkg/storage"

	"github.com/stretchr/testify/require"
)

// fakeStore is an in-memory LifecycleStore that records mutating calls.
type fakeStore struct {
	remote *lifecycle.Policy

	probeErr error
	getErr   error
	putErr   error
	countErr error

	// When true, PutLifecycle is accepted but the stored policy is left
	// unchanged, simulating a remote that silently drops the write.
	dropWrites bool

	count     int
	truncated bool

	probeCalls int
	getCalls   int
	putCalls   int
	countCalls int
	closed     bool
}

func (f *fakeStore) ProviderName() common.Provider { return common.S3 }

func (f *fakeStore) Probe(ctx context.Context) error {
	f.probeCalls++
	return f.probeErr
}

func (f *fakeStore) GetLifecycle(ctx context.Context, bucket string) (*lifecycle.Policy, error) {
	f.getCalls++
	if f.getErr != nil {
		return nil, f.getErr
	}
	if f.remote == nil {
		return nil, storage.ErrNoLifecycle
	}
	cp := *f.remote
	return &cp, nil
}

func (f *fakeStore) PutLifecycle(ctx context.Context, bucket string, policy lifecycle.Policy) error {
	f.putCalls++
	if f.putErr != nil {
		return f.putErr
	}
	if !f.dropWrites {
		cp := policy
		f.remote = &cp
	}
	return nil
}

func (f *fakeStore) CountObjects(ctx context.Context, bucket string, limit int32) (int, bool, error) {
	f.countCalls++
	if f.countErr != nil {
		return 0, false, f.countErr
	}
	return f.count, f.truncated, nil
}

func (f *fakeStore) Close() error {
	f.closed = true
	return nil
}

type fakeProvider struct {
	store   *fakeStore
	missing []string
}

func (f *fakeProvider) MissingSettings(providerName string) ([]string, error) {
	return f.missing, nil
}

func (f *fakeProvider) GetLifecycleStore(ctx context.Context, providerName string) (storage.LifecycleStore, error) {
	return f.store, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func expireRule(id, prefix string, days lifecycle.Days) lifecycle.Rule {
	return lifecycle.Rule{
		ID:         id,
		Status:     lifecycle.StatusEnabled,
		Filter:     lifecycle.Filter{Prefix: prefix},
		Expiration: &lifecycle.Expiration{Days: days},
	}
}

// writePolicy persists a policy as JSON under t.TempDir and returns its path.
func writePolicy(t *testing.T, rules ...lifecycle.Rule) string {
	t.Helper()
	data, err := json.Marshal(lifecycle.Policy{Rules: rules})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "policy.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func TestReconcile_UpToDate(t *testing.T) {
	t.Parallel()

	rule := expireRule("expire-logs", "logs/", 30)
	store := &fakeStore{remote: &lifecycle.Policy{Rules: []lifecycle.Rule{rule}}, count: 12}
	r := NewReconciler(&fakeProvider{store: store}, testLogger())

	result, err := r.Reconcile(context.Background(), ReconcileOptions{
		Bucket:     "logs-bucket",
		PolicyPath: writePolicy(t, rule),
	})

	require.NoError(t, err)
	require.Equal(t, OutcomeUpToDate, result.Outcome)
	require.Zero(t, store.putCalls, "a converged bucket must see no mutating calls")
	require.Empty(t, result.SnapshotPath)
	require.Equal(t, "12", result.Objects.Count)
	require.False(t, result.Objects.Sampled, "an exact count is not a sample")
	require.True(t, store.closed)
}

func TestReconcile_AppliesOnDrift(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		remote: &lifecycle.Policy{Rules: []lifecycle.Rule{expireRule("expire-logs", "logs/", 7)}},
		count:  3,
	}
	r := NewReconciler(&fakeProvider{store: store}, testLogger())

	result, err := r.Reconcile(context.Background(), ReconcileOptions{
		Bucket:      "logs-bucket",
		PolicyPath:  writePolicy(t, expireRule("expire-logs", "logs/", 30)),
		SnapshotDir: t.TempDir(),
	})

	require.NoError(t, err)
	require.Equal(t, OutcomeUpdated, result.Outcome)
	require.Equal(t, 1, store.putCalls)
	require.Equal(t, PolicyState{Present: true, Rules: 1}, result.Before)
	require.Equal(t, PolicyState{Present: true, Rules: 1}, result.After)
	require.Equal(t, lifecycle.Days(30), store.remote.Rules[0].Expiration.Days)
}

func TestReconcile_AbsentRemote(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	r := NewReconciler(&fakeProvider{store: store}, testLogger())

	result, err := r.Reconcile(context.Background(), ReconcileOptions{
		Bucket:     "new-bucket",
		PolicyPath: writePolicy(t, expireRule("expire-tmp", "tmp/", 1)),
	})

	require.NoError(t, err)
	require.Equal(t, OutcomeUpdated, result.Outcome)
	require.Equal(t, PolicyState{}, result.Before)
	require.Equal(t, "absent", result.Before.String())
	require.Equal(t, 1, store.putCalls)
	// An absent configuration has nothing worth snapshotting
	require.Empty(t, result.SnapshotPath)
}

func TestReconcile_Idempotent(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	r := NewReconciler(&fakeProvider{store: store}, testLogger())
	opts := ReconcileOptions{
		Bucket:          "logs-bucket",
		PolicyPath:      writePolicy(t, expireRule("expire-logs", "logs/", 30)),
		SkipObjectCount: true,
	}

	first, err := r.Reconcile(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, OutcomeUpdated, first.Outcome)

	second, err := r.Reconcile(context.Background(), opts)
	require.NoError(t, err)
	require.Equal(t, OutcomeUpToDate, second.Outcome)
	require.Equal(t, 1, store.putCalls, "the second run must not write again")
}

func TestReconcile_ConvergenceFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		remote:     &lifecycle.Policy{Rules: []lifecycle.Rule{expireRule("expire-logs", "logs/", 7)}},
		dropWrites: true,
	}
	r := NewReconciler(&fakeProvider{store: store}, testLogger())

	result, err := r.Reconcile(context.Background(), ReconcileOptions{
		Bucket:      "logs-bucket",
		PolicyPath:  writePolicy(t, expireRule("expire-logs", "logs/", 30)),
		SnapshotDir: t.TempDir(),
	})

	require.ErrorIs(t, err, ErrNotConverged)
	require.Equal(t, OutcomeFailed, result.Outcome)
	require.Equal(t, 1, store.putCalls)
}

func TestReconcile_MissingInputs(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	r := NewReconciler(&fakeProvider{store: store, missing: []string{"AWS_ACCESS_KEY_ID"}}, testLogger())

	_, err := r.Reconcile(context.Background(), ReconcileOptions{})

	require.ErrorIs(t, err, ErrMissingInput)
	require.Contains(t, err.Error(), "bucket name")
	require.Contains(t, err.Error(), "policy file (--policy-file)")
	require.Contains(t, err.Error(), "AWS_ACCESS_KEY_ID")
	require.Zero(t, store.probeCalls, "input resolution must run before any network call")
	require.Zero(t, store.getCalls)
}

func TestReconcile_PolicyFileErrors(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	r := NewReconciler(&fakeProvider{store: store}, testLogger())

	t.Run("missing file", func(t *testing.T) {
		_, err := r.Reconcile(context.Background(), ReconcileOptions{
			Bucket:     "logs-bucket",
			PolicyPath: filepath.Join(t.TempDir(), "nope.json"),
		})
		require.ErrorIs(t, err, lifecycle.ErrNotFound)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		_, err := r.Reconcile(context.Background(), ReconcileOptions{
			Bucket:     "logs-bucket",
			PolicyPath: path,
		})
		require.ErrorIs(t, err, lifecycle.ErrMalformed)
	})

	require.Zero(t, store.probeCalls, "policy errors must be raised before any network call")
}

func TestReconcile_ProbeFailure(t *testing.T) {
	t.Parallel()

	store := &fakeStore{probeErr: errors.New("connection refused")}
	r := NewReconciler(&fakeProvider{store: store}, testLogger())

	_, err := r.Reconcile(context.Background(), ReconcileOptions{
		Bucket:     "logs-bucket",
		PolicyPath: writePolicy(t, expireRule("expire-logs", "logs/", 30)),
	})

	require.ErrorIs(t, err, ErrBucketUnreachable)
	require.Zero(t, store.putCalls)
}

func TestReconcile_ConfirmationDeclined(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	r := NewReconciler(&fakeProvider{store: store}, testLogger())

	_, err := r.Reconcile(context.Background(), ReconcileOptions{
		Bucket:     "logs-bucket",
		PolicyPath: writePolicy(t, expireRule("expire-logs", "logs/", 30)),
		Confirm:    func(bucket string) (bool, error) { return false, nil },
	})

	require.ErrorIs(t, err, ErrConfirmationDeclined)
	require.Zero(t, store.putCalls)
}

func TestReconcile_MergePreservesRemoteOnlyRules(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		remote: &lifecycle.Policy{Rules: []lifecycle.Rule{
			expireRule("expire-logs", "logs/", 7),
			expireRule("expire-audit", "audit/", 365),
		}},
	}
	r := NewReconciler(&fakeProvider{store: store}, testLogger())

	result, err := r.Reconcile(context.Background(), ReconcileOptions{
		Bucket:          "logs-bucket",
		PolicyPath:      writePolicy(t, expireRule("expire-logs", "logs/", 30)),
		Merge:           true,
		SkipObjectCount: true,
		SnapshotDir:     t.TempDir(),
	})

	require.NoError(t, err)
	require.Equal(t, OutcomeUpdated, result.Outcome)
	require.Equal(t, 2, store.remote.RuleCount())

	byID := make(map[string]lifecycle.Rule)
	for _, rule := range store.remote.Rules {
		byID[rule.ID] = rule
	}
	require.Equal(t, lifecycle.Days(30), byID["expire-logs"].Expiration.Days, "local rule must win by ID")
	require.Equal(t, lifecycle.Days(365), byID["expire-audit"].Expiration.Days, "remote-only rule must survive")
}

func TestReconcile_ObjectSampling(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		store       *fakeStore
		skip        bool
		wantCount   string
		wantSampled bool
	}{
		{name: "exact count", store: &fakeStore{count: 42}, wantCount: "42"},
		{name: "truncated at cap", store: &fakeStore{count: 1000, truncated: true}, wantCount: "1000+", wantSampled: true},
		{name: "skipped by flag", store: &fakeStore{count: 42}, skip: true, wantCount: "skipped"},
		{name: "count failure is advisory", store: &fakeStore{countErr: errors.New("listing denied")}, wantCount: "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rule := expireRule("expire-logs", "logs/", 30)
			tt.store.remote = &lifecycle.Policy{Rules: []lifecycle.Rule{rule}}
			r := NewReconciler(&fakeProvider{store: tt.store}, testLogger())

			result, err := r.Reconcile(context.Background(), ReconcileOptions{
				Bucket:          "logs-bucket",
				PolicyPath:      writePolicy(t, rule),
				SkipObjectCount: tt.skip,
			})

			require.NoError(t, err)
			require.Equal(t, OutcomeUpToDate, result.Outcome)
			require.Equal(t, tt.wantCount, result.Objects.Count)
			require.Equal(t, tt.wantSampled, result.Objects.Sampled)
		})
	}
}

func TestReconcile_WritesSnapshotBeforeApply(t *testing.T) {
	t.Parallel()

	previous := expireRule("expire-logs", "logs/", 7)
	store := &fakeStore{remote: &lifecycle.Policy{Rules: []lifecycle.Rule{previous}}}
	r := NewReconciler(&fakeProvider{store: store}, testLogger())
	snapshotDir := t.TempDir()

	result, err := r.Reconcile(context.Background(), ReconcileOptions{
		Bucket:          "logs-bucket",
		PolicyPath:      writePolicy(t, expireRule("expire-logs", "logs/", 30)),
		SnapshotDir:     snapshotDir,
		SkipObjectCount: true,
	})

	require.NoError(t, err)
	require.NotEmpty(t, result.SnapshotPath)
	require.Equal(t, snapshotDir, filepath.Dir(result.SnapshotPath))

	data, err := os.ReadFile(result.SnapshotPath)
	require.NoError(t, err)

	var saved lifecycle.Policy
	require.NoError(t, json.Unmarshal(data, &saved))
	require.Equal(t, 1, saved.RuleCount())
	require.Equal(t, lifecycle.Days(7), saved.Rules[0].Expiration.Days, "snapshot must hold the pre-apply configuration")
}

func TestReconcile_SnapshotDefaultsToTempDir(t *testing.T) {
	t.Parallel()

	store := &fakeStore{remote: &lifecycle.Policy{Rules: []lifecycle.Rule{expireRule("expire-logs", "logs/", 7)}}}
	r := NewReconciler(&fakeProvider{store: store}, testLogger())

	result, err := r.Reconcile(context.Background(), ReconcileOptions{
		Bucket:          "logs-bucket",
		PolicyPath:      writePolicy(t, expireRule("expire-logs", "logs/", 30)),
		SkipObjectCount: true,
	})

	require.NoError(t, err)
	require.NotEmpty(t, result.SnapshotPath)
	t.Cleanup(func() { os.Remove(result.SnapshotPath) })
	require.Equal(t, filepath.Clean(os.TempDir()), filepath.Dir(result.SnapshotPath),
		"an unset snapshot directory must not write into the working directory")
}

func TestCheck_ReportsDriftWithoutWriting(t *testing.T) {
	t.Parallel()

	store := &fakeStore{
		remote: &lifecycle.Policy{Rules: []lifecycle.Rule{expireRule("expire-logs", "logs/", 7)}},
	}
	r := NewReconciler(&fakeProvider{store: store}, testLogger())

	result, err := r.Check(context.Background(), ReconcileOptions{
		Bucket:     "logs-bucket",
		PolicyPath: writePolicy(t, expireRule("expire-logs", "logs/", 30)),
	})

	require.ErrorIs(t, err, ErrDriftDetected)
	require.Zero(t, store.putCalls, "check must never mutate the remote")
	require.Equal(t, PolicyState{Present: true, Rules: 1}, result.Before)
}

func TestCheck_Clean(t *testing.T) {
	t.Parallel()

	rule := expireRule("expire-logs", "logs/", 30)
	store := &fakeStore{remote: &lifecycle.Policy{Rules: []lifecycle.Rule{rule}}}
	r := NewReconciler(&fakeProvider{store: store}, testLogger())

	result, err := r.Check(context.Background(), ReconcileOptions{
		Bucket:     "logs-bucket",
		PolicyPath: writePolicy(t, rule),
	})

	require.NoError(t, err)
	require.Equal(t, OutcomeUpToDate, result.Outcome)
	require.Zero(t, store.putCalls)
}
