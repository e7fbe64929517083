// File: internal/service/reconciler.go
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"bucketwarden/pkg/lifecycle"
	"bucketwarden/pkg/storage"
)

// Sentinel errors classifying reconciliation failures. Callers branch on these
// with errors.Is to decide exit codes and messaging.
var (
	// ErrMissingInput indicates a required input (bucket name, policy file,
	// provider credentials) was not supplied. Detected before any network call.
	ErrMissingInput = errors.New("missing required input")

	// ErrBucketUnreachable indicates the endpoint or bucket could not be
	// reached during the pre-flight probe.
	ErrBucketUnreachable = errors.New("bucket unreachable")

	// ErrNotConverged indicates the post-apply verification read did not match
	// the desired policy.
	ErrNotConverged = errors.New("lifecycle configuration did not converge after apply")

	// ErrDriftDetected is returned by Check when the remote configuration
	// differs from the desired policy.
	ErrDriftDetected = errors.New("lifecycle configuration drift detected")

	// ErrConfirmationDeclined indicates the operator declined the apply prompt.
	ErrConfirmationDeclined = errors.New("apply not confirmed")
)

// Caps the verification sample. Counting every key in a large bucket is an
// unbounded walk, so the sample stops after one page.
const objectSampleLimit = 1000

type Outcome string

const (
	OutcomeUpToDate Outcome = "up-to-date"
	OutcomeUpdated  Outcome = "updated"
	OutcomeFailed   Outcome = "failed"
)

// PolicyState describes a lifecycle configuration at one point in time.
// Present distinguishes an absent configuration from one with zero rules.
type PolicyState struct {
	Present bool
	Rules   int
}

func (s PolicyState) String() string {
	if !s.Present {
		return "absent"
	}
	if s.Rules == 1 {
		return "1 rule"
	}
	return fmt.Sprintf("%d rules", s.Rules)
}

// ObjectSample reports the post-apply object count. Count is a display value:
// an exact number, "1000+" when the listing was truncated, "skipped" when the
// operator opted out, or "unknown" when the listing call failed. Sampled is
// true only when the listing hit the cap, meaning the count is a lower bound.
type ObjectSample struct {
	Count   string
	Sampled bool
}

type Result struct {
	Bucket       string
	Provider     string
	Outcome      Outcome
	Before       PolicyState
	After        PolicyState
	Objects      ObjectSample
	SnapshotPath string
}

// ConfirmFunc asks the operator to confirm a mutating apply against the named
// bucket. A false return aborts the reconcile without error side effects.
type ConfirmFunc func(bucket string) (bool, error)

type ReconcileOptions struct {
	Bucket          string
	PolicyPath      string
	Provider        string
	Merge           bool
	SkipObjectCount bool
	SnapshotDir     string
	Confirm         ConfirmFunc
}

// StoreProvider yields lifecycle store clients. Satisfied by factory.Factory.
type StoreProvider interface {
	MissingSettings(providerName string) ([]string, error)
	GetLifecycleStore(ctx context.Context, providerName string) (storage.LifecycleStore, error)
}

// Reconciler drives a bucket's lifecycle configuration to the desired state:
// read the remote configuration, compare it to the local policy, apply on
// drift and verify the write converged.
type Reconciler struct {
	stores StoreProvider
	logger *slog.Logger
}

func NewReconciler(stores StoreProvider, logger *slog.Logger) *Reconciler {
	return &Reconciler{
		stores: stores,
		logger: logger.With("service", "Reconciler"),
	}
}

// Reconcile runs the full pipeline. The returned Result carries the before and
// after states even when the run fails partway, so callers can always report
// what was observed.
func (r *Reconciler) Reconcile(ctx context.Context, opts ReconcileOptions) (Result, error) {
	result := Result{
		Bucket:   opts.Bucket,
		Provider: opts.Provider,
		Outcome:  OutcomeFailed,
		Objects:  ObjectSample{Count: "skipped"},
	}

	desired, store, remote, err := r.observe(ctx, &opts)
	if store != nil {
		defer store.Close()
	}
	if err != nil {
		return result, err
	}
	result.Provider = opts.Provider
	result.Before = stateOf(remote)

	same, err := lifecycle.Equivalent(&desired, remote)
	if err != nil {
		return result, fmt.Errorf("failed to compare lifecycle configurations: %w", err)
	}
	if same {
		r.logger.Info("Lifecycle configuration already matches the desired policy", "bucket", opts.Bucket)
		result.Outcome = OutcomeUpToDate
		result.After = result.Before
		result.Objects = r.sampleObjects(ctx, store, opts)
		return result, nil
	}

	r.logger.Info("Drift detected, apply required",
		"bucket", opts.Bucket,
		"current", result.Before.String(),
		"desired", fmt.Sprintf("%d rules", desired.RuleCount()))

	if opts.Confirm != nil {
		ok, err := opts.Confirm(opts.Bucket)
		if err != nil {
			return result, fmt.Errorf("confirmation prompt failed: %w", err)
		}
		if !ok {
			return result, ErrConfirmationDeclined
		}
	}

	// Snapshot the pre-apply configuration so a bad policy can be rolled back
	// by hand. Best effort: a failed snapshot is logged, never fatal.
	if remote != nil {
		path, err := writeSnapshot(opts.SnapshotDir, opts.Bucket, remote)
		if err != nil {
			r.logger.Warn("Could not write pre-apply snapshot, continuing", "bucket", opts.Bucket, "error", err)
		} else {
			r.logger.Info("Saved pre-apply snapshot", "bucket", opts.Bucket, "path", path)
			result.SnapshotPath = path
		}
	}

	if err := store.PutLifecycle(ctx, opts.Bucket, desired); err != nil {
		return result, fmt.Errorf("failed to apply lifecycle configuration to bucket %s: %w", opts.Bucket, err)
	}

	// Verify convergence with a fresh read. An apply that the remote accepted
	// but does not reflect back is a failure, not a success.
	verified, err := store.GetLifecycle(ctx, opts.Bucket)
	if err != nil && !errors.Is(err, storage.ErrNoLifecycle) {
		return result, fmt.Errorf("failed to re-read lifecycle configuration for verification: %w", err)
	}
	result.After = stateOf(verified)
	converged, err := lifecycle.Equivalent(&desired, verified)
	if err != nil {
		return result, fmt.Errorf("failed to compare lifecycle configurations: %w", err)
	}
	if !converged {
		return result, fmt.Errorf("%w: bucket %s reports %s, expected %d rules",
			ErrNotConverged, opts.Bucket, result.After.String(), desired.RuleCount())
	}

	r.logger.Info("Lifecycle configuration applied and verified", "bucket", opts.Bucket, "rules", desired.RuleCount())
	result.Outcome = OutcomeUpdated
	result.Objects = r.sampleObjects(ctx, store, opts)
	return result, nil
}

// Check runs the read-only half of the pipeline. It never mutates the remote;
// drift is reported via ErrDriftDetected.
func (r *Reconciler) Check(ctx context.Context, opts ReconcileOptions) (Result, error) {
	result := Result{
		Bucket:   opts.Bucket,
		Provider: opts.Provider,
		Outcome:  OutcomeFailed,
		Objects:  ObjectSample{Count: "skipped"},
	}

	desired, store, remote, err := r.observe(ctx, &opts)
	if store != nil {
		defer store.Close()
	}
	if err != nil {
		return result, err
	}
	result.Provider = opts.Provider
	result.Before = stateOf(remote)
	result.After = result.Before

	same, err := lifecycle.Equivalent(&desired, remote)
	if err != nil {
		return result, fmt.Errorf("failed to compare lifecycle configurations: %w", err)
	}
	if !same {
		return result, fmt.Errorf("%w: bucket %s reports %s, desired policy has %d rules",
			ErrDriftDetected, opts.Bucket, result.Before.String(), desired.RuleCount())
	}

	result.Outcome = OutcomeUpToDate
	return result, nil
}

// observe performs the shared front half of both pipelines: input resolution,
// policy load, store construction, reachability probe and the remote read.
// Merge semantics are folded into the returned desired policy.
func (r *Reconciler) observe(ctx context.Context, opts *ReconcileOptions) (lifecycle.Policy, storage.LifecycleStore, *lifecycle.Policy, error) {
	if opts.Provider == "" {
		opts.Provider = "s3"
	}

	if err := r.resolveInputs(*opts); err != nil {
		return lifecycle.Policy{}, nil, nil, err
	}

	local, err := lifecycle.Load(opts.PolicyPath)
	if err != nil {
		return lifecycle.Policy{}, nil, nil, err
	}
	r.logger.Debug("Loaded desired policy", "path", opts.PolicyPath, "rules", local.RuleCount())

	store, err := r.stores.GetLifecycleStore(ctx, opts.Provider)
	if err != nil {
		return lifecycle.Policy{}, nil, nil, err
	}

	if err := store.Probe(ctx); err != nil {
		return lifecycle.Policy{}, store, nil, fmt.Errorf("%w: %v", ErrBucketUnreachable, err)
	}

	remote, err := store.GetLifecycle(ctx, opts.Bucket)
	if err != nil {
		if errors.Is(err, storage.ErrNoLifecycle) {
			r.logger.Debug("Bucket has no lifecycle configuration", "bucket", opts.Bucket)
			remote = nil
		} else {
			return lifecycle.Policy{}, store, nil, fmt.Errorf("failed to read lifecycle configuration for bucket %s: %w", opts.Bucket, err)
		}
	}

	desired := *local
	if opts.Merge {
		desired = lifecycle.Merge(*local, remote)
		r.logger.Debug("Merged local policy with remote rules",
			"local_rules", local.RuleCount(), "merged_rules", desired.RuleCount())
	}

	return desired, store, remote, nil
}

// resolveInputs checks every required input before any network activity, so
// the operator gets the complete list of gaps in one pass.
func (r *Reconciler) resolveInputs(opts ReconcileOptions) error {
	var missing []string
	if opts.Bucket == "" {
		missing = append(missing, "bucket name")
	}
	if opts.PolicyPath == "" {
		missing = append(missing, "policy file (--policy-file)")
	}

	settings, err := r.stores.MissingSettings(opts.Provider)
	if err != nil {
		return err
	}
	missing = append(missing, settings...)

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingInput, strings.Join(missing, ", "))
	}
	return nil
}

func (r *Reconciler) sampleObjects(ctx context.Context, store storage.LifecycleStore, opts ReconcileOptions) ObjectSample {
	if opts.SkipObjectCount {
		return ObjectSample{Count: "skipped"}
	}

	count, truncated, err := store.CountObjects(ctx, opts.Bucket, objectSampleLimit)
	if err != nil {
		// The sample is advisory. A failed count never fails the run.
		r.logger.Warn("Could not count objects in bucket", "bucket", opts.Bucket, "error", err)
		return ObjectSample{Count: "unknown"}
	}

	if truncated {
		return ObjectSample{Count: fmt.Sprintf("%d+", objectSampleLimit), Sampled: true}
	}
	return ObjectSample{Count: fmt.Sprintf("%d", count)}
}

func stateOf(p *lifecycle.Policy) PolicyState {
	if p == nil {
		return PolicyState{}
	}
	return PolicyState{Present: true, Rules: p.RuleCount()}
}
