// File: pkg/lifecycle/merge_test.go
package lifecycle_test

import (
	"testing"

	"bucketwarden/pkg/lifecycle"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestMerge_NoRemoteConfig(t *testing.T) {
	t.Parallel()

	local := lifecycle.Policy{Rules: []lifecycle.Rule{expireDays("local-rule-1", "logs/", 30)}}

	merged := lifecycle.Merge(local, nil)
	require.Empty(t, cmp.Diff(local, merged))
}

func TestMerge_NoConflicts(t *testing.T) {
	t.Parallel()

	local := lifecycle.Policy{Rules: []lifecycle.Rule{expireDays("local-rule-1", "logs/", 30)}}
	remote := &lifecycle.Policy{Rules: []lifecycle.Rule{expireDays("remote-rule-1", "data/", 60)}}

	merged := lifecycle.Merge(local, remote)
	require.Len(t, merged.Rules, 2)

	ids := map[string]bool{}
	for _, r := range merged.Rules {
		ids[r.ID] = true
	}
	require.True(t, ids["local-rule-1"])
	require.True(t, ids["remote-rule-1"])
}

func TestMerge_LocalOverridesByID(t *testing.T) {
	t.Parallel()

	local := lifecycle.Policy{Rules: []lifecycle.Rule{expireDays("shared-rule", "logs/", 30)}}
	remote := &lifecycle.Policy{Rules: []lifecycle.Rule{
		{
			ID:         "shared-rule",
			Status:     lifecycle.StatusDisabled,
			Filter:     lifecycle.Filter{Prefix: "old-logs/"},
			Expiration: &lifecycle.Expiration{Days: 90},
		},
		expireDays("remote-only-rule", "backups/", 365),
	}}

	merged := lifecycle.Merge(local, remote)
	require.Len(t, merged.Rules, 2)

	byID := map[string]lifecycle.Rule{}
	for _, r := range merged.Rules {
		byID[r.ID] = r
	}

	shared, ok := byID["shared-rule"]
	require.True(t, ok)
	require.Equal(t, lifecycle.Days(30), shared.Expiration.Days, "local rule must override the remote rule with the same ID")
	require.Equal(t, lifecycle.StatusEnabled, shared.Status)
	require.Equal(t, "logs/", shared.Filter.Prefix)

	_, ok = byID["remote-only-rule"]
	require.True(t, ok, "remote-only rule must be preserved")
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	t.Parallel()

	local := lifecycle.Policy{Rules: []lifecycle.Rule{expireDays("a", "a/", 1)}}
	remote := &lifecycle.Policy{Rules: []lifecycle.Rule{expireDays("b", "b/", 2)}}

	_ = lifecycle.Merge(local, remote)

	require.Len(t, local.Rules, 1)
	require.Len(t, remote.Rules, 1)
}
