// File: pkg/lifecycle/merge.go
package lifecycle

// Merge combines a local (desired) policy with the policy currently on the
// bucket. Local rules always win: a remote rule whose ID matches a local rule
// is replaced wholesale. Remote rules with no local counterpart are kept, so
// rules added out-of-band survive a merge-mode apply.
func Merge(local Policy, remote *Policy) Policy {
	merged := Policy{Rules: append([]Rule(nil), local.Rules...)}

	if remote == nil {
		return merged
	}

	localIDs := make(map[string]struct{}, len(local.Rules))
	for _, r := range local.Rules {
		localIDs[r.ID] = struct{}{}
	}

	for _, r := range remote.Rules {
		if _, overridden := localIDs[r.ID]; !overridden {
			merged.Rules = append(merged.Rules, r)
		}
	}

	return merged
}
