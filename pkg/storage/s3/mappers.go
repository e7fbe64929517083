// File: pkg/storage/s3/mappers.go
package s3

import (
	"fmt"

	"bucketwarden/pkg/lifecycle"
	"bucketwarden/pkg/storage"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

func rulesToSDK(policy lifecycle.Policy) []types.LifecycleRule {
	rules := make([]types.LifecycleRule, 0, len(policy.Rules))
	for _, r := range policy.Rules {
		sdkRule := types.LifecycleRule{
			ID:     aws.String(r.ID),
			Status: types.ExpirationStatus(r.Status),
			Filter: &types.LifecycleRuleFilter{
				Prefix: aws.String(r.Filter.Prefix),
			},
		}

		if r.Expiration != nil {
			sdkRule.Expiration = &types.LifecycleExpiration{
				Days: aws.Int32(int32(r.Expiration.Days)),
			}
		}

		for _, tr := range r.Transitions {
			sdkRule.Transitions = append(sdkRule.Transitions, types.Transition{
				Days:         aws.Int32(int32(tr.Days)),
				StorageClass: types.TransitionStorageClass(tr.StorageClass),
			})
		}

		rules = append(rules, sdkRule)
	}
	return rules
}

func policyFromSDK(rules []types.LifecycleRule) lifecycle.Policy {
	policy := lifecycle.Policy{Rules: make([]lifecycle.Rule, 0, len(rules))}
	for _, r := range rules {
		rule := lifecycle.Rule{
			ID:     aws.ToString(r.ID),
			Status: lifecycle.RuleStatus(r.Status),
		}

		if r.Filter != nil {
			rule.Filter.Prefix = aws.ToString(r.Filter.Prefix)
			// Some backends report a prefix-only filter through the And operator
			if r.Filter.And != nil && rule.Filter.Prefix == "" {
				rule.Filter.Prefix = aws.ToString(r.Filter.And.Prefix)
			}
		}
		// Legacy backends still echo the deprecated top-level Prefix field
		if rule.Filter.Prefix == "" && r.Prefix != nil {
			rule.Filter.Prefix = aws.ToString(r.Prefix)
		}

		if r.Expiration != nil && r.Expiration.Days != nil {
			rule.Expiration = &lifecycle.Expiration{
				Days: lifecycle.Days(aws.ToInt32(r.Expiration.Days)),
			}
		}

		for _, tr := range r.Transitions {
			rule.Transitions = append(rule.Transitions, lifecycle.Transition{
				Days:         lifecycle.Days(aws.ToInt32(tr.Days)),
				StorageClass: string(tr.StorageClass),
			})
		}

		policy.Rules = append(policy.Rules, rule)
	}
	return policy
}

// displayRules maps lifecycle rules into the shared reporting model.
func displayRules(policy lifecycle.Policy) []storage.LifecycleRule {
	var out []storage.LifecycleRule
	for _, r := range policy.Rules {
		display := storage.LifecycleRule{
			ID:      r.ID,
			Enabled: r.Status == lifecycle.StatusEnabled,
			Prefix:  r.Filter.Prefix,
		}

		switch {
		case r.Expiration != nil:
			display.Action = "Expire"
			display.AgeDays = int64(r.Expiration.Days)
		case len(r.Transitions) > 0:
			display.Action = fmt.Sprintf("Transition to %s", r.Transitions[0].StorageClass)
			display.AgeDays = int64(r.Transitions[0].Days)
		default:
			display.Action = "None"
		}

		out = append(out, display)
	}
	return out
}
