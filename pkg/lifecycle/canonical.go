// File: pkg/lifecycle/canonical.go
package lifecycle

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Canonical serializes a policy into a deterministic byte form: rules sorted
// by ID, object keys sorted, numbers in their shortest representation, no
// insignificant whitespace. Two policies describe the same configuration iff
// their canonical forms are byte-identical.
//
// A nil policy (no configuration on the bucket) canonicalizes to nil, which
// is never equal to the canonical form of any policy with rules.
func Canonical(p *Policy) ([]byte, error) {
	if p == nil {
		return nil, nil
	}

	raw, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("encoding policy: %w", err)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var doc map[string]interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("normalizing policy: %w", err)
	}

	if rules, ok := doc["Rules"].([]interface{}); ok {
		sort.SliceStable(rules, func(i, j int) bool {
			return ruleSortKey(rules[i]) < ruleSortKey(rules[j])
		})
	}

	// encoding/json writes map keys in sorted order, which gives the
	// key-order independence the comparison contract requires.
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("serializing canonical policy: %w", err)
	}
	return out, nil
}

func ruleSortKey(rule interface{}) string {
	m, ok := rule.(map[string]interface{})
	if !ok {
		return ""
	}
	id, _ := m["ID"].(string)
	return id
}

// Equivalent reports whether two policies canonicalize to the same byte form.
// Both nil means both absent, which is equivalent; one nil is never
// equivalent to a policy with rules, even all-disabled ones.
func Equivalent(a, b *Policy) (bool, error) {
	if a == nil || b == nil {
		return a == nil && b == nil, nil
	}

	ca, err := Canonical(a)
	if err != nil {
		return false, err
	}
	cb, err := Canonical(b)
	if err != nil {
		return false, err
	}
	return bytes.Equal(ca, cb), nil
}
