// File: pkg/lifecycle/policy.go
package lifecycle

import (
	"encoding/json"
	"fmt"
	"math"

	"gopkg.in/yaml.v3"
)

type RuleStatus string

const (
	StatusEnabled  RuleStatus = "Enabled"
	StatusDisabled RuleStatus = "Disabled"
)

// Policy is a declarative lifecycle configuration for a single bucket.
// The field names mirror the S3 REST/boto3 document shape so that existing
// policy documents load without translation.
type Policy struct {
	Rules []Rule `json:"Rules" yaml:"Rules" validate:"required,min=1,dive"`
}

type Rule struct {
	ID          string       `json:"ID" yaml:"ID" validate:"required"`
	Status      RuleStatus   `json:"Status" yaml:"Status" validate:"required,oneof=Enabled Disabled"`
	Filter      Filter       `json:"Filter" yaml:"Filter"`
	Expiration  *Expiration  `json:"Expiration,omitempty" yaml:"Expiration,omitempty"`
	Transitions []Transition `json:"Transitions,omitempty" yaml:"Transitions,omitempty" validate:"dive"`
}

type Filter struct {
	Prefix string `json:"Prefix" yaml:"Prefix"`
}

type Expiration struct {
	Days Days `json:"Days" yaml:"Days" validate:"gt=0"`
}

type Transition struct {
	Days         Days   `json:"Days" yaml:"Days" validate:"gt=0"`
	StorageClass string `json:"StorageClass" yaml:"StorageClass" validate:"required"`
}

// Days is a day count that tolerates integral float spellings in source
// documents (7 and 7.0 decode to the same value), so formatting differences
// never register as drift.
type Days int64

func (d *Days) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("days must be a number: %w", err)
	}
	v, err := integralValue(n)
	if err != nil {
		return err
	}
	*d = Days(v)
	return nil
}

func (d *Days) UnmarshalYAML(value *yaml.Node) error {
	var n json.Number
	if err := value.Decode(&n); err != nil {
		return fmt.Errorf("days must be a number: %w", err)
	}
	v, err := integralValue(n)
	if err != nil {
		return err
	}
	*d = Days(v)
	return nil
}

func integralValue(n json.Number) (int64, error) {
	if i, err := n.Int64(); err == nil {
		return i, nil
	}
	f, err := n.Float64()
	if err != nil {
		return 0, fmt.Errorf("invalid day count %q", n.String())
	}
	if f != math.Trunc(f) {
		return 0, fmt.Errorf("day count %q must be a whole number", n.String())
	}
	return int64(f), nil
}

// RuleCount reports len(p.Rules), treating a nil (absent) policy as zero.
func (p *Policy) RuleCount() int {
	if p == nil {
		return 0
	}
	return len(p.Rules)
}
