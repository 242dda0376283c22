package affiliate

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ruleFile is the on-disk shape of a custom rule set.
type ruleFile struct {
	Rules []Rule `yaml:"rules"`
}

// LoadRules reads an affiliate rule set from a YAML file. The file replaces
// the built-in rules entirely; hosts not listed are no longer rewritten.
func LoadRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}

	var f ruleFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse rules: %w", err)
	}

	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("rules file %s contains no rules", path)
	}
	for i, r := range f.Rules {
		if r.Host == "" {
			return nil, fmt.Errorf("rule %d: missing host", i)
		}
		if len(r.Params) == 0 {
			return nil, fmt.Errorf("rule %d (%s): no params", i, r.Host)
		}
	}

	return f.Rules, nil
}
