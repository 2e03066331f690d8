package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Save writes cfg to path as YAML, creating or replacing the file.
// The file carries secrets, so it's written with 0600.
func Save(path string, cfg *Config) error {
	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(path, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// SetValue sets a dotted key (e.g. "api.url") in an existing config file.
// It preserves the existing YAML structure and comments, creating
// intermediate mappings as needed. Values are written as plain scalars
// and parsed by the loader on the next read.
func SetValue(configPath, key, value string) error {
	if !KnownKey(key) {
		return fmt.Errorf("unknown config key '%s'", key)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse as yaml.Node to preserve structure
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if root.Kind == 0 {
		root = yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{{Kind: yaml.MappingNode, Tag: "!!map"}}}
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return fmt.Errorf("invalid YAML document structure")
	}

	node := root.Content[0]
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("expected mapping at document root")
	}

	parts := strings.Split(key, ".")
	for _, part := range parts[:len(parts)-1] {
		child := findMapValue(node, part)
		if child == nil {
			child = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
			node.Content = append(node.Content, scalarNode(part), child)
		}
		if child.Kind != yaml.MappingNode {
			return fmt.Errorf("'%s' is not a mapping in %s", part, configPath)
		}
		node = child
	}

	leaf := parts[len(parts)-1]
	newValue := valueNode(value)
	if existing := findMapValue(node, leaf); existing != nil {
		*existing = *newValue
	} else {
		node.Content = append(node.Content, scalarNode(leaf), newValue)
	}

	var buf strings.Builder
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(&root); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	encoder.Close()

	if err := os.WriteFile(configPath, []byte(buf.String()), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// KnownKey reports whether key names a leaf of the config schema.
func KnownKey(key string) bool {
	for _, k := range Keys() {
		if k == key {
			return true
		}
	}
	return false
}

// Keys lists every settable dotted config key.
func Keys() []string {
	return []string{
		"version",
		"api.url", "api.auth_token", "api.bearer_auth", "api.timeout", "api.rate_limit", "api.severities",
		"display.mode", "display.color", "display.title",
		"audio.mode", "audio.command",
		"input.mode", "input.hold",
		"input.modbus.endpoint", "input.modbus.slave_id", "input.modbus.timeout", "input.modbus.function",
		"input.modbus.refresh_address", "input.modbus.advance_address",
		"log.level", "log.file",
	}
}

// valueNode turns "a,b,c" into a flow sequence and anything else into a scalar.
func valueNode(value string) *yaml.Node {
	if strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]") {
		value = strings.TrimSuffix(strings.TrimPrefix(value, "["), "]")
		seq := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Style: yaml.FlowStyle}
		for _, item := range strings.Split(value, ",") {
			item = strings.TrimSpace(item)
			if item == "" {
				continue
			}
			seq.Content = append(seq.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: item})
		}
		return seq
	}
	return &yaml.Node{Kind: yaml.ScalarNode, Value: value}
}

func scalarNode(value string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: value}
}

// findMapValue finds a value in a mapping node by key name.
func findMapValue(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		return nil
	}

	for i := 0; i < len(node.Content)-1; i += 2 {
		keyNode := node.Content[i]
		valueNode := node.Content[i+1]

		if keyNode.Kind == yaml.ScalarNode && keyNode.Value == key {
			return valueNode
		}
	}

	return nil
}
