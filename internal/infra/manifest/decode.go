// Where: internal/infra/manifest/decode.go
// What: YAML decoding helpers for deployment manifests.
// Why: Normalize tagged YAML nodes (SAM intrinsics) into generic Go values.
package manifest

import (
	"errors"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

var (
	errEmptyDocument  = errors.New("empty yaml document")
	errUnexpectedRoot = errors.New("unexpected yaml root")
)

func decodeYAML(content []byte) (map[string]any, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(content, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 {
		return nil, errEmptyDocument
	}
	data, ok := decodeNode(node.Content[0]).(map[string]any)
	if !ok {
		return nil, errUnexpectedRoot
	}
	return data, nil
}

func decodeNode(node *yaml.Node) any {
	if node == nil {
		return nil
	}
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil
		}
		return decodeNode(node.Content[0])
	case yaml.AliasNode:
		return decodeNode(node.Alias)
	case yaml.MappingNode:
		m := map[string]any{}
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, _ := decodeNode(node.Content[i]).(string)
			if key == "" {
				key = node.Content[i].Value
			}
			if key == "" {
				continue
			}
			m[key] = decodeNode(node.Content[i+1])
		}
		return wrapIntrinsic(node.Tag, m)
	case yaml.SequenceNode:
		out := make([]any, 0, len(node.Content))
		for _, item := range node.Content {
			out = append(out, decodeNode(item))
		}
		return wrapIntrinsic(node.Tag, out)
	case yaml.ScalarNode:
		return decodeScalar(node)
	default:
		return nil
	}
}

func decodeScalar(node *yaml.Node) any {
	switch node.Tag {
	case "!!int":
		if value, err := strconv.Atoi(node.Value); err == nil {
			return value
		}
	case "!!float":
		if value, err := strconv.ParseFloat(node.Value, 64); err == nil {
			return value
		}
	case "!!bool":
		if value, err := strconv.ParseBool(node.Value); err == nil {
			return value
		}
	case "!!null":
		return nil
	}
	return wrapIntrinsic(node.Tag, node.Value)
}

// wrapIntrinsic maps short-form CloudFormation tags to their long form.
func wrapIntrinsic(tag string, decoded any) any {
	if !strings.HasPrefix(tag, "!") || strings.HasPrefix(tag, "!!") {
		return decoded
	}
	name := strings.TrimPrefix(tag, "!")
	switch name {
	case "Ref", "Condition":
		return map[string]any{name: decoded}
	default:
		return map[string]any{"Fn::" + name: decoded}
	}
}

// resolveRefs replaces {"Ref": param} with the parameter value when known.
func resolveRefs(input any, params map[string]any) any {
	switch typed := input.(type) {
	case map[string]any:
		if len(typed) == 1 {
			if ref, ok := typed["Ref"].(string); ok {
				if resolved, found := params[ref]; found {
					return resolved
				}
				return typed
			}
		}
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = resolveRefs(item, params)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = resolveRefs(item, params)
		}
		return out
	default:
		return input
	}
}
