package converter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/mcncl/jsonkit/internal/errors"
	"github.com/mcncl/jsonkit/internal/models"
)

// ToYAML converts JSON text to a YAML document. Object keys keep their order.
func (c *Converter) ToYAML(text string) (string, error) {
	ir, err := parse("YAML conversion failed", text)
	if err != nil {
		return "", err
	}
	return c.RenderYAML(ir)
}

// RenderYAML converts an already parsed document to YAML.
func (c *Converter) RenderYAML(ir models.IntermediateRepresentation) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(yamlNode(ir.Root)); err != nil {
		return "", errors.NewConversionError("YAML conversion failed", err)
	}
	if err := enc.Close(); err != nil {
		return "", errors.NewConversionError("YAML conversion failed", err)
	}
	return buf.String(), nil
}

// yamlNode builds the YAML node for a value. Tags are set explicitly so the
// encoder quotes strings that would otherwise read back as other types.
func yamlNode(v models.JSONValue) *yaml.Node {
	switch val := v.(type) {
	case *models.JSONObject:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, key := range val.Keys() {
			child, _ := val.Get(key)
			node.Content = append(node.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key},
				yamlNode(child),
			)
		}
		return node
	case models.JSONArray:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range val {
			node.Content = append(node.Content, yamlNode(item))
		}
		return node
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: val}
	case json.Number:
		tag := "!!float"
		if isInteger(string(val)) {
			tag = "!!int"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(val)}
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(val)}
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}
	default:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: fmt.Sprint(val)}
	}
}

// isInteger mirrors how the YAML resolver reads a plain number back.
func isInteger(s string) bool {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	_, err := strconv.ParseUint(s, 10, 64)
	return err == nil
}
