package labels

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

type schemaError struct {
	Path    string
	Line    int
	Message string
}

func (e schemaError) String() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d field %s: %s", e.Line, e.Path, e.Message)
	}
	return fmt.Sprintf("field %s: %s", e.Path, e.Message)
}

func formatSchemaErrors(path string, errs []schemaError) string {
	sort.Slice(errs, func(i, j int) bool {
		if errs[i].Line != errs[j].Line {
			return errs[i].Line < errs[j].Line
		}
		if errs[i].Path != errs[j].Path {
			return errs[i].Path < errs[j].Path
		}
		return errs[i].Message < errs[j].Message
	})
	var b strings.Builder
	b.WriteString("labels schema validation failed for ")
	b.WriteString(path)
	for _, e := range errs {
		b.WriteString("\n- ")
		b.WriteString(e.String())
	}
	return b.String()
}

var statusKeys = []string{"OK", "Warning", "Action"}

func validateSchema(root *yaml.Node) []schemaError {
	if root == nil || len(root.Content) == 0 {
		return []schemaError{{Path: "labels", Line: 0, Message: "empty YAML document"}}
	}
	node := root.Content[0]
	errList := []schemaError{}
	allowed := []string{"sections", "status_labels", "status_messages", "stage_titles", "hidden", "one_thing_kicker", "default_action_label", "seal_line"}
	m := validateMapNode(node, "labels", allowed, nil, &errList)

	if v, ok := m["sections"]; ok {
		validateMapNode(v, "labels.sections", []string{"status", "one_thing", "signals", "history", "reasoning"}, nil, &errList)
	}
	if v, ok := m["status_labels"]; ok {
		validateMapNode(v, "labels.status_labels", statusKeys, nil, &errList)
	}
	if v, ok := m["status_messages"]; ok {
		validateMapNode(v, "labels.status_messages", statusKeys, nil, &errList)
	}
	if v, ok := m["stage_titles"]; ok {
		validateStageKeys(v, "labels.stage_titles", 1, 7, &errList)
	}
	if v, ok := m["hidden"]; ok {
		h := validateMapNode(v, "labels.hidden", []string{"title", "disclaimer", "group_titles"}, nil, &errList)
		if g, ok := h["group_titles"]; ok {
			validateStageKeys(g, "labels.hidden.group_titles", 8, 10, &errList)
		}
	}
	return errList
}

func validateStageKeys(node *yaml.Node, path string, min, max int, errs *[]schemaError) {
	if node == nil || node.Kind != yaml.MappingNode {
		*errs = append(*errs, schemaError{Path: path, Line: lineOf(node), Message: "must be a mapping of stage number to title"})
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i]
		var stage int
		if _, err := fmt.Sscan(k.Value, &stage); err != nil || stage < min || stage > max {
			*errs = append(*errs, schemaError{Path: path + "." + k.Value, Line: k.Line, Message: fmt.Sprintf("stage key must be an integer in [%d,%d]", min, max)})
		}
	}
}

func validateMapNode(node *yaml.Node, path string, allowed, required []string, errs *[]schemaError) map[string]*yaml.Node {
	result := map[string]*yaml.Node{}
	if node == nil {
		*errs = append(*errs, schemaError{Path: path, Line: 0, Message: "missing object"})
		return result
	}
	if node.Kind != yaml.MappingNode {
		*errs = append(*errs, schemaError{Path: path, Line: node.Line, Message: "must be a mapping/object"})
		return result
	}
	allowedSet := map[string]bool{}
	for _, a := range allowed {
		allowedSet[a] = true
	}
	seen := map[string]int{}
	for i := 0; i+1 < len(node.Content); i += 2 {
		k := node.Content[i]
		v := node.Content[i+1]
		key := k.Value
		if prevLine, ok := seen[key]; ok {
			*errs = append(*errs, schemaError{Path: path + "." + key, Line: k.Line, Message: fmt.Sprintf("duplicate key (already defined at line %d)", prevLine)})
			continue
		}
		seen[key] = k.Line
		if !allowedSet[key] {
			*errs = append(*errs, schemaError{Path: path + "." + key, Line: k.Line, Message: "unknown field"})
		}
		result[key] = v
	}
	for _, req := range required {
		if _, ok := result[req]; !ok {
			*errs = append(*errs, schemaError{Path: path + "." + req, Line: node.Line, Message: "missing required field"})
		}
	}
	return result
}

func lineOf(node *yaml.Node) int {
	if node == nil {
		return 0
	}
	return node.Line
}
