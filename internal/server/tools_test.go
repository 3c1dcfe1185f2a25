package server

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestGetToolDefinitions(t *testing.T) {
	tools := GetToolDefinitions()

	if len(tools) == 0 {
		t.Fatal("GetToolDefinitions returned empty slice")
	}

	expectedTools := []string{
		"image_load",
		"colony_count",
		"colony_descriptors",
		"colony_classify",
		"colony_crop_region",
	}

	toolMap := make(map[string]Tool)
	for _, tool := range tools {
		if _, dup := toolMap[tool.Name]; dup {
			t.Errorf("Tool %s defined twice", tool.Name)
		}
		toolMap[tool.Name] = tool
	}

	for _, name := range expectedTools {
		if _, ok := toolMap[name]; !ok {
			t.Errorf("Expected tool %s not found", name)
		}
	}
	if len(tools) != len(expectedTools) {
		t.Errorf("Expected %d tools, got %d", len(expectedTools), len(tools))
	}
}

func TestToolDefinitions_Structure(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		t.Run(tool.Name, func(t *testing.T) {
			if tool.Description == "" {
				t.Error("Tool description is empty")
			}
			if tool.InputSchema["type"] != "object" {
				t.Errorf("InputSchema type: got %v, want 'object'", tool.InputSchema["type"])
			}
			props, ok := tool.InputSchema["properties"].(map[string]interface{})
			if !ok || props == nil {
				t.Fatal("InputSchema properties missing")
			}

			required, ok := tool.InputSchema["required"].([]string)
			if !ok {
				t.Fatal("'required' should be a string slice")
			}
			hasPath := false
			for _, r := range required {
				if _, ok := props[r]; !ok {
					t.Errorf("required property %q is not defined", r)
				}
				if r == "path" {
					hasPath = true
				}
			}
			if !hasPath {
				t.Error("Tool should require 'path' parameter")
			}
		})
	}
}

func TestToolDefinitions_ColonyDefaults(t *testing.T) {
	wantDefaults := map[string]interface{}{
		"threshold":              0.55,
		"auto_threshold":         false,
		"eccentricity_threshold": 0.625,
		"area_deviation":         1.5,
	}

	for _, tool := range GetToolDefinitions() {
		if tool.Name == "image_load" {
			continue
		}
		props := tool.InputSchema["properties"].(map[string]interface{})
		for name, want := range wantDefaults {
			prop, ok := props[name].(map[string]interface{})
			if !ok {
				t.Errorf("%s: missing property %s", tool.Name, name)
				continue
			}
			if prop["default"] != want {
				t.Errorf("%s.%s default: got %v, want %v", tool.Name, name, prop["default"], want)
			}
		}
	}
}

func TestToolDefinitions_CropRegionRequiresRegion(t *testing.T) {
	for _, tool := range GetToolDefinitions() {
		if tool.Name != "colony_crop_region" {
			continue
		}
		required := tool.InputSchema["required"].([]string)
		for _, r := range required {
			if r == "region" {
				return
			}
		}
		t.Fatal("colony_crop_region should require 'region'")
	}
	t.Fatal("colony_crop_region not defined")
}

func TestToolDefinitions_Marshal(t *testing.T) {
	data, err := json.Marshal(GetToolDefinitions())
	if err != nil {
		t.Fatalf("Failed to marshal tool definitions: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Failed to unmarshal: %v", err)
	}
	for _, tool := range decoded {
		if _, ok := tool["inputSchema"]; !ok {
			t.Errorf("tool %v missing inputSchema key", tool["name"])
		}
	}
}

func TestModesProperty(t *testing.T) {
	prop := modesProperty()

	items := prop["items"].(map[string]interface{})
	enum := items["enum"].([]string)
	want := []string{"low-ecc", "high-ecc", "low-ecc-oob"}
	if len(enum) != len(want) {
		t.Fatalf("enum: got %v, want %v", enum, want)
	}
	for i := range want {
		if enum[i] != want[i] {
			t.Errorf("enum[%d]: got %s, want %s", i, enum[i], want[i])
		}
	}

	desc := prop["description"].(string)
	for _, part := range []string{"clear singular colonies", "ambiguous or overlapping clusters", "size outliers or noise"} {
		if !strings.Contains(desc, part) {
			t.Errorf("description %q missing %q", desc, part)
		}
	}
}
