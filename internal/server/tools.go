package server

import (
	"fmt"
	"strings"

	"github.com/ironsheep/colony-counter/internal/colony"
)

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Absolute path to the plate image file",
	}
}

// analysisProperties are the optional overrides accepted by every colony tool.
func analysisProperties() map[string]interface{} {
	return map[string]interface{}{
		"path": pathProperty(),
		"threshold": map[string]interface{}{
			"type":        "number",
			"description": "Binarization threshold on the normalized grayscale image, in (0, 1). Pixels brighter than this are foreground. Default 0.55",
			"default":     0.55,
		},
		"auto_threshold": map[string]interface{}{
			"type":        "boolean",
			"description": "Pick the binarization threshold with Otsu's method instead of 'threshold'",
			"default":     false,
		},
		"eccentricity_threshold": map[string]interface{}{
			"type":        "number",
			"description": "Regions with eccentricity below this are round candidates; at or above are clusters. Default 0.625",
			"default":     0.625,
		},
		"area_deviation": map[string]interface{}{
			"type":        "number",
			"description": "Half-width of the area band in standard deviations (mean ± k·sd). Default 1.5",
			"default":     1.5,
		},
		"modes": modesProperty(),
	}
}

// modesProperty lists every classification mode with what it selects.
func modesProperty() map[string]interface{} {
	var names, parts []string
	for _, m := range colony.AllModes() {
		names = append(names, m.String())
		parts = append(parts, fmt.Sprintf("%s (%s)", m, m.Description()))
	}
	return map[string]interface{}{
		"type":        "array",
		"description": "Classification modes to run: " + strings.Join(parts, ", ") + ". Default all",
		"items": map[string]interface{}{
			"type": "string",
			"enum": names,
		},
	}
}

func withProperties(base map[string]interface{}, extra map[string]interface{}) map[string]interface{} {
	for k, v := range extra {
		base[k] = v
	}
	return base
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Image Information
		{
			Name:        "image_load",
			Description: "Load an image file and return its dimensions and format.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Colony Analysis
		{
			Name:        "colony_count",
			Description: "Run the full colony count on a plate image: detect regions, classify them into round colonies inside the size band, elongated clusters, and round size outliers, and write one mask image per class plus an optional comparison panel and area histogram. Returns per-class counts; a class without data is reported as undefined rather than zero.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(analysisProperties(), map[string]interface{}{
					"output_dir": map[string]interface{}{
						"type":        "string",
						"description": "Directory receiving the mask images. Default is the server's configured output directory",
					},
					"write_panel": map[string]interface{}{
						"type":        "boolean",
						"description": "Also write comparison.png, a captioned 2x2 panel",
						"default":     true,
					},
					"write_histogram": map[string]interface{}{
						"type":        "boolean",
						"description": "Also write area-histogram.png",
						"default":     true,
					},
				}),
				"required": []string{"path"},
			},
		},
		{
			Name:        "colony_descriptors",
			Description: "Measure every connected bright region of a plate image and return its descriptors: area, convex area, bounding box area, extent, mean intensity, solidity, eccentricity, orientation and bounding box. Region 1 is the first region in raster order and is never classified.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": analysisProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "colony_classify",
			Description: "Classify the regions of a plate image without writing files. Returns members, counts, area statistics and the size band for each mode.",
			InputSchema: map[string]interface{}{
				"type":       "object",
				"properties": analysisProperties(),
				"required":   []string{"path"},
			},
		},
		{
			Name:        "colony_crop_region",
			Description: "Crop one region's bounding box from a plate image and return it as base64-encoded PNG together with the region's descriptors. Use this to inspect a region flagged as a cluster or outlier.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": withProperties(analysisProperties(), map[string]interface{}{
					"region": map[string]interface{}{
						"type":        "integer",
						"description": "Region ID as returned by colony_descriptors (1-based)",
					},
					"padding": map[string]interface{}{
						"type":        "integer",
						"description": "Pixels added around the bounding box. Default 0",
						"default":     0,
					},
					"scale": map[string]interface{}{
						"type":        "number",
						"description": "Optional scale factor (e.g., 4.0 to enlarge small colonies). Default 1.0",
						"default":     1.0,
					},
				}),
				"required": []string{"path", "region"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
