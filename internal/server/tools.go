package server

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Method names accepted on the call surface.
const (
	MethodCompressImage      = "compressImage"
	MethodGetImageProperties = "getImageProperties"
	MethodCropImage          = "cropImage"
	MethodGetPlatformVersion = "getPlatformVersion"
	MethodListMethods        = "listMethods"
)

// Param describes one named argument of a method.
type Param struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description"`
}

// Method describes a callable method and its arguments.
type Method struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Required    []Param `json:"required,omitempty"`
	Optional    []Param `json:"optional,omitempty"`
}

var fileParam = Param{
	Name:        "file",
	Type:        "string",
	Description: "Path to the source image",
}

// GetMethodDefinitions returns every method the server answers.
func GetMethodDefinitions() []Method {
	return []Method{
		{
			Name:        MethodCompressImage,
			Description: "Resize an image, reduce it to 16-bit colour and re-encode it as JPEG in the cache directory. Returns the path of the new file.",
			Required: []Param{
				fileParam,
				{
					Name:        "percentage",
					Type:        "integer",
					Description: "Scale factor in percent, applied to each axis without an explicit target",
				},
				{
					Name:        "quality",
					Type:        "integer",
					Description: "JPEG quality, 0-100",
				},
			},
			Optional: []Param{
				{
					Name:        "targetWidth",
					Type:        "integer",
					Description: "Output width in pixels; overrides percentage for the width",
				},
				{
					Name:        "targetHeight",
					Type:        "integer",
					Description: "Output height in pixels; overrides percentage for the height",
				},
			},
		},
		{
			Name:        MethodGetImageProperties,
			Description: "Read the stored width and height of an image and its EXIF orientation (0 when unknown) without decoding pixels.",
			Required:    []Param{fileParam},
		},
		{
			Name:        MethodCropImage,
			Description: "Extract a rectangle from an image and write it as a quality 100 JPEG in the cache directory. Returns the path of the new file.",
			Required: []Param{
				fileParam,
				{
					Name:        "originX",
					Type:        "integer",
					Description: "Left edge of the rectangle (0-based)",
				},
				{
					Name:        "originY",
					Type:        "integer",
					Description: "Top edge of the rectangle (0-based)",
				},
				{
					Name:        "width",
					Type:        "integer",
					Description: "Rectangle width in pixels",
				},
				{
					Name:        "height",
					Type:        "integer",
					Description: "Rectangle height in pixels",
				},
			},
		},
		{
			Name:        MethodGetPlatformVersion,
			Description: "Describe the platform the server runs on.",
		},
		{
			Name:        MethodListMethods,
			Description: "List the available methods and their arguments.",
		},
	}
}

var methodIndex = func() map[string]Method {
	m := make(map[string]Method)
	for _, def := range GetMethodDefinitions() {
		m[def.Name] = def
	}
	return m
}()

// lookupMethod returns the definition of name.
func lookupMethod(name string) (Method, bool) {
	m, ok := methodIndex[name]
	return m, ok
}

// checkArgs verifies that args is a JSON object holding every required
// argument of m with a non-null value.
func (m Method) checkArgs(args json.RawMessage) error {
	fields := map[string]json.RawMessage{}
	if len(args) > 0 && string(args) != "null" {
		if err := json.Unmarshal(args, &fields); err != nil {
			return fmt.Errorf("args must be an object: %w", err)
		}
	}

	var missing []string
	for _, p := range m.Required {
		v, ok := fields[p.Name]
		if !ok || string(v) == "null" {
			missing = append(missing, p.Name)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("missing required argument(s): %s", strings.Join(missing, ", "))
	}
	return nil
}
