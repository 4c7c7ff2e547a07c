package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	fluxionerrors "github.com/fluxionhq/fluxion/pkg/errors"
)

var yamlLineRegex = regexp.MustCompile(`line (\d+)`)

// Load reads a pipeline definition from disk. Both YAML (.yaml, .yml) and
// JSON (.json) are accepted, per the wire format's "JSON or YAML" allowance;
// Decode picks the decoder. A definition that fails struct-tag
// validation is rejected here, before any attempt to build a
// corepipeline.Pipeline.
func Load(path string) (*PipelineDefinition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fluxionerrors.NewParseError(path, 0, err)
	}

	def, err := Decode(data, path)
	if err != nil {
		return nil, err
	}

	if err := Validate(def); err != nil {
		return nil, err
	}

	return def, nil
}

// Decode unmarshals raw definition bytes without validating. hint is
// typically the source path or filename; it is carried into any ParseError.
// The bytes are decoded as JSON when hint has a .json extension or the
// content starts with "{" after trimming whitespace, and as YAML otherwise.
func Decode(data []byte, hint string) (*PipelineDefinition, error) {
	var def PipelineDefinition

	if isJSON(hint, data) {
		if err := json.Unmarshal(data, &def); err != nil {
			return nil, fluxionerrors.NewParseError(hint, 0, err)
		}
		return &def, nil
	}

	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fluxionerrors.NewParseError(hint, extractLine(err), err)
	}
	return &def, nil
}

func isJSON(hint string, data []byte) bool {
	if ext := strings.ToLower(filepath.Ext(hint)); ext == ".json" {
		return true
	}
	trimmed := strings.TrimSpace(string(data))
	return strings.HasPrefix(trimmed, "{")
}

func extractLine(err error) int {
	if err == nil {
		return 0
	}

	matches := yamlLineRegex.FindStringSubmatch(err.Error())
	if len(matches) != 2 {
		return 0
	}

	var line int
	if _, scanErr := fmt.Sscanf(matches[1], "%d", &line); scanErr != nil {
		return 0
	}
	return line
}
