package adapters

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"forkerator/internal/ports"
	"forkerator/internal/types"
)

const upstreamPolicySchema = `{
  "type": "object",
  "required": ["upstream_repos"],
  "properties": {
    "upstream_repos": {
      "type": ["array", "null"],
      "items": {"type": "string", "minLength": 1}
    }
  }
}`

const approvalsPolicySchema = `{
  "type": "object",
  "required": ["approved_forks"],
  "properties": {
    "approved_forks": {
      "type": ["object", "null"],
      "additionalProperties": {
        "type": ["object", "null"],
        "properties": {
          "version": {
            "type": ["string", "number", "array", "null"],
            "items": {"type": ["string", "number"]}
          },
          "category": {"type": ["string", "null"]}
        }
      }
    }
  }
}`

var (
	upstreamSchema  = jsonschema.MustCompileString("inmemory://upstream-policy.json", upstreamPolicySchema)
	approvalsSchema = jsonschema.MustCompileString("inmemory://approvals-policy.json", approvalsPolicySchema)
)

// PolicyFileAdapter loads the upstream repository and approved fork
// documents from YAML files, validating their shape before decoding.
type PolicyFileAdapter struct{}

func NewPolicyFileAdapter() PolicyFileAdapter {
	return PolicyFileAdapter{}
}

func (a PolicyFileAdapter) LoadUpstream(path string) (types.UpstreamPolicy, error) {
	var policy types.UpstreamPolicy
	if err := loadPolicyDocument(path, upstreamSchema, &policy); err != nil {
		return types.UpstreamPolicy{}, err
	}
	return policy, nil
}

func (a PolicyFileAdapter) LoadApprovals(path string) (types.ApprovalsPolicy, error) {
	var policy types.ApprovalsPolicy
	if err := loadPolicyDocument(path, approvalsSchema, &policy); err != nil {
		return types.ApprovalsPolicy{}, err
	}
	return policy, nil
}

func loadPolicyDocument(path string, schema *jsonschema.Schema, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("policy file not found: " + path).
			WithCause(err)
	}
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse policy yaml: " + path).
			WithCause(err)
	}
	document, err := normalizeDocument(raw)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("policy document is not a mapping: " + path).
			WithCause(err)
	}
	if err := schema.Validate(document); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("invalid policy document: " + path).
			WithCause(err)
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to decode policy document: " + path).
			WithCause(err)
	}
	return nil
}

// normalizeDocument converts a decoded YAML value into the shapes produced
// by encoding/json, which is what the schema validator understands.
func normalizeDocument(value any) (any, error) {
	data, err := json.Marshal(stringifyKeys(value))
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// stringifyKeys rewrites mappings with non-string keys, such as a package
// named 2048, into map[string]any.
func stringifyKeys(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = stringifyKeys(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = stringifyKeys(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = stringifyKeys(item)
		}
		return out
	default:
		return value
	}
}

var _ ports.PolicyLoaderPort = PolicyFileAdapter{}
