package rjsconfig

import (
	"encoding/json"
	"fmt"

	"github.com/rustyjsonserver/rjs/jsonval"
)

// rawNode mirrors the wire shape of a config file or inline node (spec §6):
// either root-shaped (port + resources) or node-shaped (path/methods/children),
// and may additionally carry an fref/$ref splice.
type rawNode struct {
	Port      *int              `json:"port,omitempty"`
	Resources []json.RawMessage `json:"resources,omitempty"`

	Path     string            `json:"path,omitempty"`
	Methods  []json.RawMessage `json:"methods,omitempty"`
	Children []json.RawMessage `json:"children,omitempty"`

	Fref string `json:"fref,omitempty"`
	Ref  string `json:"$ref,omitempty"`
}

// fref returns the node's splice target, treating `$ref` as an alias for
// `fref` per §9's resolved Open Question.
func (n rawNode) fref() string {
	if n.Fref != "" {
		return n.Fref
	}
	return n.Ref
}

type rawResponse struct {
	Status *int            `json:"status,omitempty"`
	Body   json.RawMessage `json:"body"`
}

// rawMethod's Script field accepts either a bare source string or
// `{"fref": "path"}`; decodeScript below disambiguates.
type rawMethod struct {
	Method   string          `json:"method"`
	Response *rawResponse    `json:"response,omitempty"`
	Script   json.RawMessage `json:"script,omitempty"`
}

type rawScriptRef struct {
	Fref string `json:"fref"`
}

func decodeRawNode(data []byte) (rawNode, error) {
	var n rawNode
	if err := json.Unmarshal(data, &n); err != nil {
		return rawNode{}, fmt.Errorf("malformed JSON: %w", err)
	}
	return n, nil
}

func decodeJSONValue(raw json.RawMessage) (jsonval.Value, error) {
	if len(raw) == 0 {
		return jsonval.Null(), nil
	}
	return jsonval.Decode(raw)
}

// decodeScript classifies a method's `script` field: a quoted string is an
// inline source; an object is `{fref}`. Returns (source, frefPath, isFref).
func decodeScript(raw json.RawMessage) (source string, fref string, isFref bool, err error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, "", false, nil
	}
	var ref rawScriptRef
	if err := json.Unmarshal(raw, &ref); err != nil {
		return "", "", false, fmt.Errorf("script must be a string or {fref}: %w", err)
	}
	if ref.Fref == "" {
		return "", "", false, fmt.Errorf("script object missing fref")
	}
	return "", ref.Fref, true, nil
}
