// Package blocks defines the renderer agnostic block tree exchanged between
// the local renderer and the remote page builder.
package blocks

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Block is one node of the visual tree. Children are owned exclusively by
// their parent.
type Block struct {
	BlockID               string               `json:"blockId"`
	BlockName             string               `json:"blockName,omitempty"`
	Element               string               `json:"element,omitempty"`
	Children              []Block              `json:"children,omitempty"`
	BaseStyles            map[string]any       `json:"baseStyles,omitempty"`
	RawStyles             map[string]any       `json:"rawStyles,omitempty"`
	MobileStyles          map[string]any       `json:"mobileStyles,omitempty"`
	TabletStyles          map[string]any       `json:"tabletStyles,omitempty"`
	Attributes            map[string]any       `json:"attributes,omitempty"`
	CustomAttributes      map[string]any       `json:"customAttributes,omitempty"`
	Classes               []string             `json:"classes,omitempty"`
	InnerText             string               `json:"innerText,omitempty"`
	InnerHTML             string               `json:"innerHTML,omitempty"`
	ExtendedFromComponent string               `json:"extendedFromComponent,omitempty"`
	OriginalElement       string               `json:"originalElement,omitempty"`
	ReferenceBlockID      string               `json:"referenceBlockId,omitempty"`
	IsRepeaterBlock       bool                 `json:"isRepeaterBlock,omitempty"`
	Props                 map[string]any       `json:"props,omitempty"`
	DataKey               *DataKey             `json:"dataKey,omitempty"`
	DynamicValues         []DataKey            `json:"dynamicValues,omitempty"`
	VisibilityCondition   *VisibilityCondition `json:"visibilityCondition,omitempty"`
}

// DataKey binds a block property to external data.
type DataKey struct {
	Key       string `json:"key"`
	Property  string `json:"property"`
	Type      string `json:"type"`
	ComesFrom string `json:"comesFrom,omitempty"`
}

// VisibilityCondition is either a bare expression or a keyed reference.
// On the wire it is a JSON string or an object.
type VisibilityCondition struct {
	Expression string
	Key        string
	Operator   string
	Value      any
	ComesFrom  string
}

var errVisibilityShape = errors.New("blocks: visibility condition must be a string or an object")

type visibilityObject struct {
	Key       string `json:"key"`
	Operator  string `json:"operator,omitempty"`
	Value     any    `json:"value,omitempty"`
	ComesFrom string `json:"comesFrom,omitempty"`
}

// IsExpression reports whether the condition is the string form.
func (v VisibilityCondition) IsExpression() bool {
	return v.Key == "" && v.Operator == "" && v.Value == nil && v.ComesFrom == ""
}

func (v VisibilityCondition) MarshalJSON() ([]byte, error) {
	if v.IsExpression() {
		return json.Marshal(v.Expression)
	}
	return json.Marshal(visibilityObject{Key: v.Key, Operator: v.Operator, Value: v.Value, ComesFrom: v.ComesFrom})
}

func (v *VisibilityCondition) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*v = VisibilityCondition{}
		return nil
	}
	switch trimmed[0] {
	case '"':
		var expr string
		if err := json.Unmarshal(trimmed, &expr); err != nil {
			return err
		}
		*v = VisibilityCondition{Expression: expr}
		return nil
	case '{':
		var obj visibilityObject
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		*v = VisibilityCondition{Key: obj.Key, Operator: obj.Operator, Value: obj.Value, ComesFrom: obj.ComesFrom}
		return nil
	default:
		return errVisibilityShape
	}
}

// Count returns the number of blocks in the forest, children included.
func Count(list []Block) int {
	total := 0
	for _, b := range list {
		total += 1 + Count(b.Children)
	}
	return total
}

// Walk visits every block depth first, stopping when fn returns false.
func Walk(list []Block, fn func(Block) bool) bool {
	for _, b := range list {
		if !fn(b) {
			return false
		}
		if !Walk(b.Children, fn) {
			return false
		}
	}
	return true
}
