package properties

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// IdentifierKind tells how a document identifier arrived on the wire.
type IdentifierKind int

const (
	IdentifierMissing IdentifierKind = iota
	// IdentifierPlain is a bare string id.
	IdentifierPlain
	// IdentifierExtendedJSON is an object carrying "$oid" (or legacy "oid").
	IdentifierExtendedJSON
	// IdentifierHexAccessor is a value exposing Hex(), such as a driver ObjectID.
	IdentifierHexAccessor
	// IdentifierExtracted was recovered by pattern matching a 24-hex run.
	IdentifierExtracted
)

func (k IdentifierKind) String() string {
	switch k {
	case IdentifierPlain:
		return "plain"
	case IdentifierExtendedJSON:
		return "extended_json"
	case IdentifierHexAccessor:
		return "hex_accessor"
	case IdentifierExtracted:
		return "extracted"
	default:
		return "missing"
	}
}

// Identifier is a normalized document id together with its source shape.
type Identifier struct {
	Kind  IdentifierKind
	Value string
}

// Valid is false for missing or empty identifiers; such records are skipped.
func (id Identifier) Valid() bool {
	return id.Kind != IdentifierMissing && id.Value != ""
}

func (id Identifier) PropertyID() PropertyID {
	return PropertyID(id.Value)
}

type hexer interface {
	Hex() string
}

var objectIDPattern = regexp.MustCompile(`[0-9a-fA-F]{24}`)

// IsObjectIDHex reports whether s is exactly a 24 character hex string.
func IsObjectIDHex(s string) bool {
	return len(s) == 24 && objectIDPattern.MatchString(s)
}

// ParseIdentifier normalizes the id shapes seen in stored and exported documents.
func ParseIdentifier(raw any) Identifier {
	switch v := raw.(type) {
	case nil:
		return Identifier{}
	case string:
		v = strings.TrimSpace(v)
		if v == "" {
			return Identifier{}
		}
		return Identifier{Kind: IdentifierPlain, Value: v}
	case PropertyID:
		return ParseIdentifier(string(v))
	case map[string]any:
		for _, key := range []string{"$oid", "oid"} {
			if inner, ok := v[key]; ok && inner != nil {
				if s := strings.TrimSpace(fmt.Sprint(inner)); s != "" {
					return Identifier{Kind: IdentifierExtendedJSON, Value: s}
				}
			}
		}
	case hexer:
		if s := v.Hex(); s != "" && strings.Trim(s, "0") != "" {
			return Identifier{Kind: IdentifierHexAccessor, Value: s}
		}
		return Identifier{}
	}
	return extractIdentifier(raw)
}

// IdentifierFromDocument reads "_id" first and falls back to "id".
func IdentifierFromDocument(doc map[string]any) Identifier {
	if doc == nil {
		return Identifier{}
	}
	if raw, ok := doc["_id"]; ok && raw != nil {
		if id := ParseIdentifier(raw); id.Valid() {
			return id
		}
	}
	return ParseIdentifier(doc["id"])
}

func extractIdentifier(raw any) Identifier {
	encoded, err := json.Marshal(raw)
	if err != nil {
		return Identifier{}
	}
	match := objectIDPattern.Find(encoded)
	if match == nil {
		return Identifier{}
	}
	return Identifier{Kind: IdentifierExtracted, Value: string(match)}
}
