package parsers

import "strings"

// Kind classifies a declaration. The set is closed.
type Kind string

const (
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindClass     Kind = "class"
	KindInterface Kind = "interface"
	KindType      Kind = "type"
	KindEnum      Kind = "enum"
)

// Symbol represents one declaration found in a source file.
type Symbol struct {
	Name string // declared identifier
	Kind Kind
	Line int    // 1-indexed
	Text string // trimmed source line containing the declaration start
}

// kindPrecedence is checked in order against a capture name; the first
// substring hit wins.
var kindPrecedence = []Kind{KindClass, KindInterface, KindType, KindEnum, KindMethod}

// kindFromCapture maps a capture label such as "method.name" to a Kind.
// Labels that mention none of the known kinds are functions.
func kindFromCapture(captureName string) Kind {
	for _, k := range kindPrecedence {
		if strings.Contains(captureName, string(k)) {
			return k
		}
	}
	return KindFunction
}
