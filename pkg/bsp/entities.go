package bsp

import (
	"bytes"
	"strings"
)

// Entity is one key/value block of the entities lump.
type Entity map[string]string

// ClassName is the entity's "classname" key.
func (e Entity) ClassName() string {
	return e["classname"]
}

// ParseEntities splits the Windows-1252 entities lump into key/value blocks.
// Braces and line breaks inside quotes are part of the quoted text.
// Lines that are not a quoted key followed by a quoted value are ignored,
// and so is a block that is never closed.
func ParseEntities(raw []byte) []Entity {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}

	var (
		entities []Entity
		current  Entity
		line     []string
		quoted   strings.Builder
		inQuote  bool
	)

	endLine := func() {
		if current != nil && len(line) == 2 {
			current[line[0]] = line[1]
		}

		line = line[:0]
	}

	for _, r := range decodeText(raw) {
		switch {
		case inQuote && r == '"':
			inQuote = false
			line = append(line, quoted.String())
			quoted.Reset()
		case inQuote:
			quoted.WriteRune(r)
		case r == '"':
			inQuote = true
		case r == '\n':
			endLine()
		case r == '{':
			line = line[:0]
			current = make(Entity)
		case r == '}':
			endLine()

			if len(current) > 0 {
				entities = append(entities, current)
			}

			current = nil
		}
	}

	return entities
}

// Worldspawn returns the first entity of class worldspawn, if any.
func Worldspawn(entities []Entity) (Entity, bool) {
	for _, e := range entities {
		if e.ClassName() == "worldspawn" {
			return e, true
		}
	}

	return nil, false
}
