package bsp

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestParseEntities(t *testing.T) {
	t.Parallel()

	raw := []byte("{\r\n\"classname\" \"worldspawn\"\r\n\"message\" \"Enterprise deck 7\"\r\n}\n" +
		"{\n\"classname\" \"info_player_start\"\n\"origin\" \"0 0 24\"\nbroken line\n}\n\x00trailing")

	entities := ParseEntities(raw)
	assert.Equal(t, []Entity{
		{"classname": "worldspawn", "message": "Enterprise deck 7"},
		{"classname": "info_player_start", "origin": "0 0 24"},
	}, entities)

	world, ok := Worldspawn(entities)
	assert.True(t, ok)
	assert.Equal(t, "Enterprise deck 7", world["message"])
}

func TestParseEntities_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, ParseEntities(nil))
	assert.Empty(t, ParseEntities([]byte("{\n}\n")))

	_, ok := Worldspawn(nil)
	assert.False(t, ok)
}

func TestParseEntities_QuotedBraces(t *testing.T) {
	t.Parallel()

	raw := []byte("{\n\"classname\" \"worldspawn\"\n\"message\" \"Deck {7} }\"\n}\n" +
		"{\n\"classname\" \"trigger_relay\"\n\"target\" \"}{\"\n}\n")

	assert.Equal(t, []Entity{
		{"classname": "worldspawn", "message": "Deck {7} }"},
		{"classname": "trigger_relay", "target": "}{"},
	}, ParseEntities(raw))
}

func TestParseEntities_Windows1252(t *testing.T) {
	t.Parallel()

	// 0xe9 is e-acute, 0x96 an en dash
	raw := []byte("{\n\"classname\" \"worldspawn\"\n\"message\" \"Caf\xe9 \x96 deck 7\"\n}\n")

	world, ok := Worldspawn(ParseEntities(raw))
	assert.True(t, ok)
	assert.Equal(t, "Café – deck 7", world["message"])
	assert.True(t, utf8.ValidString(world["message"]))
}

func TestParseEntities_Unclosed(t *testing.T) {
	t.Parallel()

	raw := []byte("{\n\"classname\" \"worldspawn\"\n}\n{\n\"classname\" \"light\"\n")

	assert.Equal(t, []Entity{{"classname": "worldspawn"}}, ParseEntities(raw))
}
