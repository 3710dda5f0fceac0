package object

import "strconv"

// Character holds a single Unicode code point.
type Character struct {
	value rune
}

// NewCharacter returns a Character holding the given rune.
func NewCharacter(value rune) *Character {
	return &Character{value: value}
}

func (c *Character) Type() Type {
	return CHARACTER
}

func (c *Character) Value() rune {
	return c.value
}

func (c *Character) Display() string {
	return string(c.value)
}

func (c *Character) Inspect() string {
	return strconv.QuoteRune(c.value)
}

func (c *Character) Interface() any {
	return c.value
}

func (c *Character) String() string {
	return c.Inspect()
}
