package object

// Bool is the result of a comparison and the only value a conditional jump
// accepts.
type Bool struct {
	value bool
}

// NewBool returns the True or False singleton.
func NewBool(value bool) *Bool {
	if value {
		return True
	}
	return False
}

func (b *Bool) Type() Type {
	return BOOL
}

func (b *Bool) Value() bool {
	return b.value
}

func (b *Bool) Display() string {
	if b.value {
		return "true"
	}
	return "false"
}

func (b *Bool) Inspect() string {
	return b.Display()
}

func (b *Bool) Interface() any {
	return b.value
}

func (b *Bool) String() string {
	return b.Inspect()
}
