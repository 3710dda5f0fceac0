package builtins

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/kevs-vm/kevs/object"
	"github.com/stretchr/testify/require"
)

type testState struct {
	registers [256]object.Object
	out       bytes.Buffer
}

func newTestState() *testState {
	s := &testState{}
	for i := range s.registers {
		s.registers[i] = object.Zero
	}
	return s
}

func (s *testState) Register(i uint8) object.Object           { return s.registers[i] }
func (s *testState) SetRegister(i uint8, value object.Object) { s.registers[i] = value }
func (s *testState) Stdout() io.Writer                        { return &s.out }

func TestDefaultIDs(t *testing.T) {
	r := Default()
	require.Equal(t, 3, r.Len())
	require.Equal(t, map[string]int16{"Print": PrintID, "Println": PrintlnID, "Len": LenID}, r.Names())
	require.Equal(t, "Len", r.Name(LenID))
	require.Equal(t, "", r.Name(7))
	_, ok := r.Lookup(3)
	require.False(t, ok)
	_, ok = r.Lookup(-1)
	require.False(t, ok)
}

func TestRegisterDuplicate(t *testing.T) {
	r := Default()
	_, err := r.Register(FuncSpec{Name: "Print"}, Print)
	require.Error(t, err)
	id, err := r.Register(FuncSpec{Name: "Other"}, Print)
	require.Nil(t, err)
	require.Equal(t, int16(3), id)
}

func TestNamesIsACopy(t *testing.T) {
	r := Default()
	names := r.Names()
	names["Print"] = 42
	id, ok := r.ID("Print")
	require.True(t, ok)
	require.Equal(t, PrintID, id)
}

func TestPrint(t *testing.T) {
	s := newTestState()
	s.registers[4] = object.NewString("hi")
	require.Nil(t, Print(context.Background(), 4, s))
	s.registers[4] = object.NewNumber(2.5)
	require.Nil(t, Println(context.Background(), 4, s))
	require.Equal(t, "hi2.5\n", s.out.String())
}

func TestLen(t *testing.T) {
	s := newTestState()
	s.registers[11] = object.NewString("hello")
	require.Nil(t, Len(context.Background(), 10, s))
	require.Equal(t, 5.0, s.registers[10].(*object.Number).Value())
}

func TestLenTypeError(t *testing.T) {
	s := newTestState()
	s.registers[1] = object.NewNumber(3)
	err := Len(context.Background(), 0, s)
	require.True(t, errors.Is(err, object.ErrTypeMismatch))
}

func TestLenWindowOverflow(t *testing.T) {
	s := newTestState()
	err := Len(context.Background(), 255, s)
	require.True(t, errors.Is(err, object.ErrIndexOutOfRange))
}

type failingWriter struct{}

func (failingWriter) Write(p []byte) (int, error) { return 0, errors.New("closed") }

type failingState struct{ *testState }

func (failingState) Stdout() io.Writer { return failingWriter{} }

func TestPrintWriteFailure(t *testing.T) {
	s := failingState{newTestState()}
	require.Error(t, Println(context.Background(), 0, s))
}

func TestDocsSorted(t *testing.T) {
	docs := Default().Docs()
	require.Len(t, docs, 3)
	require.Equal(t, "Len", docs[0].Name)
	require.Equal(t, "Print", docs[1].Name)
	require.Equal(t, "Println", docs[2].Name)
}
