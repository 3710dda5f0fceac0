package bytecode

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/kevs-vm/kevs/object"
)

// ImageVersion is the version of the serialized program format.
const ImageVersion = 1

// cborEncMode uses canonical mode for deterministic encoding.
var cborEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("bytecode: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em
}

type image struct {
	Version   int              `cbor:"v"`
	Filename  string           `cbor:"f,omitempty"`
	Source    string           `cbor:"s,omitempty"`
	Code      []byte           `cbor:"i"`
	Constants []constantImage  `cbor:"k,omitempty"`
	Locations []SourceLocation `cbor:"l,omitempty"`
	Registers []string         `cbor:"r,omitempty"`
}

// constantImage is the tagged form of one constant pool entry.
type constantImage struct {
	Type   object.Type     `cbor:"t"`
	Number float64         `cbor:"n,omitempty"`
	Char   int32           `cbor:"c,omitempty"`
	Bool   bool            `cbor:"b,omitempty"`
	Items  []constantImage `cbor:"a,omitempty"`
}

func toConstantImage(obj object.Object) (constantImage, error) {
	switch obj := obj.(type) {
	case *object.Number:
		return constantImage{Type: object.NUMBER, Number: obj.Value()}, nil
	case *object.Character:
		return constantImage{Type: object.CHARACTER, Char: obj.Value()}, nil
	case *object.Bool:
		return constantImage{Type: object.BOOL, Bool: obj.Value()}, nil
	case *object.Array:
		items := make([]constantImage, obj.Len())
		for i, item := range obj.Items() {
			ci, err := toConstantImage(item)
			if err != nil {
				return constantImage{}, err
			}
			items[i] = ci
		}
		return constantImage{Type: object.ARRAY, Items: items}, nil
	}
	return constantImage{}, fmt.Errorf("bytecode: unsupported constant type %T", obj)
}

func fromConstantImage(ci constantImage) (object.Object, error) {
	switch ci.Type {
	case object.NUMBER:
		return object.NewNumber(ci.Number), nil
	case object.CHARACTER:
		return object.NewCharacter(ci.Char), nil
	case object.BOOL:
		return object.NewBool(ci.Bool), nil
	case object.ARRAY:
		items := make([]object.Object, len(ci.Items))
		for i, item := range ci.Items {
			obj, err := fromConstantImage(item)
			if err != nil {
				return nil, err
			}
			items[i] = obj
		}
		return object.NewArray(items), nil
	}
	return nil, fmt.Errorf("bytecode: unknown constant type %q", ci.Type)
}

// Marshal serializes a Program to CBOR bytes. The encoding is canonical:
// equal programs always produce identical bytes.
func Marshal(p *Program) ([]byte, error) {
	img := image{
		Version:   ImageVersion,
		Filename:  p.filename,
		Source:    p.source,
		Code:      EncodeInstructions(p.instructions),
		Locations: p.locations,
		Registers: p.registerNames,
	}
	for _, c := range p.constants {
		ci, err := toConstantImage(c)
		if err != nil {
			return nil, err
		}
		img.Constants = append(img.Constants, ci)
	}
	return cborEncMode.Marshal(img)
}

// Unmarshal deserializes a Program from CBOR bytes produced by Marshal.
func Unmarshal(data []byte) (*Program, error) {
	var img image
	if err := cbor.Unmarshal(data, &img); err != nil {
		return nil, fmt.Errorf("bytecode: unmarshal program: %w", err)
	}
	if img.Version != ImageVersion {
		return nil, fmt.Errorf("bytecode: unsupported image version %d (want %d)",
			img.Version, ImageVersion)
	}
	instructions, err := DecodeInstructions(img.Code)
	if err != nil {
		return nil, err
	}
	if len(img.Locations) != 0 && len(img.Locations) != len(instructions) {
		return nil, fmt.Errorf("bytecode: %d source locations for %d instructions",
			len(img.Locations), len(instructions))
	}
	constants := make([]object.Object, 0, len(img.Constants))
	for _, ci := range img.Constants {
		obj, err := fromConstantImage(ci)
		if err != nil {
			return nil, err
		}
		constants = append(constants, obj)
	}
	return &Program{
		instructions:  instructions,
		constants:     constants,
		source:        img.Source,
		filename:      img.Filename,
		locations:     img.Locations,
		registerNames: img.Registers,
	}, nil
}
