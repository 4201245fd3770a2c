// Package checkpoint persists state dictionaries to disk.
//
// A checkpoint file holds a JSON header describing every tensor (name,
// dtype, shape, offset) followed by the raw tensor data, integrity
// protected by a SHA-256 checksum over the data section:
//
//	[4]  magic "SHNT"
//	[4]  format version, little endian
//	[8]  header length, little endian
//	[..] JSON header
//	[..] tensor data
//
// Usage:
//
//	err := checkpoint.Save("layer.shnt", layer.StateDict(), nil)
//	stateDict, meta, err := checkpoint.Load("layer.shnt")
//	err = layer.LoadStateDict(stateDict)
package checkpoint

import (
	"fmt"

	"github.com/born-ml/shellnet/internal/tensor"
)

const (
	magicBytes    = "SHNT"
	formatVersion = 1
)

// Data type names used in the header.
const (
	dtypeFloat32 = "float32"
	dtypeInt32   = "int32"
	dtypeBool    = "bool"
)

// header is the JSON header of a checkpoint file.
type header struct {
	FormatVersion int               `json:"format_version"`
	Tensors       []tensorMeta      `json:"tensors"`
	Metadata      map[string]string `json:"metadata,omitempty"`
	Checksum      string            `json:"checksum"` // hex SHA-256 of the data section
}

// tensorMeta describes one tensor in the data section.
type tensorMeta struct {
	Name   string `json:"name"`
	DType  string `json:"dtype"`
	Shape  []int  `json:"shape"`
	Offset int64  `json:"offset"`
	Size   int64  `json:"size"`
}

func dtypeToString(dt tensor.DataType) (string, error) {
	switch dt {
	case tensor.Float32:
		return dtypeFloat32, nil
	case tensor.Int32:
		return dtypeInt32, nil
	case tensor.Bool:
		return dtypeBool, nil
	default:
		return "", fmt.Errorf("unsupported dtype %v", dt)
	}
}

func stringToDtype(s string) (tensor.DataType, error) {
	switch s {
	case dtypeFloat32:
		return tensor.Float32, nil
	case dtypeInt32:
		return tensor.Int32, nil
	case dtypeBool:
		return tensor.Bool, nil
	default:
		return 0, fmt.Errorf("unsupported dtype %q", s)
	}
}
