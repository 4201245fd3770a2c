package checkpoint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/born-ml/shellnet/internal/tensor"
)

// Save writes a state dictionary to path. metadata is optional free-form
// information stored in the header, may be nil.
//
// Tensors are written in name order so identical state produces an
// identical file.
func Save(path string, stateDict map[string]*tensor.RawTensor, metadata map[string]string) error {
	names := make([]string, 0, len(stateDict))
	for name := range stateDict {
		names = append(names, name)
	}
	sort.Strings(names)

	hdr := header{
		FormatVersion: formatVersion,
		Tensors:       make([]tensorMeta, 0, len(names)),
		Metadata:      metadata,
	}

	checksum := sha256.New()
	var offset int64
	for _, name := range names {
		raw := stateDict[name]
		dtype, err := dtypeToString(raw.DType())
		if err != nil {
			return fmt.Errorf("checkpoint: tensor %s: %w", name, err)
		}
		size := int64(raw.ByteSize())
		hdr.Tensors = append(hdr.Tensors, tensorMeta{
			Name:   name,
			DType:  dtype,
			Shape:  []int(raw.Shape()),
			Offset: offset,
			Size:   size,
		})
		checksum.Write(raw.Bytes())
		offset += size
	}
	hdr.Checksum = hex.EncodeToString(checksum.Sum(nil))

	headerJSON, err := json.Marshal(hdr)
	if err != nil {
		return fmt.Errorf("checkpoint: marshal header: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	defer file.Close()

	if _, err := file.WriteString(magicBytes); err != nil {
		return fmt.Errorf("checkpoint: write magic: %w", err)
	}
	if err := binary.Write(file, binary.LittleEndian, uint32(formatVersion)); err != nil {
		return fmt.Errorf("checkpoint: write version: %w", err)
	}
	if err := binary.Write(file, binary.LittleEndian, uint64(len(headerJSON))); err != nil {
		return fmt.Errorf("checkpoint: write header length: %w", err)
	}
	if _, err := file.Write(headerJSON); err != nil {
		return fmt.Errorf("checkpoint: write header: %w", err)
	}

	for _, name := range names {
		if _, err := file.Write(stateDict[name].Bytes()); err != nil {
			return fmt.Errorf("checkpoint: write tensor %s: %w", name, err)
		}
	}

	return file.Close()
}
