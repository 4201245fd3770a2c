package checkpoint

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/born-ml/shellnet/internal/tensor"
)

// Load reads a state dictionary from path, verifying the format version
// and the data checksum. It returns the tensors and the metadata stored
// alongside them.
func Load(path string) (map[string]*tensor.RawTensor, map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("checkpoint: %w", err)
	}
	defer file.Close()

	magic := make([]byte, len(magicBytes))
	if _, err := io.ReadFull(file, magic); err != nil {
		return nil, nil, fmt.Errorf("checkpoint: read magic: %w", err)
	}
	if string(magic) != magicBytes {
		return nil, nil, fmt.Errorf("checkpoint: not a checkpoint file (magic %q)", magic)
	}

	var version uint32
	if err := binary.Read(file, binary.LittleEndian, &version); err != nil {
		return nil, nil, fmt.Errorf("checkpoint: read version: %w", err)
	}
	if version != formatVersion {
		return nil, nil, fmt.Errorf("checkpoint: unsupported format version %d", version)
	}

	var headerLen uint64
	if err := binary.Read(file, binary.LittleEndian, &headerLen); err != nil {
		return nil, nil, fmt.Errorf("checkpoint: read header length: %w", err)
	}

	headerJSON := make([]byte, headerLen)
	if _, err := io.ReadFull(file, headerJSON); err != nil {
		return nil, nil, fmt.Errorf("checkpoint: read header: %w", err)
	}
	var hdr header
	if err := json.Unmarshal(headerJSON, &hdr); err != nil {
		return nil, nil, fmt.Errorf("checkpoint: parse header: %w", err)
	}

	stateDict := make(map[string]*tensor.RawTensor, len(hdr.Tensors))
	checksum := sha256.New()
	for _, meta := range hdr.Tensors {
		dtype, err := stringToDtype(meta.DType)
		if err != nil {
			return nil, nil, fmt.Errorf("checkpoint: tensor %s: %w", meta.Name, err)
		}
		raw, err := tensor.NewRaw(tensor.Shape(meta.Shape), dtype)
		if err != nil {
			return nil, nil, fmt.Errorf("checkpoint: tensor %s: %w", meta.Name, err)
		}
		if int64(raw.ByteSize()) != meta.Size {
			return nil, nil, fmt.Errorf("checkpoint: tensor %s: size %d does not match shape %v", meta.Name, meta.Size, meta.Shape)
		}
		if _, err := io.ReadFull(file, raw.Bytes()); err != nil {
			return nil, nil, fmt.Errorf("checkpoint: read tensor %s: %w", meta.Name, err)
		}
		checksum.Write(raw.Bytes())
		stateDict[meta.Name] = raw
	}

	if sum := hex.EncodeToString(checksum.Sum(nil)); sum != hdr.Checksum {
		return nil, nil, fmt.Errorf("checkpoint: checksum mismatch: file corrupt")
	}

	return stateDict, hdr.Metadata, nil
}
