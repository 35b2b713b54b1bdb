package codec

import (
	"encoding/binary"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/klauspost/compress/zstd"
)

// Wire format of a compressed buffer: 4-byte magic, uint32 little
// endian uncompressed size, zstd-compressed CBOR payload. The size
// header is validated against the actual decompressed length; a
// client-declared length is never trusted on its own.
var magic = [4]byte{'D', 'Y', 'N', '1'}

const (
	headerSize = 8

	// maxPayloadSize bounds the decompressed size a peer may declare.
	// A full test run is a few MB of samples; 64 MB leaves headroom
	// without letting a hostile header allocate arbitrary memory.
	maxPayloadSize = 64 << 20
)

// DecodeError is returned for any malformed byte stream handed to the
// decode path. The cause is human-readable and safe to surface.
type DecodeError struct {
	Cause string
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode failed: %s: %v", e.Cause, e.Err)
	}
	return "decode failed: " + e.Cause
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(cause string, err error) *DecodeError {
	return &DecodeError{Cause: cause, Err: err}
}

var (
	zstdEncoder, _ = zstd.NewWriter(nil)
	zstdDecoder, _ = zstd.NewReader(nil, zstd.WithDecoderMaxMemory(maxPayloadSize))
)

// Compress CBOR-encodes v and wraps it in the compressed wire format.
func Compress(v interface{}) ([]byte, error) {
	payload, err := cbor.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("cbor encode: %w", err)
	}
	if len(payload) > maxPayloadSize {
		return nil, fmt.Errorf("payload too large: %d bytes", len(payload))
	}

	out := make([]byte, headerSize, headerSize+len(payload)/2)
	copy(out[:4], magic[:])
	binary.LittleEndian.PutUint32(out[4:8], uint32(len(payload)))
	return zstdEncoder.EncodeAll(payload, out), nil
}

// decompressPayload validates the header and returns the raw CBOR
// payload. All failure paths produce a *DecodeError.
func decompressPayload(data []byte) ([]byte, error) {
	if len(data) < headerSize {
		return nil, decodeErr(fmt.Sprintf("buffer too short (%d bytes)", len(data)), nil)
	}
	if [4]byte(data[:4]) != magic {
		return nil, decodeErr("bad magic, not a dyno buffer", nil)
	}
	declared := binary.LittleEndian.Uint32(data[4:8])
	if declared > maxPayloadSize {
		return nil, decodeErr(fmt.Sprintf("declared size %d exceeds limit", declared), nil)
	}

	payload, err := zstdDecoder.DecodeAll(data[headerSize:], make([]byte, 0, declared))
	if err != nil {
		return nil, decodeErr("zstd decompression", err)
	}
	if uint32(len(payload)) != declared {
		return nil, decodeErr(fmt.Sprintf("size mismatch: header declares %d, got %d", declared, len(payload)), nil)
	}
	return payload, nil
}

// DecodeBuffer decompresses a telemetry buffer. The returned value is
// freshly allocated; on error nothing of the caller's is touched.
func DecodeBuffer(data []byte) (*Buffer, error) {
	payload, err := decompressPayload(data)
	if err != nil {
		return nil, err
	}
	var buf Buffer
	if err := cbor.Unmarshal(payload, &buf); err != nil {
		return nil, decodeErr("cbor payload is not a telemetry buffer", err)
	}
	return &buf, nil
}

// DecodeTestInfo decompresses the info part of an upload.
func DecodeTestInfo(data []byte) (*TestInfo, error) {
	payload, err := decompressPayload(data)
	if err != nil {
		return nil, err
	}
	var info TestInfo
	if err := cbor.Unmarshal(payload, &info); err != nil {
		return nil, decodeErr("cbor payload is not a test info", err)
	}
	return &info, nil
}
