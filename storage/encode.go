package storage

import (
	"encoding/json"
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/vocdoni/maci-domainobjs/log"
)

// RecordEncoding selects the format records are stored in.
type RecordEncoding int

const (
	// RecordEncodingCBOR is deterministic CBOR, the default.
	RecordEncodingCBOR RecordEncoding = iota
	// RecordEncodingJSON is plain JSON, handy when inspecting a database.
	RecordEncodingJSON
)

var cborEncMode cbor.EncMode

func init() {
	var err error
	if cborEncMode, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		panic(err)
	}
}

// EncodeRecord encodes a record with the given format, CBOR if none.
func EncodeRecord(a any, encoding ...RecordEncoding) ([]byte, error) {
	if len(encoding) == 0 || encoding[0] == RecordEncodingCBOR {
		return cborEncMode.Marshal(a)
	}
	if encoding[0] != RecordEncodingJSON {
		return nil, fmt.Errorf("unknown record encoding: %d", encoding[0])
	}
	res, err := json.Marshal(a)
	if err != nil {
		log.Warnw("falling back to CBOR encoding due to JSON encoding failure", "error", err)
		return cborEncMode.Marshal(a)
	}
	return res, nil
}

// DecodeRecord decodes data produced by EncodeRecord into out.
func DecodeRecord(data []byte, out any, encoding ...RecordEncoding) error {
	if len(encoding) == 0 || encoding[0] == RecordEncodingCBOR {
		return cbor.Unmarshal(data, out)
	}
	if encoding[0] != RecordEncodingJSON {
		return fmt.Errorf("unknown record encoding: %d", encoding[0])
	}
	if err := json.Unmarshal(data, out); err != nil {
		log.Warnw("falling back to CBOR decoding due to JSON decoding failure", "error", err)
		return cbor.Unmarshal(data, out)
	}
	return nil
}
