package layoutcache

import (
	"encoding/json"
	"fmt"

	"github.com/golang/snappy"
)

// encodeEntry serializes an entry as snappy-compressed JSON. JSON floats
// use the shortest representation that parses back to the same bits.
func encodeEntry(e *Entry) ([]byte, error) {
	data, err := json.Marshal(e)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal layout entry: %w", err)
	}
	return snappy.Encode(nil, data), nil
}

func decodeEntry(compressed []byte) (*Entry, error) {
	data, err := snappy.Decode(nil, compressed)
	if err != nil {
		return nil, fmt.Errorf("failed to decompress layout entry: %w", err)
	}
	var e Entry
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("failed to unmarshal layout entry: %w", err)
	}
	return &e, nil
}
