package encoding

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"fmt"

	"gridfall/internal/sim/tile"
)

// EncodeTiles encodes a row-major tile sequence into base64(varint pairs).
// The pairs are (tile_id, run_len) repeated. Terrain is dominated by long
// runs of air and stone, so this stays small for any realistic window.
func EncodeTiles(tiles []tile.Tile) string {
	var buf bytes.Buffer
	var tmp [binary.MaxVarintLen64]byte

	i := 0
	for i < len(tiles) {
		t := tiles[i]
		run := 1
		for j := i + 1; j < len(tiles) && tiles[j] == t; j++ {
			run++
		}

		n := binary.PutUvarint(tmp[:], uint64(t))
		buf.Write(tmp[:n])
		n = binary.PutUvarint(tmp[:], uint64(run))
		buf.Write(tmp[:n])

		i += run
	}

	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

// DecodeTiles reverses EncodeTiles. want is the expected tile count; any
// mismatch, unknown tile id, or truncated varint fails the whole decode.
func DecodeTiles(b64 string, want int) ([]tile.Tile, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, err
	}
	out := make([]tile.Tile, 0, want)
	for i := 0; i < len(raw); {
		id, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		run, n := binary.Uvarint(raw[i:])
		if n <= 0 {
			return nil, fmt.Errorf("bad varint at %d", i)
		}
		i += n
		t := tile.Tile(id)
		if uint64(t) != id || !t.Valid() {
			return nil, fmt.Errorf("unknown tile id %d", id)
		}
		if len(out)+int(run) > want {
			return nil, fmt.Errorf("run overflows expected length %d", want)
		}
		for k := 0; k < int(run); k++ {
			out = append(out, t)
		}
	}
	if len(out) != want {
		return nil, fmt.Errorf("decoded %d tiles, want %d", len(out), want)
	}
	return out, nil
}
