// Package samples encodes and decodes job result payloads. The
// platform serves measurement samples as a binary numpy array, one
// row per shot.
package samples

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/sbinet/npyio"
)

// Decode parses a numpy array payload into per-shot sample rows.
// Rank-2 arrays map one row per shot; rank-1 arrays become a single
// row. Integer dtypes are widened to int64.
func Decode(payload []byte) ([][]int64, error) {
	r, err := npyio.NewReader(bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("error parsing sample payload: %w", err)
	}

	if r.Header.Descr.Fortran {
		return nil, fmt.Errorf("unsupported sample payload: fortran order")
	}

	rows, cols, err := dims(r.Header.Descr.Shape)
	if err != nil {
		return nil, err
	}

	switch dt := r.Header.Descr.Type; dt {
	case "<i8":
		return readRows[int64](r, rows, cols)
	case "<i4":
		return readRows[int32](r, rows, cols)
	case "<i2":
		return readRows[int16](r, rows, cols)
	case "|i1":
		return readRows[int8](r, rows, cols)
	case "|u1":
		return readRows[uint8](r, rows, cols)
	case "<u2":
		return readRows[uint16](r, rows, cols)
	case "<u4":
		return readRows[uint32](r, rows, cols)
	default:
		return nil, fmt.Errorf("unsupported sample dtype %q", dt)
	}
}

// Encode renders sample rows as a little-endian int64 numpy array,
// the payload format the platform serves for job results.
func Encode(rows [][]int64) ([]byte, error) {
	nrows := len(rows)
	ncols := 0
	if nrows > 0 {
		ncols = len(rows[0])
	}
	for i, row := range rows {
		if len(row) != ncols {
			return nil, fmt.Errorf("ragged sample rows: row %d has %d values, want %d", i, len(row), ncols)
		}
	}

	var buf bytes.Buffer
	writeHeader(&buf, nrows, ncols)
	for _, row := range rows {
		for _, v := range row {
			if err := binary.Write(&buf, binary.LittleEndian, v); err != nil {
				return nil, fmt.Errorf("error encoding sample payload: %w", err)
			}
		}
	}
	return buf.Bytes(), nil
}

func dims(shape []int) (rows, cols int, err error) {
	switch len(shape) {
	case 1:
		return 1, shape[0], nil
	case 2:
		return shape[0], shape[1], nil
	default:
		return 0, 0, fmt.Errorf("unsupported sample array of rank %d", len(shape))
	}
}

func readRows[T int8 | int16 | int32 | int64 | uint8 | uint16 | uint32](r *npyio.Reader, rows, cols int) ([][]int64, error) {
	var flat []T
	if err := r.Read(&flat); err != nil {
		return nil, fmt.Errorf("error reading sample payload: %w", err)
	}
	if len(flat) != rows*cols {
		return nil, fmt.Errorf("sample payload has %d values, want %d", len(flat), rows*cols)
	}

	out := make([][]int64, rows)
	for i := range out {
		row := make([]int64, cols)
		for j := range row {
			row[j] = int64(flat[i*cols+j])
		}
		out[i] = row
	}
	return out, nil
}

// writeHeader emits the npy 1.0 preamble. The full preamble (magic,
// version, length field, header text) is space-padded to a multiple of
// 64 bytes and terminated with a newline.
func writeHeader(buf *bytes.Buffer, rows, cols int) {
	header := fmt.Sprintf("{'descr': '<i8', 'fortran_order': False, 'shape': (%d, %d), }", rows, cols)

	preamble := len(npyio.Magic) + 2 + 2 + len(header) + 1
	if rem := preamble % 64; rem != 0 {
		header += strings.Repeat(" ", 64-rem)
	}
	header += "\n"

	buf.Write(npyio.Magic[:])
	buf.Write([]byte{1, 0})
	_ = binary.Write(buf, binary.LittleEndian, uint16(len(header)))
	buf.WriteString(header)
}
