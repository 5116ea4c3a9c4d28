package pdf

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
)

// maxDecodedSize bounds the output of a single stream (256 MB).
const maxDecodedSize = 256 << 20

// imageFilters are left encoded; their output is pixel data nobody here reads.
var imageFilters = map[string]bool{
	"DCTDecode": true, "DCT": true,
	"JPXDecode": true, "JBIG2Decode": true, "CCITTFaxDecode": true, "CCF": true,
}

// Decode applies the stream's filter chain. Streams ending in an image
// filter are returned with that filter still applied.
func Decode(dict Dict, data []byte) ([]byte, error) {
	filters, _ := dict.Array("Filter")
	parms, _ := dict.Array("DecodeParms")

	for i, f := range filters {
		if f.Kind != Name {
			return nil, fmt.Errorf("filter %d is not a name", i)
		}
		var p Dict
		if i < len(parms) && parms[i].Kind == Dictionary {
			p = parms[i].Dict
		}
		switch {
		case f.Name == "FlateDecode" || f.Name == "Fl":
			out, err := inflate(data)
			if err != nil {
				return nil, fmt.Errorf("FlateDecode: %w", err)
			}
			if data, err = unpredict(p, out); err != nil {
				return nil, fmt.Errorf("FlateDecode: %w", err)
			}
		case imageFilters[f.Name]:
			return data, nil
		default:
			return nil, fmt.Errorf("unsupported filter %s", f.Name)
		}
	}
	return data, nil
}

func inflate(data []byte) ([]byte, error) {
	zr, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer zr.Close()
	out, err := io.ReadAll(io.LimitReader(zr, maxDecodedSize+1))
	if len(out) > maxDecodedSize {
		return nil, fmt.Errorf("stream exceeds %d bytes", maxDecodedSize)
	}
	// A truncated stream still yields what was decoded.
	if err != nil && len(out) == 0 {
		return nil, err
	}
	return out, nil
}

// unpredict reverses a TIFF (2) or PNG (10-15) predictor.
func unpredict(p Dict, data []byte) ([]byte, error) {
	predictor, _ := p.Int("Predictor")
	if predictor <= 1 {
		return data, nil
	}
	colors := intOr(p, "Colors", 1)
	bpc := intOr(p, "BitsPerComponent", 8)
	columns := intOr(p, "Columns", 1)
	bpp := max(1, (colors*bpc+7)/8)
	rowLen := (colors*bpc*columns + 7) / 8

	if predictor == 2 {
		if bpc != 8 {
			return nil, fmt.Errorf("TIFF predictor with %d bits per component", bpc)
		}
		out := append([]byte(nil), data...)
		for row := 0; row+rowLen <= len(out); row += rowLen {
			for i := bpp; i < rowLen; i++ {
				out[row+i] += out[row+i-bpp]
			}
		}
		return out, nil
	}
	if predictor < 10 {
		return nil, fmt.Errorf("unknown predictor %d", predictor)
	}

	var (
		out   = make([]byte, 0, len(data))
		prior = make([]byte, rowLen)
	)
	for pos := 0; pos+1+rowLen <= len(data); pos += 1 + rowLen {
		filter := data[pos]
		row := append([]byte(nil), data[pos+1:pos+1+rowLen]...)
		for i := range row {
			var left, upLeft byte
			if i >= bpp {
				left, upLeft = row[i-bpp], prior[i-bpp]
			}
			up := prior[i]
			switch filter {
			case 0:
			case 1:
				row[i] += left
			case 2:
				row[i] += up
			case 3:
				row[i] += byte((int(left) + int(up)) / 2)
			case 4:
				row[i] += paeth(left, up, upLeft)
			default:
				return nil, fmt.Errorf("unknown PNG row filter %d", filter)
			}
		}
		out = append(out, row...)
		prior = row
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := absInt(p-int(a)), absInt(p-int(b)), absInt(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func intOr(d Dict, key string, def int) int {
	if v, ok := d.Int(key); ok && v > 0 {
		return int(v)
	}
	return def
}
