package geometry

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalidSTL is returned when the input is neither binary nor ASCII STL.
var ErrInvalidSTL = errors.New("invalid stl data")

const (
	stlHeaderSize = 80
	stlFacetSize  = 50
)

// ReadSTL reads a binary or ASCII STL stream.
func ReadSTL(r io.Reader) (TriangleMesh, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return TriangleMesh{}, errors.Wrap(err, "unable to read stl")
	}
	if len(data) >= stlHeaderSize+4 {
		n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
		if len(data) == stlHeaderSize+4+int(n)*stlFacetSize {
			return readBinarySTL(data[stlHeaderSize+4:], int(n)), nil
		}
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid")) {
		return readASCIISTL(data)
	}
	return TriangleMesh{}, ErrInvalidSTL
}

func readBinarySTL(data []byte, n int) TriangleMesh {
	mesh := TriangleMesh{Facets: make([]Facet, n)}
	f32 := func(b []byte) float64 {
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
	for i := range n {
		// skip the 12 byte normal
		rec := data[i*stlFacetSize+12:]
		for v := range 3 {
			o := v * 12
			mesh.Facets[i][v] = Vec3{f32(rec[o:]), f32(rec[o+4:]), f32(rec[o+8:])}
		}
	}
	return mesh
}

func readASCIISTL(data []byte) (TriangleMesh, error) {
	var (
		mesh  TriangleMesh
		facet Facet
		nv    int
	)
	sc := bufio.NewScanner(bytes.NewReader(data))
	line := 0
	for sc.Scan() {
		line++
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "facet":
			nv = 0
		case "vertex":
			if len(fields) != 4 || nv >= 3 {
				return TriangleMesh{}, errors.Wrapf(ErrInvalidSTL, "line %d: malformed vertex", line)
			}
			for k := range 3 {
				c, err := strconv.ParseFloat(fields[k+1], 64)
				if err != nil {
					return TriangleMesh{}, errors.Wrapf(ErrInvalidSTL, "line %d: %v", line, err)
				}
				switch k {
				case 0:
					facet[nv].X = c
				case 1:
					facet[nv].Y = c
				case 2:
					facet[nv].Z = c
				}
			}
			nv++
		case "endfacet":
			if nv != 3 {
				return TriangleMesh{}, errors.Wrapf(ErrInvalidSTL, "line %d: facet with %d vertices", line, nv)
			}
			mesh.Facets = append(mesh.Facets, facet)
		}
	}
	if err := sc.Err(); err != nil {
		return TriangleMesh{}, errors.Wrap(err, "unable to scan stl")
	}
	return mesh, nil
}
