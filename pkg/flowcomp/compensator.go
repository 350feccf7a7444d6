package flowcomp

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrMisconfigured is wrapped by every validation error of the model.
var ErrMisconfigured = errors.New("small area infill compensation model is misconfigured")

// Role is the extrusion role of a line.
type Role int

const (
	RoleNone Role = iota
	RolePerimeter
	RoleExternalPerimeter
	RoleInternalInfill
	RoleSolidInfill
	RoleTopSolidInfill
	RoleBridgeInfill
	RoleSupportMaterial
)

var roleNames = map[Role]string{
	RoleNone:              "none",
	RolePerimeter:         "perimeter",
	RoleExternalPerimeter: "external-perimeter",
	RoleInternalInfill:    "internal-infill",
	RoleSolidInfill:       "solid-infill",
	RoleTopSolidInfill:    "top-solid-infill",
	RoleBridgeInfill:      "bridge-infill",
	RoleSupportMaterial:   "support-material",
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return "role(" + strconv.Itoa(int(r)) + ")"
}

// ParseRole returns the role with the given name.
func ParseRole(name string) (Role, error) {
	for r, n := range roleNames {
		if n == name {
			return r, nil
		}
	}
	return RoleNone, errors.Errorf("unknown extrusion role %q", name)
}

// Compensator adjusts extrusion amounts of short solid infill lines.
type Compensator struct {
	lengths []float64
	factors []float64
	spline  *spline
}

// New parses records of the form "length,factor" and validates the model.
func New(records []string) (*Compensator, error) {
	lengths, factors, err := parse(records)
	if err != nil {
		return nil, err
	}
	return NewFromPoints(lengths, factors)
}

// NewFromPoints validates the model points.
func NewFromPoints(lengths, factors []float64) (*Compensator, error) {
	if err := validate(lengths, factors); err != nil {
		return nil, err
	}
	c := &Compensator{
		lengths: append([]float64(nil), lengths...),
		factors: append([]float64(nil), factors...),
	}
	c.spline = newSpline(c.lengths, c.factors)
	return c, nil
}

// parse skips empty records and records holding a single length.
func parse(records []string) (lengths, factors []float64, err error) {
	for _, line := range records {
		if line == "" {
			continue
		}
		fields := strings.Split(line, ",")
		l, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
		if err != nil {
			return nil, nil, errors.Wrapf(ErrMisconfigured, "error parsing data point %q", line)
		}
		if len(fields) < 2 {
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
		if err != nil {
			return nil, nil, errors.Wrapf(ErrMisconfigured, "error parsing data point %q", line)
		}
		lengths = append(lengths, l)
		factors = append(factors, f)
	}
	return lengths, factors, nil
}

func validate(lengths, factors []float64) error {
	if len(lengths) == 0 {
		return errors.Wrap(ErrMisconfigured, "no lengths have been set")
	}
	if len(factors) == 0 {
		return errors.Wrap(ErrMisconfigured, "no compensation factors have been set")
	}
	if len(lengths) != len(factors) {
		return errors.Wrap(ErrMisconfigured, "different size of lengths and compensation factors")
	}
	if !nearlyEqual(lengths[0], 0) {
		return errors.Wrap(ErrMisconfigured, "first extrusion length must be 0")
	}
	for i := 1; i < len(lengths); i++ {
		if nearlyEqual(lengths[i], 0) {
			return errors.Wrap(ErrMisconfigured, "only the first extrusion length can be 0")
		}
		if lengths[i] <= lengths[i-1] {
			return errors.Wrap(ErrMisconfigured, "extrusion lengths must be in increasing order")
		}
	}
	if !nearlyEqual(factors[len(factors)-1], 1) {
		return errors.Wrap(ErrMisconfigured, "final compensation factor must be 1.0")
	}
	return nil
}

// nearlyEqual reports whether b is a or one of its floating point neighbours.
func nearlyEqual(a, b float64) bool {
	return math.Nextafter(a, math.Inf(-1)) <= b && math.Nextafter(a, math.Inf(1)) >= b
}

// MaxLength is the last configured length; longer lines are not compensated.
func (c *Compensator) MaxLength() float64 {
	return c.lengths[len(c.lengths)-1]
}

// Factor returns the flow multiplier for a line of the given length.
func (c *Compensator) Factor(length float64) float64 {
	if length == 0 || length > c.MaxLength() {
		return 1
	}
	return c.spline.at(length)
}

// Modify returns the adjusted extrusion amount delta for a line of the given length.
// Only solid and top solid infill are compensated.
func (c *Compensator) Modify(length, delta float64, role Role) float64 {
	if role == RoleSolidInfill || role == RoleTopSolidInfill {
		return delta * c.Factor(length)
	}
	return delta
}

// spline is a natural cubic spline through strictly increasing knots.
type spline struct {
	x, y []float64
	m    []float64 // second derivatives at the knots
}

func newSpline(x, y []float64) *spline {
	n := len(x)
	s := &spline{x: x, y: y, m: make([]float64, n)}
	if n < 3 {
		return s
	}
	// Thomas algorithm on the interior knots, m[0] = m[n-1] = 0.
	sub := make([]float64, n)
	diag := make([]float64, n)
	rhs := make([]float64, n)
	for i := 1; i < n-1; i++ {
		h0, h1 := x[i]-x[i-1], x[i+1]-x[i]
		sub[i] = h0 / 6
		diag[i] = (h0 + h1) / 3
		rhs[i] = (y[i+1]-y[i])/h1 - (y[i]-y[i-1])/h0
	}
	for i := 2; i < n-1; i++ {
		w := sub[i] / diag[i-1]
		diag[i] -= w * (x[i] - x[i-1]) / 6
		rhs[i] -= w * rhs[i-1]
	}
	for i := n - 2; i >= 1; i-- {
		next := 0.0
		if i+1 < n-1 {
			next = (x[i+1] - x[i]) / 6 * s.m[i+1]
		}
		s.m[i] = (rhs[i] - next) / diag[i]
	}
	return s
}

func (s *spline) at(v float64) float64 {
	n := len(s.x)
	if n == 1 {
		return s.y[0]
	}
	i := sort.SearchFloat64s(s.x, v) - 1
	i = max(0, min(i, n-2))
	h := s.x[i+1] - s.x[i]
	a := (s.x[i+1] - v) / h
	b := (v - s.x[i]) / h
	return a*s.y[i] + b*s.y[i+1] + ((a*a*a-a)*s.m[i]+(b*b*b-b)*s.m[i+1])*h*h/6
}
