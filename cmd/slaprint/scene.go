package main

import (
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"seehuhn.de/go/geom/vec"

	"github.com/askiada/go-slaprint/pkg/geometry"
	"github.com/askiada/go-slaprint/pkg/pipeline/model"
	"github.com/askiada/go-slaprint/pkg/sla"
)

var errInvalidScene = errors.New("invalid scene")

// scene is the YAML description of the objects to print.
type scene struct {
	Objects []sceneObject `yaml:"objects"`
}

type sceneObject struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
	// STL is a path relative to the scene file.
	STL string `yaml:"stl"`
	// Box is the size of a box mesh standing on the platform, centred on the origin.
	Box           []float64       `yaml:"box"`
	LayerHeight   float64         `yaml:"layer_height"`
	SupportPoints []scenePoint    `yaml:"support_points"`
	Instances     []sceneInstance `yaml:"instances"`
}

type scenePoint struct {
	X          float64 `yaml:"x"`
	Y          float64 `yaml:"y"`
	Z          float64 `yaml:"z"`
	HeadRadius float64 `yaml:"head_radius"`
}

type sceneInstance struct {
	ID     string     `yaml:"id"`
	Offset [2]float64 `yaml:"offset"`
	// Rotation around Z, in degrees.
	Rotation float64 `yaml:"rotation"`
}

func loadScene(path string) (*model.Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to read scene %s", path)
	}
	var sc scene
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, errors.Wrapf(err, "unable to parse scene %s", path)
	}

	m := &model.Model{}
	for i, so := range sc.Objects {
		obj, err := so.modelObject(filepath.Dir(path), i)
		if err != nil {
			return nil, err
		}
		m.Objects = append(m.Objects, obj)
	}
	return m, nil
}

func (so sceneObject) modelObject(dir string, index int) (*model.ModelObject, error) {
	id := so.ID
	if id == "" {
		id = "object-" + strconv.Itoa(index)
	}
	obj := &model.ModelObject{ID: id, Name: so.Name, LayerHeight: so.LayerHeight}

	switch {
	case so.STL != "" && len(so.Box) > 0:
		return nil, errors.Wrapf(errInvalidScene, "object %s has both a stl file and a box", id)
	case so.STL != "":
		mesh, err := readSTLFile(filepath.Join(dir, so.STL))
		if err != nil {
			return nil, errors.Wrapf(err, "object %s", id)
		}
		obj.Mesh = mesh
	case len(so.Box) == 3:
		x, y, z := so.Box[0]/2, so.Box[1]/2, so.Box[2]
		obj.Mesh = geometry.NewBox(geometry.Vec3{X: -x, Y: -y}, geometry.Vec3{X: x, Y: y, Z: z})
	default:
		return nil, errors.Wrapf(errInvalidScene, "object %s needs a stl file or a box of 3 sizes", id)
	}

	for _, pt := range so.SupportPoints {
		obj.SupportPoints = append(obj.SupportPoints, sla.SupportPoint{
			Pos:        geometry.Vec3{X: pt.X, Y: pt.Y, Z: pt.Z},
			HeadRadius: pt.HeadRadius,
		})
	}

	for j, si := range so.Instances {
		instID := si.ID
		if instID == "" {
			instID = id + "-" + strconv.Itoa(j)
		}
		obj.Instances = append(obj.Instances, model.ModelInstance{
			ID:       instID,
			Offset:   vec.Vec2{X: si.Offset[0], Y: si.Offset[1]},
			Rotation: si.Rotation * math.Pi / 180,
		})
	}
	if len(obj.Instances) == 0 {
		obj.Instances = []model.ModelInstance{{ID: id + "-0"}}
	}
	return obj, nil
}

func readSTLFile(path string) (geometry.TriangleMesh, error) {
	f, err := os.Open(path)
	if err != nil {
		return geometry.TriangleMesh{}, errors.Wrapf(err, "unable to open %s", path)
	}
	defer f.Close()
	return geometry.ReadSTL(f)
}
