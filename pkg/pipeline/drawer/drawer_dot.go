package drawer

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"text/template"
	"time"

	"github.com/dominikbraun/graph"
	"github.com/pkg/errors"
	"gopkg.in/go-playground/colors.v1" //nolint

	"github.com/askiada/go-slaprint/pkg/pipeline/measure"
)

// Step statuses understood by SetStatus.
const (
	StatusPending  = "pending"
	StatusStarted  = "started"
	StatusDone     = "done"
	StatusFailed   = "failed"
	StatusCanceled = "canceled"
)

var statusColours = map[string][3]uint8{
	StatusPending:  {200, 200, 200},
	StatusStarted:  {255, 165, 0},
	StatusDone:     {46, 160, 67},
	StatusFailed:   {220, 20, 60},
	StatusCanceled: {70, 130, 180},
}

// DOTDrawer writes the step graph in the Graphviz DOT format.
type DOTDrawer struct {
	graph   graph.Graph[string, string]
	steps   map[string]struct{}
	out     io.Writer
	options []DOTOption
}

// NewDOTDrawer creates a new DOT drawer writing to out. options set graph level attributes,
// see GraphAttribute.
func NewDOTDrawer(out io.Writer, options ...DOTOption) *DOTDrawer {
	return &DOTDrawer{
		out:     out,
		graph:   graph.New(graph.StringHash, graph.Directed()),
		steps:   make(map[string]struct{}),
		options: options,
	}
}

// AddStep adds a step to the graph. Adding a step twice is a no-op.
func (d *DOTDrawer) AddStep(name string) error {
	if _, ok := d.steps[name]; ok {
		return nil
	}
	err := d.graph.AddVertex(name, graph.VertexAttribute("style", "filled"))
	if err != nil {
		return errors.Wrap(err, "unable to add vertex")
	}

	d.steps[name] = struct{}{}

	return nil
}

// AddLink adds a link between parent and children steps.
func (d *DOTDrawer) AddLink(parentName, childName string) error {
	err := d.graph.AddEdge(parentName, childName)
	if err != nil {
		return errors.Wrapf(err, "unable to add edge from %s to %s", parentName, childName)
	}

	return nil
}

// SetStatus fills the step with the colour of status.
func (d *DOTDrawer) SetStatus(stepName, status string) error {
	rgb, ok := statusColours[status]
	if !ok {
		return errors.Errorf("unknown status %q", status)
	}
	colour, err := colors.RGB(rgb[0], rgb[1], rgb[2])
	if err != nil {
		return errors.Wrap(err, "unable to get colour")
	}
	_, properties, err := d.graph.VertexWithProperties(stepName)
	if err != nil {
		return errors.Wrapf(err, "unable to get properties of %s", stepName)
	}

	properties.Attributes["fillcolor"] = colour.ToHEX().String()

	return nil
}

const maxRGB = 240

// AddMeasure labels each step with its average duration and colours its border from blue
// for the fastest step to red for the slowest one.
func (d *DOTDrawer) AddMeasure(msr measure.Measure) error {
	avgs := make(map[string]time.Duration)
	var minValue, maxValue time.Duration
	first := true
	for name, mt := range msr.AllMetrics() {
		if _, ok := d.steps[name]; !ok || mt.Count() == 0 {
			continue
		}
		avg := mt.AVGDuration()
		avgs[name] = avg
		if first || avg < minValue {
			minValue = avg
		}
		if first || avg > maxValue {
			maxValue = avg
		}
		first = false
	}

	for name, avg := range avgs {
		fraction := 1.0
		if maxValue > minValue {
			fraction = float64(avg-minValue) / float64(maxValue-minValue)
		}

		red := maxRGB * fraction
		blue := maxRGB - red

		colour, err := colors.RGB(uint8(red), 0, uint8(blue)) //nolint
		if err != nil {
			return errors.Wrap(err, "unable to get colour")
		}

		_, properties, err := d.graph.VertexWithProperties(name)
		if err != nil {
			return errors.Wrap(err, "unable to get vertex properties")
		}
		properties.Attributes["color"] = colour.ToHEX().String()
		properties.Attributes["xlabel"] = avg.String()
	}

	return nil
}

// Draw writes the graph to the output.
func (d *DOTDrawer) Draw() error {
	err := dot(d.graph, d.out, d.options...)
	if err != nil {
		return errors.Wrap(err, "unable to write dot graph")
	}

	return nil
}

//nolint:lll //this is a template
const dotTemplate = `strict {{.GraphType}} {
{{- range $k, $v := .Attributes}}
	{{$k}}="{{$v}}";
{{- end}}
{{- range $s := .Statements}}
	"{{.Source}}" {{if .Target}}{{$.EdgeOperator}} "{{.Target}}" [ {{range $k, $v := .EdgeAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.EdgeWeight}} ]{{else}}[ {{range $k, $v := .HTMLAttributes}}{{$k}}={{$v}}, {{end}}{{range $k, $v := .SourceAttributes}}{{$k}}="{{$v}}", {{end}}weight={{.SourceWeight}} ]{{end}};
{{- end}}
}
`

type description struct {
	GraphType    string
	Attributes   map[string]string
	EdgeOperator string
	Statements   []statement
}

type statement struct {
	Source           string
	Target           string
	SourceAttributes map[string]string
	HTMLAttributes   map[string]string
	EdgeAttributes   map[string]string
	SourceWeight     int
	EdgeWeight       int
}

func dot(g graph.Graph[string, string], wrt io.Writer, options ...DOTOption) error {
	desc, err := generateDOT(g, options...)
	if err != nil {
		return errors.Wrap(err, "failed to generate DOT description")
	}

	return renderDOT(wrt, desc)
}

// DOTOption changes the graph level description of a DOT output.
type DOTOption func(*description)

// GraphAttribute sets a graph level attribute, e.g. rankdir=LR.
func GraphAttribute(key, value string) DOTOption {
	return func(d *description) {
		d.Attributes[key] = value
	}
}

// generateDOT lists vertices and edges in name order so the output is stable.
func generateDOT(gra graph.Graph[string, string], options ...DOTOption) (description, error) {
	desc := description{
		GraphType:    "graph",
		Attributes:   make(map[string]string),
		EdgeOperator: "--",
		Statements:   make([]statement, 0),
	}

	for _, option := range options {
		option(&desc)
	}

	if gra.Traits().IsDirected {
		desc.GraphType = "digraph"
		desc.EdgeOperator = "->"
	}

	adjacencyMap, err := gra.AdjacencyMap()
	if err != nil {
		return desc, errors.Wrap(err, "unable to get adjacency map")
	}

	vertices := make([]string, 0, len(adjacencyMap))
	for v := range adjacencyMap {
		vertices = append(vertices, v)
	}
	slices.Sort(vertices)

	for _, vertex := range vertices {
		_, sourceProperties, err := gra.VertexWithProperties(vertex)
		if err != nil {
			return desc, errors.Wrap(err, "unable to get vertex properties")
		}

		attributes := make(map[string]string, len(sourceProperties.Attributes))
		htmlAttributes := make(map[string]string)
		for k, v := range sourceProperties.Attributes {
			if k == "xlabel" {
				htmlAttributes["label"] = fmt.Sprintf(`<%s <BR /> <FONT POINT-SIZE="12">%s</FONT>>`, vertex, v)
				continue
			}
			attributes[k] = v
		}

		desc.Statements = append(desc.Statements, statement{
			Source:           vertex,
			SourceWeight:     sourceProperties.Weight,
			SourceAttributes: attributes,
			HTMLAttributes:   htmlAttributes,
		})

		edges := make([]graph.Edge[string], 0, len(adjacencyMap[vertex]))
		for _, edge := range adjacencyMap[vertex] {
			edges = append(edges, edge)
		}
		slices.SortFunc(edges, func(a, b graph.Edge[string]) int { return cmp.Compare(a.Target, b.Target) })
		for _, edge := range edges {
			desc.Statements = append(desc.Statements, statement{
				Source:         vertex,
				Target:         edge.Target,
				EdgeWeight:     edge.Properties.Weight,
				EdgeAttributes: edge.Properties.Attributes,
			})
		}
	}

	return desc, nil
}

func renderDOT(wrt io.Writer, desc description) error {
	tpl, err := template.New("dotTemplate").Parse(dotTemplate)
	if err != nil {
		return errors.Wrap(err, "failed to parse template")
	}

	err = tpl.Execute(wrt, desc)
	if err != nil {
		return errors.Wrap(err, "unable to execute template")
	}

	return nil
}

var _ Drawer = (*DOTDrawer)(nil)
