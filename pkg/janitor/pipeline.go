package janitor

import (
	"context"

	"github.com/pkg/errors"
)

// Transform is a pure step over a Frame: implementations return a new Frame
// and leave their input unchanged.
type Transform interface {
	Name() string
	Apply(ctx context.Context, f *Frame) (*Frame, error)
}

// Pipeline composes a sequence of Transforms.
type Pipeline struct {
	name  string
	steps []Transform
}

func NewPipeline(name string) *Pipeline { return &Pipeline{name: name} }

func (p *Pipeline) Name() string { return p.name }

func (p *Pipeline) Add(t Transform) *Pipeline {
	p.steps = append(p.steps, t)
	return p
}

// Steps returns the step names in execution order.
func (p *Pipeline) Steps() []string {
	out := make([]string, len(p.steps))
	for i, t := range p.steps {
		out[i] = t.Name()
	}
	return out
}

// Run applies every step in order. The first failing step aborts the run and
// its error is wrapped with the pipeline and step name.
func (p *Pipeline) Run(ctx context.Context, f *Frame) (*Frame, error) {
	var err error
	cur := f
	for _, t := range p.steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cur, err = t.Apply(ctx, cur)
		if err != nil {
			return nil, errors.Wrapf(err, "%s: %s", p.name, t.Name())
		}
	}
	return cur, nil
}

// Apply lets a Pipeline be nested as a single step of another Pipeline.
func (p *Pipeline) Apply(ctx context.Context, f *Frame) (*Frame, error) { return p.Run(ctx, f) }
