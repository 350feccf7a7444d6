package pipeline

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/askiada/go-slaprint/pkg/pipeline/model"
)

// Process runs every pending and enabled step: the object steps of each object in turn, then
// the print steps. It returns ErrCanceled when Cancel was called or ctx is done.
func (p *Print) Process(ctx context.Context) (err error) {
	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	p.mu.Lock()
	p.canceled = false
	p.cancelRun = cancel
	objects := p.objects
	cfg := p.cfg
	p.mu.Unlock()

	defer func() {
		p.mu.Lock()
		p.cancelRun = nil
		p.mu.Unlock()
		err = p.finishRun(err)
	}()

	prog := newProgress(p.status, len(objects))
	for i, obj := range objects {
		for _, step := range ObjectSteps {
			lo, hi := prog.objectRange(i, step)
			info := &model.StepInfo{Type: model.ObjectStepType, Name: step.String(), Label: step.Label(), ObjectID: obj.ID()}
			body := p.objectStage(obj, step, cfg, prog, lo, hi)
			err := runStep(runCtx, p, &obj.steps, step, info, prog, lo, hi, body)
			if err != nil {
				return err
			}
		}
	}

	for _, step := range PrintSteps {
		lo, hi := prog.printRange(step)
		info := &model.StepInfo{Type: model.PrintStepType, Name: step.String(), Label: step.Label()}
		body := p.printStage(objects, step, cfg)
		err := runStep(runCtx, p, &p.steps, step, info, prog, lo, hi, body)
		if err != nil {
			return err
		}
	}

	prog.report(100, doneText)
	return nil
}

// runStep runs body when step is enabled and not done yet. The cancel flag is checked
// before the step starts and again once body returned: a cancelled step is never marked done.
func runStep[S ~int](
	ctx context.Context,
	p *Print,
	table *stepTable[S],
	step S,
	info *model.StepInfo,
	prog *progress,
	lo, hi int,
	body func(context.Context) error,
) error {
	p.mu.Lock()
	if p.stopped(ctx) {
		p.mu.Unlock()
		return ErrCanceled
	}
	if !table.start(step) {
		p.mu.Unlock()
		return nil
	}
	p.mu.Unlock()

	for _, opt := range p.opts {
		if err := opt.OnStepStart(info); err != nil {
			return errors.Wrapf(err, "unable to start step %s", info.Name)
		}
	}
	p.logger.Debug("step started", "object", info.ObjectID, "step", info.Name)
	prog.report(lo, info.Label)

	start := time.Now()
	err := body(ctx)
	duration := time.Since(start)

	p.mu.Lock()
	stopped := p.stopped(ctx)
	if err == nil && !stopped {
		table.done(step)
	}
	p.mu.Unlock()

	switch {
	case stopped:
		return ErrCanceled
	case err != nil:
		return errors.Wrapf(err, "unable to run step %s", info.Name)
	}

	p.logger.Debug("step done", "object", info.ObjectID, "step", info.Name, "duration", duration)
	prog.report(hi, info.Label)
	for _, opt := range p.opts {
		if err := opt.OnStepDone(info, duration); err != nil {
			return errors.Wrapf(err, "unable to finish step %s", info.Name)
		}
	}
	return nil
}

func (p *Print) finishRun(runErr error) error {
	switch {
	case runErr == nil:
		p.logger.Debug("processing done")
	case IsCanceled(runErr):
		p.logger.Info("processing canceled")
		runErr = ErrCanceled
	default:
		p.logger.Error("processing failed", "error", runErr)
	}

	for _, opt := range p.opts {
		if err := opt.Finish(runErr); err != nil && runErr == nil {
			return errors.Wrap(err, "unable to finish pipeline option")
		}
	}
	return runErr
}
