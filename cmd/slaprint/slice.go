package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/askiada/go-slaprint/internal/metrics"
	"github.com/askiada/go-slaprint/pkg/pipeline"
	"github.com/askiada/go-slaprint/pkg/pipeline/drawer"
	"github.com/askiada/go-slaprint/pkg/pipeline/measure"
	"github.com/askiada/go-slaprint/pkg/pipeline/model"
)

type sliceOptions struct {
	*rootOptions
	outDir     string
	metricsOut string
	graphOut   string
}

func newSliceCmd(root *rootOptions) *cobra.Command {
	opts := &sliceOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "slice <scene.yaml>",
		Short: "Slice a scene and write its layers",
		Long: `Loads the objects of a scene, generates their supports, rasterizes every layer
and writes one PNG per layer with a manifest.yaml describing heights and exposure times.
An interrupt stops the processing without writing anything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runSlice(ctx, opts, args[0])
		},
	}
	cmd.Flags().StringVarP(&opts.outDir, "out", "o", "layers", "output directory")
	cmd.Flags().StringVar(&opts.metricsOut, "metrics-out", "", "write Prometheus metrics of the run to this file")
	cmd.Flags().StringVar(&opts.graphOut, "graph-out", "", "write the step graph of the run, in DOT, to this file")
	return cmd
}

func runSlice(ctx context.Context, opts *sliceOptions, scenePath string) error {
	logger, err := opts.logger()
	if err != nil {
		return err
	}
	cfg, err := opts.config()
	if err != nil {
		return err
	}
	m, err := loadScene(scenePath)
	if err != nil {
		return err
	}

	var hooks []model.PipelineOption
	reg := prometheus.NewRegistry()
	if opts.metricsOut != "" {
		hooks = append(hooks, metrics.NewCollector(reg))
	}
	if opts.graphOut != "" {
		f, err := os.Create(opts.graphOut)
		if err != nil {
			return errors.Wrapf(err, "unable to create %s", opts.graphOut)
		}
		defer f.Close()
		steps, err := pipeline.StepGraph()
		if err != nil {
			return err
		}
		msr := measure.NewDefaultMeasure()
		hooks = append(hooks,
			measure.PipelineMeasure(msr),
			drawer.PipelineDrawer(drawer.NewDOTDrawer(f), msr, steps),
		)
	}

	p, err := pipeline.New(
		pipeline.WithLogger(logger),
		pipeline.WithOptions(hooks...),
		pipeline.WithStatus(func(s pipeline.Status) {
			logger.Info("progress", "percent", s.Percent, "status", s.Text)
		}),
	)
	if err != nil {
		return err
	}
	if _, err := p.Apply(m, cfg); err != nil {
		return err
	}

	err = p.Process(ctx)
	if opts.metricsOut != "" {
		if werr := prometheus.WriteToTextfile(opts.metricsOut, reg); werr != nil {
			logger.Warn("unable to write metrics", "error", werr)
		}
	}
	if pipeline.IsCanceled(err) {
		logger.Info("slicing canceled, no layer written")
		return nil
	}
	if err != nil {
		return err
	}

	if err := writeLayers(opts.outDir, p.Raster()); err != nil {
		return err
	}
	logger.Info("layers written", "dir", opts.outDir, "layers", p.Raster().Len())
	return nil
}
