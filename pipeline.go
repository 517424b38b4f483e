package mandelbrot

import (
	"context"
	"errors"
	"sync"

	"github.com/bodgit/mandelbrot/fixed"
)

var errCancelled = errors.New("mandelbrot: scan cancelled")

// job is everything needed to evaluate one pixel independently of the
// others
type job struct {
	index        int
	pixel        Pixel
	cReal, cImag fixed.Value
}

type result struct {
	index int
	Result
}

func (m *Model) sweep(ctx context.Context, p params) (<-chan job, <-chan error) {
	out := make(chan job)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		s := newScanner(m.config.Register, p)
		for i := 0; !s.done(); i++ {
			select {
			case out <- job{i, s.pixel, s.cReal, s.cImag}:
			case <-ctx.Done():
				errc <- errCancelled
				return
			}
			s.advance()
		}
	}()
	return out, errc
}

func (m *Model) pixelWorker(ctx context.Context, in <-chan job, maxIterations int) (<-chan result, <-chan error) {
	out := make(chan result)
	errc := make(chan error, 1)
	go func() {
		defer close(out)
		defer close(errc)
		for j := range in {
			r := result{j.index, m.engine.Iterate(j.pixel, j.cReal, j.cImag, maxIterations)}
			select {
			case out <- r:
			case <-ctx.Done():
				errc <- errCancelled
				return
			}
		}
	}()
	return out, errc
}

func waitForPipeline(errs ...<-chan error) error {
	errc := mergeErrors(errs...)
	for err := range errc {
		if err != nil {
			return err
		}
	}
	return nil
}

func mergeErrors(cs ...<-chan error) <-chan error {
	var wg sync.WaitGroup
	out := make(chan error, len(cs))
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan error) {
			for n := range c {
				out <- n
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

func mergeResults(cs ...<-chan result) <-chan result {
	var wg sync.WaitGroup
	out := make(chan result)
	wg.Add(len(cs))
	for _, c := range cs {
		go func(c <-chan result) {
			for r := range c {
				out <- r
			}
			wg.Done()
		}(c)
	}
	go func() {
		wg.Wait()
		close(out)
	}()
	return out
}

// scanParallel evaluates the pixels of a frame on several workers. Each
// pixel only needs its own c which the sweep computes up front, so results
// can arrive in any order; they are put back into raster order before any
// bus write is made.
func (m *Model) scanParallel(p params, fw *frameWriter) error {
	ctx, cancelFunc := context.WithCancel(context.Background())
	defer cancelFunc()

	var errcList []<-chan error
	var outList []<-chan result

	jobs, errc := m.sweep(ctx, p)
	errcList = append(errcList, errc)

	for i := 0; i < m.config.Workers; i++ {
		out, errc := m.pixelWorker(ctx, jobs, p.maxIterations)
		outList = append(outList, out)
		errcList = append(errcList, errc)
	}

	results := make([]Result, p.width*p.height)
	for r := range mergeResults(outList...) {
		results[r.index] = r.Result
	}

	if err := waitForPipeline(errcList...); err != nil {
		return err
	}

	for i, r := range results {
		if err := fw.add(Pixel{i % p.width, i / p.width}, r); err != nil {
			return err
		}
	}

	return nil
}
