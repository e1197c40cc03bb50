package setversion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/semaphore"

	"github.com/MacroPower/cordova-set-version/pkg/paths"
)

var ErrUpdateWorkerFailed = errors.New("update worker failed")

// Update runs [Setter.SetVersion] for every entry of args concurrently, with
// at most [WithWorkers] updates in flight. Results are returned in the order
// of args. Every failure is reported in the returned error; updates that
// succeeded are kept.
func (s *Setter) Update(ctx context.Context, args ...Args) ([]Result, error) {
	logger := s.log().With(slog.Int("count", len(args)))

	results := make([]Result, len(args))
	sem := semaphore.NewWeighted(s.workers)
	errChan := make(chan error, len(args)+1)

	var wg sync.WaitGroup

	for i, a := range args {
		err := sem.Acquire(ctx, 1)
		if err != nil {
			errChan <- fmt.Errorf("%w: %w", ErrUpdateWorkerFailed, err)

			for j := i; j < len(args); j++ {
				results[j] = Result{ConfigPath: paths.ResolveConfig(args[j].ConfigPath), Stage: StageFailed, Err: err}
			}

			break
		}

		wg.Add(1)

		go func() {
			defer wg.Done()
			defer sem.Release(1)

			res, err := s.SetVersion(ctx, a)
			res.Err = err
			results[i] = res

			if err != nil {
				errChan <- fmt.Errorf("update %q: %w", res.ConfigPath, err)
			}
		}()
	}

	wg.Wait()
	close(errChan)

	var merr error
	for err := range errChan {
		merr = multierror.Append(merr, err)
	}

	if merr != nil {
		return results, merr
	}

	logger.Debug("update complete")

	return results, nil
}
