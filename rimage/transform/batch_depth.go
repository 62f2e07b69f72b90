package transform

import (
	"context"
	"math"
	"sync"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/mvs/utils"
)

// BatchDepth computes GetDepth for every point, spreading the work over utils.ParallelFactor
// goroutines. The view must not be modified while BatchDepth runs. Points whose depth is
// undefined get a NaN depth and contribute to the returned error; the other depths are still
// valid.
func BatchDepth(ctx context.Context, ci *CameraImage, pts []r3.Vector) ([]float32, error) {
	if _, ok := ci.LastRow(); !ok {
		return nil, errors.Wrapf(ErrLastRowNotSet, "view %q", ci.path)
	}

	depths := make([]float32, len(pts))
	var errMu sync.Mutex
	var combined error
	err := utils.GroupWorkParallel(
		ctx,
		len(pts),
		nil,
		func(groupNum, groupSize, from, to int) (utils.MemberWorkFunc, utils.GroupWorkDoneFunc) {
			var groupErr error
			return func(memberNum, workNum int) {
					d, err := ci.DepthOf(pts[workNum])
					if err != nil {
						groupErr = multierr.Append(groupErr, errors.Wrapf(err, "point %d", workNum))
						depths[workNum] = float32(math.NaN())
						return
					}
					depths[workNum] = d
				}, func() {
					errMu.Lock()
					combined = multierr.Append(combined, groupErr)
					errMu.Unlock()
				}
		},
	)
	if err != nil {
		return nil, err
	}
	return depths, combined
}
