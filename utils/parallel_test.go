package utils

import (
	"context"
	"sync/atomic"
	"testing"

	"go.viam.com/test"
)

func TestGroupWorkParallel(t *testing.T) {
	for _, size := range []int{0, 1, 3, ParallelFactor, ParallelFactor*3 + 1, 1000} {
		seen := make([]int32, size)
		var groups int
		err := GroupWorkParallel(
			context.Background(),
			size,
			func(numGroups int) { groups = numGroups },
			func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) {
				test.That(t, to-from, test.ShouldEqual, groupSize)
				return func(memberNum, workNum int) {
					atomic.AddInt32(&seen[workNum], 1)
				}, nil
			},
		)
		test.That(t, err, test.ShouldBeNil)
		test.That(t, groups, test.ShouldBeLessThanOrEqualTo, ParallelFactor)
		for _, count := range seen {
			test.That(t, count, test.ShouldEqual, 1)
		}
	}
}

func TestGroupWorkParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var done int32
	err := GroupWorkParallel(ctx, 100, nil, func(groupNum, groupSize, from, to int) (MemberWorkFunc, GroupWorkDoneFunc) {
		return func(memberNum, workNum int) {
			atomic.AddInt32(&done, 1)
		}, nil
	})
	test.That(t, err, test.ShouldBeError, context.Canceled)
	test.That(t, done, test.ShouldEqual, int32(0))
}
