package main

import (
	"fmt"
	"runtime"
	"strings"

	"golang.org/x/sys/cpu"
	"gonum.org/v1/gonum/cmplxs"
)

// deviceQueue executes the elementwise part of a step. Operations are applied
// in submission order; Barrier waits until all of them have completed and
// reports the first failure.
type deviceQueue interface {
	// Sub writes a-b into dst.
	Sub(dst, a, b []complex128) error
	// Copy writes src into dst.
	Copy(dst, src []complex128) error
	// Lincomb2 writes c1*x1 + c2*x2 into dst. dst may alias any input.
	Lincomb2(dst, c1, x1, c2, x2 []complex128) error
	// Lincomb3 writes c1*x1 + c2*x2 + c3*x3 into dst.
	Lincomb3(dst, c1, x1, c2, x2, c3, x3 []complex128) error
	// AddPlane adds v to dst at every flat index in plane.
	AddPlane(dst []complex128, plane []int, v complex128) error
	Barrier() error
	Name() string
	Close() error
}

// Queue names accepted by -queue.
const (
	queueCPU    = "cpu"
	queueOpenCL = "opencl"
)

func newDeviceQueue(kind string, workers, size int) (deviceQueue, error) {
	switch kind {
	case queueCPU, "":
		return newCPUQueue(workers, size), nil
	case queueOpenCL:
		q, err := newOpenCLQueue(size)
		if err != nil {
			return nil, &DeviceError{Op: "opencl queue", Err: err}
		}
		return q, nil
	}
	return nil, configErrorf("queue", "unknown queue %q", kind)
}

// cpuQueue runs elementwise kernels on the persistent worker pool. Every
// operation is dispatched to all workers and completes before it returns.
type cpuQueue struct {
	pool *workerPool
	size int
}

func newCPUQueue(workers, size int) *cpuQueue {
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	return &cpuQueue{pool: newWorkerPool(workers, size), size: size}
}

func (q *cpuQueue) checkLen(op string, arrs ...[]complex128) error {
	for i, a := range arrs {
		if len(a) != q.size {
			return &NumericConsistencyError{
				Array:  op,
				Reason: fmt.Sprintf("operand %d has length %d, queue expects %d", i, len(a), q.size),
			}
		}
	}
	return nil
}

func (q *cpuQueue) Sub(dst, a, b []complex128) error {
	if err := q.checkLen("sub", dst, a, b); err != nil {
		return err
	}
	q.pool.run(func(s, e int) {
		cmplxs.SubTo(dst[s:e], a[s:e], b[s:e])
	})
	return nil
}

func (q *cpuQueue) Copy(dst, src []complex128) error {
	if err := q.checkLen("copy", dst, src); err != nil {
		return err
	}
	q.pool.run(func(s, e int) {
		copy(dst[s:e], src[s:e])
	})
	return nil
}

func (q *cpuQueue) Lincomb2(dst, c1, x1, c2, x2 []complex128) error {
	if err := q.checkLen("lincomb2", dst, c1, x1, c2, x2); err != nil {
		return err
	}
	q.pool.run(func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = c1[i]*x1[i] + c2[i]*x2[i]
		}
	})
	return nil
}

func (q *cpuQueue) Lincomb3(dst, c1, x1, c2, x2, c3, x3 []complex128) error {
	if err := q.checkLen("lincomb3", dst, c1, x1, c2, x2, c3, x3); err != nil {
		return err
	}
	q.pool.run(func(s, e int) {
		for i := s; i < e; i++ {
			dst[i] = c1[i]*x1[i] + c2[i]*x2[i] + c3[i]*x3[i]
		}
	})
	return nil
}

func (q *cpuQueue) AddPlane(dst []complex128, plane []int, v complex128) error {
	if err := q.checkLen("add-plane", dst); err != nil {
		return err
	}
	for _, idx := range plane {
		dst[idx] += v
	}
	return nil
}

// Barrier is a no-op: every dispatch already waited for its workers.
func (q *cpuQueue) Barrier() error { return nil }

func (q *cpuQueue) Name() string {
	var feats []string
	switch {
	case cpu.X86.HasAVX512F:
		feats = append(feats, "avx512")
	case cpu.X86.HasAVX2:
		feats = append(feats, "avx2")
	case cpu.ARM64.HasASIMD:
		feats = append(feats, "asimd")
	}
	if cpu.X86.HasFMA {
		feats = append(feats, "fma")
	}
	name := fmt.Sprintf("cpu/%s x%d", runtime.GOARCH, q.pool.count)
	if len(feats) > 0 {
		name += " [" + strings.Join(feats, ",") + "]"
	}
	return name
}

func (q *cpuQueue) Close() error {
	q.pool.close()
	return nil
}
