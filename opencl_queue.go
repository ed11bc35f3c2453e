//go:build opencl

package main

import (
	"errors"
	"fmt"
	"strings"
	"unsafe"

	"github.com/jgillich/go-opencl/cl"
)

const queueKernelSource = `
inline float2 cmul(float2 a, float2 b) {
    return (float2)(a.x * b.x - a.y * b.y, a.x * b.y + a.y * b.x);
}

__kernel void sub(
    const int size,
    __global float2* dst,
    __global const float2* a,
    __global const float2* b)
{
    int idx = get_global_id(0);
    if (idx >= size) {
        return;
    }
    dst[idx] = a[idx] - b[idx];
}

__kernel void lincomb2(
    const int size,
    __global float2* dst,
    __global const float2* c1,
    __global const float2* x1,
    __global const float2* c2,
    __global const float2* x2)
{
    int idx = get_global_id(0);
    if (idx >= size) {
        return;
    }
    dst[idx] = cmul(c1[idx], x1[idx]) + cmul(c2[idx], x2[idx]);
}

__kernel void lincomb3(
    const int size,
    __global float2* dst,
    __global const float2* c1,
    __global const float2* x1,
    __global const float2* c2,
    __global const float2* x2,
    __global const float2* c3,
    __global const float2* x3)
{
    int idx = get_global_id(0);
    if (idx >= size) {
        return;
    }
    dst[idx] = cmul(c1[idx], x1[idx]) + cmul(c2[idx], x2[idx]) + cmul(c3[idx], x3[idx]);
}

__kernel void add_plane(
    const int count,
    const float re,
    const float im,
    __global float2* dst,
    __global const int* plane)
{
    int gid = get_global_id(0);
    if (gid >= count) {
        return;
    }
    dst[plane[gid]] += (float2)(re, im);
}`

// operandSlots is the most device buffers any kernel touches at once
// (lincomb3: dst plus six operands).
const operandSlots = 7

// openCLQueue runs the elementwise kernels on an OpenCL device. Field arrays
// stay on the host, so every operation uploads its operands and reads the
// result back before returning.
type openCLQueue struct {
	context    *cl.Context
	queue      *cl.CommandQueue
	program    *cl.Program
	subK       *cl.Kernel
	lin2K      *cl.Kernel
	lin3K      *cl.Kernel
	planeK     *cl.Kernel
	bufs       [operandSlots]*cl.MemObject
	staging    [operandSlots][]float32
	planeBuf   *cl.MemObject
	planeIdx   []int32
	planeKey   *int
	planeLen   int
	size       int
	deviceName string
}

func pickDevice() (*cl.Device, error) {
	platforms, err := cl.GetPlatforms()
	if err != nil {
		msg := "querying OpenCL platforms"
		if strings.Contains(err.Error(), "-1001") {
			msg += ": no ICD loader reported any platforms; install OpenCL drivers and verify with `clinfo`"
		}
		return nil, fmt.Errorf("%s: %w", msg, err)
	}
	if len(platforms) == 0 {
		return nil, errors.New("no OpenCL platforms available; ensure a vendor driver is installed and detected by `clinfo`")
	}
	for _, kind := range []cl.DeviceType{cl.DeviceTypeGPU, cl.DeviceTypeCPU} {
		for _, p := range platforms {
			devices, derr := p.GetDevices(kind)
			if derr != nil && derr != cl.ErrDeviceNotFound {
				continue
			}
			if len(devices) > 0 {
				return devices[0], nil
			}
		}
	}
	return nil, errors.New("no suitable OpenCL devices found")
}

func newOpenCLQueue(size int) (deviceQueue, error) {
	device, err := pickDevice()
	if err != nil {
		return nil, err
	}
	q := &openCLQueue{size: size, deviceName: device.Name()}
	q.context, err = cl.CreateContext([]*cl.Device{device})
	if err != nil {
		return nil, fmt.Errorf("creating OpenCL context: %w", err)
	}
	q.queue, err = q.context.CreateCommandQueue(device, 0)
	if err != nil {
		q.Close()
		return nil, fmt.Errorf("creating OpenCL command queue: %w", err)
	}
	q.program, err = q.context.CreateProgramWithSource([]string{queueKernelSource})
	if err != nil {
		q.Close()
		return nil, fmt.Errorf("creating OpenCL program: %w", err)
	}
	if err := q.program.BuildProgram([]*cl.Device{device}, ""); err != nil {
		q.Close()
		if buildErr, ok := err.(cl.BuildError); ok {
			return nil, fmt.Errorf("building OpenCL program: %s", string(buildErr))
		}
		return nil, fmt.Errorf("building OpenCL program: %w", err)
	}
	for _, k := range []struct {
		name string
		dst  **cl.Kernel
	}{
		{"sub", &q.subK},
		{"lincomb2", &q.lin2K},
		{"lincomb3", &q.lin3K},
		{"add_plane", &q.planeK},
	} {
		kernel, err := q.program.CreateKernel(k.name)
		if err != nil {
			q.Close()
			return nil, fmt.Errorf("creating %s kernel: %w", k.name, err)
		}
		*k.dst = kernel
	}
	byteSize := 2 * size * int(unsafe.Sizeof(float32(0)))
	for i := range q.bufs {
		flags := cl.MemReadOnly
		if i == 0 {
			flags = cl.MemReadWrite
		}
		q.bufs[i], err = q.context.CreateEmptyBuffer(flags, byteSize)
		if err != nil {
			q.Close()
			return nil, fmt.Errorf("allocating operand buffer %d: %w", i, err)
		}
		q.staging[i] = make([]float32, 2*size)
	}
	return q, nil
}

func (q *openCLQueue) upload(slot int, arr []complex128) error {
	if len(arr) != q.size {
		return &NumericConsistencyError{
			Array:  "opencl operand",
			Reason: fmt.Sprintf("length %d, queue expects %d", len(arr), q.size),
		}
	}
	packComplex(q.staging[slot], arr)
	if _, err := q.queue.EnqueueWriteBufferFloat32(q.bufs[slot], false, 0, q.staging[slot], nil); err != nil {
		return fmt.Errorf("writing operand %d: %w", slot, err)
	}
	return nil
}

// launch uploads operands into slots 1.., runs the kernel over the whole grid
// and reads slot 0 back into dst.
func (q *openCLQueue) launch(kernel *cl.Kernel, name string, dst []complex128, operands ...[]complex128) error {
	if len(dst) != q.size {
		return &NumericConsistencyError{
			Array:  name,
			Reason: fmt.Sprintf("destination length %d, queue expects %d", len(dst), q.size),
		}
	}
	args := []interface{}{int32(q.size), q.bufs[0]}
	for i, op := range operands {
		if err := q.upload(i+1, op); err != nil {
			return err
		}
		args = append(args, q.bufs[i+1])
	}
	if err := kernel.SetArgs(args...); err != nil {
		return fmt.Errorf("setting %s arguments: %w", name, err)
	}
	if _, err := q.queue.EnqueueNDRangeKernel(kernel, nil, []int{q.size}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing %s: %w", name, err)
	}
	if _, err := q.queue.EnqueueReadBufferFloat32(q.bufs[0], true, 0, q.staging[0], nil); err != nil {
		return fmt.Errorf("reading %s result: %w", name, err)
	}
	unpackComplex(dst, q.staging[0])
	return nil
}

func (q *openCLQueue) Sub(dst, a, b []complex128) error {
	return q.launch(q.subK, "sub", dst, a, b)
}

func (q *openCLQueue) Copy(dst, src []complex128) error {
	if len(dst) != len(src) {
		return &NumericConsistencyError{Array: "copy", Reason: "length mismatch"}
	}
	copy(dst, src)
	return nil
}

func (q *openCLQueue) Lincomb2(dst, c1, x1, c2, x2 []complex128) error {
	return q.launch(q.lin2K, "lincomb2", dst, c1, x1, c2, x2)
}

func (q *openCLQueue) Lincomb3(dst, c1, x1, c2, x2, c3, x3 []complex128) error {
	return q.launch(q.lin3K, "lincomb3", dst, c1, x1, c2, x2, c3, x3)
}

func (q *openCLQueue) syncPlane(plane []int) error {
	if len(plane) == 0 {
		return nil
	}
	if q.planeKey == &plane[0] && q.planeLen == len(plane) {
		return nil
	}
	if q.planeBuf != nil {
		q.planeBuf.Release()
		q.planeBuf = nil
	}
	q.planeIdx = packIndices(q.planeIdx, plane)
	byteLen := len(q.planeIdx) * int(unsafe.Sizeof(int32(0)))
	buf, err := q.context.CreateEmptyBuffer(cl.MemReadOnly, byteLen)
	if err != nil {
		return fmt.Errorf("allocating plane index buffer: %w", err)
	}
	if _, err := q.queue.EnqueueWriteBuffer(buf, true, 0, byteLen, unsafe.Pointer(&q.planeIdx[0]), nil); err != nil {
		buf.Release()
		return fmt.Errorf("writing plane index buffer: %w", err)
	}
	q.planeBuf = buf
	q.planeKey = &plane[0]
	q.planeLen = len(plane)
	return nil
}

func (q *openCLQueue) AddPlane(dst []complex128, plane []int, v complex128) error {
	if len(plane) == 0 {
		return nil
	}
	if err := q.syncPlane(plane); err != nil {
		return err
	}
	if err := q.upload(0, dst); err != nil {
		return err
	}
	if err := q.planeK.SetArgs(int32(len(plane)), float32(real(v)), float32(imag(v)), q.bufs[0], q.planeBuf); err != nil {
		return fmt.Errorf("setting add_plane arguments: %w", err)
	}
	if _, err := q.queue.EnqueueNDRangeKernel(q.planeK, nil, []int{len(plane)}, nil, nil); err != nil {
		return fmt.Errorf("enqueueing add_plane: %w", err)
	}
	if _, err := q.queue.EnqueueReadBufferFloat32(q.bufs[0], true, 0, q.staging[0], nil); err != nil {
		return fmt.Errorf("reading add_plane result: %w", err)
	}
	unpackComplex(dst, q.staging[0])
	return nil
}

func (q *openCLQueue) Barrier() error {
	if err := q.queue.Finish(); err != nil {
		return fmt.Errorf("finishing OpenCL queue: %w", err)
	}
	return nil
}

func (q *openCLQueue) Name() string { return "opencl/" + q.deviceName }

func (q *openCLQueue) Close() error {
	if q.planeBuf != nil {
		q.planeBuf.Release()
		q.planeBuf = nil
	}
	for i, b := range q.bufs {
		if b != nil {
			b.Release()
			q.bufs[i] = nil
		}
	}
	for _, k := range []**cl.Kernel{&q.subK, &q.lin2K, &q.lin3K, &q.planeK} {
		if *k != nil {
			(*k).Release()
			*k = nil
		}
	}
	if q.program != nil {
		q.program.Release()
		q.program = nil
	}
	if q.queue != nil {
		q.queue.Release()
		q.queue = nil
	}
	if q.context != nil {
		q.context.Release()
		q.context = nil
	}
	return nil
}
