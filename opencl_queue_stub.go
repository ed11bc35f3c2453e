//go:build !opencl

package main

import "errors"

func newOpenCLQueue(size int) (deviceQueue, error) {
	return nil, errors.New("OpenCL support is not enabled; rebuild with -tags opencl")
}
