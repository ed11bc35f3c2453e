package main

import "sync"

// span represents a half-open range [start, end) of flat cell indices.
type span struct{ start, end int }

// spanBlock is the granularity at which the flat array is dealt to workers.
const spanBlock = 1 << 14

// workerPool is a fixed set of goroutines that wake on every dispatch, each
// processing the spans it was assigned at construction.
type workerPool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	count   int
	spans   [][]span
	job     func(start, end int)
	step    int
	pending int
	closed  bool
}

// assignSpans cuts [0,size) into blocks and distributes them across workers
// in round robin fashion.
func assignSpans(workerCount, size int) [][]span {
	if workerCount < 1 {
		workerCount = 1
	}
	out := make([][]span, workerCount)
	for idx, start := 0, 0; start < size; idx, start = idx+1, start+spanBlock {
		end := min(start+spanBlock, size)
		w := idx % workerCount
		// Merge with the worker's previous block when contiguous.
		if n := len(out[w]); n > 0 && out[w][n-1].end == start {
			out[w][n-1].end = end
			continue
		}
		out[w] = append(out[w], span{start: start, end: end})
	}
	return out
}

func newWorkerPool(workerCount, size int) *workerPool {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &workerPool{count: workerCount, spans: assignSpans(workerCount, size)}
	p.cond = sync.NewCond(&p.mu)
	for i := 0; i < workerCount; i++ {
		go p.workerLoop(i)
	}
	return p
}

func (p *workerPool) workerLoop(index int) {
	lastStep := 0
	p.mu.Lock()
	for {
		for p.step == lastStep {
			p.cond.Wait()
		}
		lastStep = p.step
		if p.closed {
			p.mu.Unlock()
			return
		}
		job := p.job
		spans := p.spans[index]
		p.mu.Unlock()

		for _, sp := range spans {
			job(sp.start, sp.end)
		}

		p.mu.Lock()
		p.pending--
		if p.pending == 0 {
			p.cond.Broadcast()
		}
	}
}

// run executes job over every span and returns once all workers are done.
func (p *workerPool) run(job func(start, end int)) {
	p.mu.Lock()
	p.job = job
	p.pending = p.count
	p.step++
	p.cond.Broadcast()
	for p.pending > 0 {
		p.cond.Wait()
	}
	p.job = nil
	p.mu.Unlock()
}

// close stops the workers. The pool must not be used afterwards.
func (p *workerPool) close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		p.step++
		p.cond.Broadcast()
	}
	p.mu.Unlock()
}
