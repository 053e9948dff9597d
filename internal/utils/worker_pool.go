package utils

import (
	"log"
	"sync"
)

// WorkerPool is a bounded goroutine pool with a buffered job queue.
type WorkerPool struct {
	JobQueue  chan func()
	WorkerNum int
	wg        sync.WaitGroup
	quit      chan bool
}

func NewWorkerPool(workerNum int, queueSize int) *WorkerPool {
	return &WorkerPool{
		JobQueue:  make(chan func(), queueSize),
		WorkerNum: workerNum,
		quit:      make(chan bool),
	}
}

func (p *WorkerPool) Start() {
	for i := 0; i < p.WorkerNum; i++ {
		p.wg.Add(1)
		go func(workerID int) {
			defer p.wg.Done()
			for {
				select {
				case job := <-p.JobQueue:
					// recover so a panicking job cannot take the worker down
					func() {
						defer func() {
							if r := recover(); r != nil {
								log.Printf("worker %d panic: %v", workerID, r)
							}
						}()
						job()
					}()
				case <-p.quit:
					return
				}
			}
		}(i)
	}
}

// Submit enqueues a job. Blocks when the queue is full.
func (p *WorkerPool) Submit(job func()) {
	p.JobQueue <- job
}

// TrySubmit enqueues a job without blocking; returns false when the
// queue is full.
func (p *WorkerPool) TrySubmit(job func()) bool {
	select {
	case p.JobQueue <- job:
		return true
	default:
		return false
	}
}

func (p *WorkerPool) Stop() {
	close(p.quit)
	p.wg.Wait()
}
