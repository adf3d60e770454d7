package client

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/time/rate"

	"github.com/vayesy/betdaq/internal/mds/commands"
	"github.com/vayesy/betdaq/internal/metrics"
)

// queueItem is one pending command in the priority send queue: lower
// priority values are sent first, ties broken by enqueue order.
type queueItem struct {
	priority int
	seq      int
	cmd      commands.Command
}

type priorityQueue []queueItem

func (q priorityQueue) Len() int { return len(q) }
func (q priorityQueue) Less(i, j int) bool {
	if q[i].priority != q[j].priority {
		return q[i].priority < q[j].priority
	}
	return q[i].seq < q[j].seq
}
func (q priorityQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }
func (q *priorityQueue) Push(x any)        { *q = append(*q, x.(queueItem)) }
func (q *priorityQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

// controller is the outbound subscription controller: a priority queue
// for one-shot commands plus, for the four subscription kinds the
// server rate-limits, a per-kind FIFO gated by a 1-request-per-second
// limiter.
type controller struct {
	mu       sync.Mutex
	queue    priorityQueue
	seq      int
	schedule map[commands.Identifier][]commands.Command
	limiters map[commands.Identifier]*rate.Limiter
	corID    int64
}

func newController() *controller {
	c := &controller{
		schedule: make(map[commands.Identifier][]commands.Command),
		limiters: make(map[commands.Identifier]*rate.Limiter),
	}
	heap.Init(&c.queue)
	for _, kind := range commands.RateLimitedKinds {
		c.schedule[kind] = nil
		c.limiters[kind] = rate.NewLimiter(rate.Every(time.Second), 1)
	}
	return c
}

func (c *controller) nextCorrelationID() int {
	return int(atomic.AddInt64(&c.corID, 1))
}

// Queue enqueues a one-shot command at the given priority (lower sends first).
func (c *controller) Queue(cmd commands.Command, priority int) {
	cmd.SetCorrelationID(c.nextCorrelationID())
	c.mu.Lock()
	defer c.mu.Unlock()
	heap.Push(&c.queue, queueItem{priority: priority, seq: c.seq, cmd: cmd})
	c.seq++
}

// QueueLimited enqueues a command of one of the four rate-limited
// subscription kinds onto its own per-kind schedule.
func (c *controller) QueueLimited(cmd commands.Command) {
	cmd.SetCorrelationID(c.nextCorrelationID())
	kind := cmd.Identifier()
	c.mu.Lock()
	defer c.mu.Unlock()
	c.schedule[kind] = append(c.schedule[kind], cmd)
}

// NextToSend returns the commands ready to go out this tick: at most one
// per rate-limited kind whose limiter currently allows a send, plus the
// single highest-priority item from the queue, if any.
func (c *controller) NextToSend() []commands.Command {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []commands.Command
	for kind, pending := range c.schedule {
		if len(pending) == 0 {
			continue
		}
		if !c.limiters[kind].Allow() {
			continue
		}
		out = append(out, pending[0])
		c.schedule[kind] = pending[1:]
	}
	if c.queue.Len() > 0 {
		item := heap.Pop(&c.queue).(queueItem)
		out = append(out, item.cmd)
	}
	return out
}

// Reset clears all pending state, called after a connection is lost so a
// fresh session starts from a clean slate.
func (c *controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.queue = c.queue[:0]
	for kind := range c.schedule {
		dropped := len(c.schedule[kind])
		if dropped > 0 {
			metrics.RateLimitedDrops.Add(float64(dropped))
		}
		c.schedule[kind] = nil
	}
}
