package soft

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/gfxcore/gfx/driver"
)

// FenceWait is a queue-side wait recorded by Queue.Wait
type FenceWait struct {
	Fence driver.Fence
	Value uint64
}

type Queue struct {
	device    *Device
	queueType driver.QueueType

	lock     sync.Mutex
	executed []Op
	lists    int
	waits    []FenceWait
}

var _ driver.Queue = &Queue{}

func (q *Queue) Type() driver.QueueType { return q.queueType }

func (q *Queue) Signal(fence driver.Fence, value uint64) error {
	softFence, ok := fence.(*Fence)
	if !ok {
		return errors.Newf("queue signal received a fence of type %T", fence)
	}

	q.device.queueSignal(softFence, value)
	return nil
}

func (q *Queue) Wait(fence driver.Fence, value uint64) error {
	q.lock.Lock()
	defer q.lock.Unlock()

	q.waits = append(q.waits, FenceWait{Fence: fence, Value: value})
	return nil
}

func (q *Queue) ExecuteCommandLists(lists ...driver.CommandList) error {
	err := q.device.takeExecuteError()
	if err != nil {
		return err
	}

	q.lock.Lock()
	defer q.lock.Unlock()

	for _, list := range lists {
		softList, ok := list.(*CommandList)
		if !ok {
			return errors.Newf("queue received a command list of type %T", list)
		}

		if softList.open {
			return errors.New("queue received a command list that was not closed")
		}

		if softList.queueType != q.queueType {
			return errors.Newf("%s queue received a %s command list", q.queueType, softList.queueType)
		}

		for _, op := range softList.ops {
			if op.apply != nil {
				op.apply()
			}
			q.executed = append(q.executed, op)
		}
		q.lists++
	}

	return nil
}

// ExecutedOps returns every command executed by this queue, in execution order
func (q *Queue) ExecutedOps() []Op {
	q.lock.Lock()
	defer q.lock.Unlock()

	return append([]Op(nil), q.executed...)
}

// ExecutedEvents returns the names passed to BeginEvent by every executed command, in execution order
func (q *Queue) ExecutedEvents() []string {
	q.lock.Lock()
	defer q.lock.Unlock()

	var events []string
	for _, op := range q.executed {
		if op.Kind == OpBeginEvent {
			events = append(events, op.Name)
		}
	}

	return events
}

// ExecutedListCount returns the number of command lists executed by this queue
func (q *Queue) ExecutedListCount() int {
	q.lock.Lock()
	defer q.lock.Unlock()

	return q.lists
}

// Waits returns every queue-side wait recorded on this queue
func (q *Queue) Waits() []FenceWait {
	q.lock.Lock()
	defer q.lock.Unlock()

	return append([]FenceWait(nil), q.waits...)
}

type Fence struct {
	device *Device

	lock      sync.Mutex
	cond      *sync.Cond
	completed uint64
}

var _ driver.Fence = &Fence{}

func (f *Fence) CompletedValue() uint64 {
	f.lock.Lock()
	defer f.lock.Unlock()

	return f.completed
}

func (f *Fence) complete(value uint64) {
	f.lock.Lock()
	defer f.lock.Unlock()

	if value > f.completed {
		f.completed = value
	}
	f.cond.Broadcast()
}

func (f *Fence) Signal(value uint64) error {
	f.complete(value)
	return nil
}

func (f *Fence) WaitForValue(value uint64) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	for f.completed < value {
		f.cond.Wait()
	}

	return nil
}

func (f *Fence) Destroy() {
	f.device.fences.Add(-1)
}
