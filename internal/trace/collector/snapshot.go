package collector

import (
	"sort"
	"time"

	"github.com/kolkov/threadstack/internal/trace/buffer"
	"github.com/kolkov/threadstack/internal/trace/errs"
	"github.com/kolkov/threadstack/internal/trace/procfs"
)

// ThreadInfo is one thread's entry in a Snapshot.
type ThreadInfo struct {
	TID       int32
	Name      string
	Stack     buffer.StackBuffer
	Collected bool
	Err       error
}

// Snapshot holds the result of collecting every live thread's stack at
// roughly the same moment.
type Snapshot struct {
	Threads   []ThreadInfo
	NumFailed int
}

// SnapshotAllStacks lists every thread in the current process and collects
// each one's stack, honoring a single shared deadline across all of them.
// A thread that exits mid-snapshot, or never responds by deadline, is
// still listed, with Collected set false, Err set, and NumFailed
// incremented.
//
// If a debugger (or strace, or any other tracer) is attached to this
// process, signal delivery is unreliable — ptrace can intercept or stop
// the very signal this protocol depends on — so SnapshotAllStacks refuses
// up front and returns ErrIncomplete without triggering any thread.
func SnapshotAllStacks(deadline time.Time) (*Snapshot, error) {
	if procfs.IsBeingDebugged() {
		return nil, errs.Incomplete
	}

	tids, err := procfs.ListThreads()
	if err != nil {
		return nil, err
	}

	snap := &Snapshot{Threads: make([]ThreadInfo, 0, len(tids))}
	collectors := make([]*Collector, len(tids))

	// Trigger every thread first, then await all of them against the same
	// deadline: awaiting one tid at a time would let an early blocked or
	// non-participating thread consume the whole deadline, starving every
	// thread enumerated after it.
	for i, tid := range tids {
		snap.Threads = append(snap.Threads, ThreadInfo{TID: tid, Name: procfs.ThreadName(tid)})
		c := New(tid)
		if err := c.TriggerAsync(); err != nil {
			snap.Threads[i].Err = err
			c.Close()
			continue
		}
		collectors[i] = c
	}

	for i, c := range collectors {
		if c == nil {
			snap.NumFailed++
			continue
		}
		info := &snap.Threads[i]
		if stack, ok := c.AwaitCollection(deadline); ok {
			info.Stack = *stack
			info.Collected = true
		} else {
			info.Err = errs.TimedOut
			snap.NumFailed++
		}
	}

	sort.Slice(snap.Threads, func(i, j int) bool {
		return snap.Threads[i].Stack.Less(&snap.Threads[j].Stack)
	})
	return snap, nil
}

// VisitGroups calls fn once per contiguous run of threads that share an
// identical stack. Threads.Stack.Less must already be sorted ascending
// over Threads, which SnapshotAllStacks guarantees, so equal stacks are
// always adjacent and a group is just a run boundary, not a search.
func (s *Snapshot) VisitGroups(fn func(stack *buffer.StackBuffer, tids []int32)) {
	threads := s.Threads
	for i := 0; i < len(threads); {
		j := i + 1
		for j < len(threads) && threads[j].Stack.Equals(&threads[i].Stack) {
			j++
		}
		tids := make([]int32, j-i)
		for k := i; k < j; k++ {
			tids[k-i] = threads[k].TID
		}
		sort.Slice(tids, func(a, b int) bool { return tids[a] < tids[b] })
		fn(&threads[i].Stack, tids)
		i = j
	}
}
