package vm

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/IsVohi/ByteCode-Compiler/op"
)

// Profiler is an Observer that collects opcode execution frequencies and
// wall-clock timing for a run.
type Profiler struct {
	counts    [256]uint64
	total     uint64
	startTime time.Time
	elapsed   time.Duration
}

// NewProfiler returns an empty Profiler.
func NewProfiler() *Profiler {
	return &Profiler{}
}

// OnStep implements the Observer interface.
func (p *Profiler) OnStep(event StepEvent) {
	p.counts[event.Opcode]++
	p.total++
}

// Start begins timing.
func (p *Profiler) Start() {
	p.startTime = time.Now()
}

// Stop ends timing.
func (p *Profiler) Stop() {
	p.elapsed = time.Since(p.startTime)
}

// TotalInstructions returns the number of instructions executed.
func (p *Profiler) TotalInstructions() uint64 {
	return p.total
}

// Count returns the execution count for a specific opcode.
func (p *Profiler) Count(code op.Code) uint64 {
	return p.counts[code]
}

// Reset clears all statistics.
func (p *Profiler) Reset() {
	p.counts = [256]uint64{}
	p.total = 0
	p.elapsed = 0
}

// Dump writes the collected statistics to the given writer, most
// frequent opcodes first.
func (p *Profiler) Dump(w io.Writer) {
	fmt.Fprintln(w, "=== Profiler Statistics ===")
	fmt.Fprintf(w, "Total instructions: %d\n", p.total)
	fmt.Fprintf(w, "Elapsed time: %.3f ms\n", float64(p.elapsed.Microseconds())/1000.0)
	fmt.Fprintln(w, "Opcode counts:")

	type entry struct {
		code  op.Code
		count uint64
	}
	var entries []entry
	for code, count := range p.counts {
		if count > 0 {
			entries = append(entries, entry{op.Code(code), count})
		}
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].code < entries[j].code
	})
	for _, e := range entries {
		fmt.Fprintf(w, "  %s: %d\n", op.GetInfo(e.code).Name, e.count)
	}
}
