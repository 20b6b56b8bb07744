package utils

import (
	"runtime"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/mem"
)

// memoryPerJob is a conservative estimate of peak memory for one removal job
// (source raster, greyscale derivatives, candidate masks).
const memoryPerJob = 512 * 1024 * 1024

// DefaultMaxConcurrent derives a worker limit from the machine: one job per
// logical CPU, capped by available memory.
func DefaultMaxConcurrent() int {
	n, err := cpu.Counts(true)
	if err != nil || n < 1 {
		n = runtime.NumCPU()
	}

	if vm, err := mem.VirtualMemory(); err == nil {
		byMem := int(vm.Available / memoryPerJob)
		if byMem < n {
			n = byMem
		}
	}

	if n < 1 {
		n = 1
	}
	return n
}
