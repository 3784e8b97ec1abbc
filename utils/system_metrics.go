package utils

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

type SystemStats struct {
	CPUPercent    float64 `json:"cpuPercent"`
	MemoryPercent float64 `json:"memoryPercent"`
}

// GetSystemStats samples CPU usage since the previous call, so it never
// blocks a request.
func GetSystemStats() (SystemStats, error) {
	var stats SystemStats

	percentage, err := cpu.Percent(0, false)
	if err != nil {
		return stats, err
	}
	if len(percentage) > 0 {
		stats.CPUPercent = percentage[0]
	}

	vm, err := mem.VirtualMemory()
	if err != nil {
		return stats, err
	}
	stats.MemoryPercent = vm.UsedPercent

	return stats, nil
}
