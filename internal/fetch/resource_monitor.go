package fetch

import (
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

const (
	resourceSafetyReserveBytes = 512 * 1024 * 1024
	resourcePerPageBytes       = 150 * 1024 * 1024
	resourceCacheWindow        = time.Second
)

// ResourceMonitor caps the effective headless pool size under memory
// pressure. It samples system memory via gopsutil rather than
// runtime.MemStats, because the pressure that matters is the browser
// processes' RSS, not this process's Go heap.
type ResourceMonitor struct {
	configuredMax int

	mu         sync.Mutex
	cachedMax  int
	cachedAt   time.Time
	sampleFunc func() (*mem.VirtualMemoryStat, error)
}

// NewResourceMonitor builds a monitor that never lets the effective pool
// size exceed configuredMax, and shrinks it further when available memory
// is tight.
func NewResourceMonitor(configuredMax int) *ResourceMonitor {
	if configuredMax < 1 {
		configuredMax = 1
	}
	return &ResourceMonitor{configuredMax: configuredMax, sampleFunc: mem.VirtualMemory}
}

// EffectivePoolSize returns the number of headless pages that may run
// concurrently right now. The result is cached for resourceCacheWindow
// since sampling system memory on every acquire would be wasteful.
func (m *ResourceMonitor) EffectivePoolSize() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	if time.Since(m.cachedAt) < resourceCacheWindow && m.cachedMax > 0 {
		return m.cachedMax
	}

	result := m.configuredMax
	vm, err := m.sampleFunc()
	if err == nil && vm != nil {
		available := int64(vm.Available) - resourceSafetyReserveBytes
		byMemory := 1
		if available > 0 {
			byMemory = int(available / resourcePerPageBytes)
			if byMemory < 1 {
				byMemory = 1
			}
		}
		if byMemory < result {
			result = byMemory
		}
	}
	if result < 1 {
		result = 1
	}

	m.cachedMax = result
	m.cachedAt = time.Now()
	return result
}
