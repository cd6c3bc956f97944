package matmul

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/sys/cpu"
)

// HostInfo describes the machine a benchmark ran on. The kernels never
// branch on it; it is reported so timings can be compared across hosts.
type HostInfo struct {
	NumCPU     int      `json:"num_cpu"`
	GOMAXPROCS int      `json:"gomaxprocs"`
	GoVersion  string   `json:"go_version"`
	Arch       string   `json:"arch"`
	Features   []string `json:"features,omitempty"`
}

type cpuFeature struct {
	name    string
	present bool
}

// DetectHost gathers HostInfo for the current process.
func DetectHost() HostInfo {
	// x/sys/cpu leaves the flags of foreign architectures false.
	known := []cpuFeature{
		{"sse4.2", cpu.X86.HasSSE42},
		{"avx", cpu.X86.HasAVX},
		{"avx2", cpu.X86.HasAVX2},
		{"fma", cpu.X86.HasFMA},
		{"avx512f", cpu.X86.HasAVX512F},
		{"asimd", cpu.ARM64.HasASIMD},
		{"fphp", cpu.ARM64.HasFPHP},
		{"sve", cpu.ARM64.HasSVE},
	}
	return HostInfo{
		NumCPU:     runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		GoVersion:  runtime.Version(),
		Arch:       runtime.GOARCH,
		Features: lo.FilterMap(known, func(f cpuFeature, _ int) (string, bool) {
			return f.name, f.present
		}),
	}
}

// String returns a one-line summary of the host.
func (h HostInfo) String() string {
	s := fmt.Sprintf("%s/%s, %d CPUs, GOMAXPROCS=%d", h.GoVersion, h.Arch, h.NumCPU, h.GOMAXPROCS)
	if len(h.Features) > 0 {
		s += " [" + strings.Join(h.Features, " ") + "]"
	}
	return s
}
