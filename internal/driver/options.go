package driver

import (
	"runtime"
	"time"

	"calltraits/internal/observ"
)

// DeclExt is the extension of declaration files picked up from directories.
const DeclExt = ".ct"

// Options configures Check and LoadUniverse.
type Options struct {
	Jobs           int      // parallel files; <= 0 means GOMAXPROCS
	MaxDiagnostics int      // per-file Bag capacity; <= 0 means 100
	MaxErrors      uint     // parser error limit per file; 0 means unlimited
	Wrappers       []string // reference wrapper templates; empty means parser.DefaultWrappers
	Cache          *DiskCache
	Timer          *observ.Timer
	Progress       ProgressObserver
	Heartbeat      time.Duration // trace heartbeat interval during Check; 0 disables
}

func (o Options) jobs(files int) int {
	jobs := o.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}
	return max(min(jobs, files), 1)
}

func (o Options) maxDiagnostics() int {
	if o.MaxDiagnostics <= 0 {
		return 100
	}
	return o.MaxDiagnostics
}
