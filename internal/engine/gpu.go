package engine

import (
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/yalue/onnxruntime_go"
)

// GPUProbe memoizes a best-effort CUDA availability check. The probe runs at
// most once per process; any failure resolves to false and is logged, never
// surfaced as an error.
type GPUProbe struct {
	once      sync.Once
	available bool
}

// Available reports whether a CUDA-capable runtime was detected.
func (p *GPUProbe) Available() bool {
	p.once.Do(func() {
		p.available = probeCUDA()
	})
	return p.available
}

const (
	libLinux   = "libonnxruntime.so"
	libDarwin  = "libonnxruntime.dylib"
	libWindows = "onnxruntime.dll"
)

// systemLibraryPaths lists shared-library locations to try, GPU builds first.
func systemLibraryPaths() []string {
	return []string{
		"/opt/onnxruntime/gpu/lib/libonnxruntime.so",
		"/usr/local/lib/libonnxruntime.so",
		"/usr/lib/libonnxruntime.so",
		"/opt/onnxruntime/cpu/lib/libonnxruntime.so",
	}
}

func libraryName() (string, bool) {
	switch runtime.GOOS {
	case "linux":
		return libLinux, true
	case "darwin":
		return libDarwin, true
	case "windows":
		return libWindows, true
	default:
		return "", false
	}
}

// locateRuntimeLibrary finds an ONNX Runtime shared library on disk.
func locateRuntimeLibrary() (string, bool) {
	for _, path := range systemLibraryPaths() {
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	name, ok := libraryName()
	if !ok {
		return "", false
	}
	if dir, err := os.Getwd(); err == nil {
		for {
			candidate := filepath.Join(dir, "onnxruntime", "lib", name)
			if _, err := os.Stat(candidate); err == nil {
				return candidate, true
			}
			parent := filepath.Dir(dir)
			if parent == dir {
				break
			}
			dir = parent
		}
	}
	return "", false
}

// probeCUDA checks whether the ONNX runtime can construct CUDA provider
// options, which fails on machines without a usable CUDA stack.
func probeCUDA() bool {
	libPath, ok := locateRuntimeLibrary()
	if !ok {
		slog.Info("GPU probe: no ONNX runtime library found, using CPU")
		return false
	}

	onnxruntime_go.SetSharedLibraryPath(libPath)
	if !onnxruntime_go.IsInitialized() {
		if err := onnxruntime_go.InitializeEnvironment(); err != nil {
			slog.Info("GPU probe: runtime initialization failed, using CPU", "error", err)
			return false
		}
	}

	cudaOpts, err := onnxruntime_go.NewCUDAProviderOptions()
	if err != nil {
		slog.Info("GPU probe: CUDA provider unavailable, using CPU", "error", err)
		return false
	}
	if err := cudaOpts.Destroy(); err != nil {
		slog.Warn("GPU probe: failed to destroy CUDA provider options", "error", err)
	}

	slog.Info("GPU probe: CUDA provider available", "library", libPath)
	return true
}
