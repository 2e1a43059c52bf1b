//go:build windows

package stdlib

import (
	"syscall"
	"time"
	"unsafe"
)

var (
	kernel32DLL = syscall.NewLazyDLL("kernel32.dll")
	qpcProc     = kernel32DLL.NewProc("QueryPerformanceCounter")
	qpfProc     = kernel32DLL.NewProc("QueryPerformanceFrequency")
	qpcFreq     int64
	qpcStart    int64
	wallStart   time.Time
)

func init() {
	qpfProc.Call(uintptr(unsafe.Pointer(&qpcFreq)))
	qpcProc.Call(uintptr(unsafe.Pointer(&qpcStart)))
	wallStart = time.Now()
}

// hiresNow returns nanoseconds elapsed since startup using QPC.
func hiresNow() int64 {
	var count int64
	qpcProc.Call(uintptr(unsafe.Pointer(&count)))
	elapsed := count - qpcStart
	return elapsed/qpcFreq*1_000_000_000 + elapsed%qpcFreq*1_000_000_000/qpcFreq
}

// clockSeconds anchors the QPC reading to the wall clock at startup.
func clockSeconds() float64 {
	return float64(wallStart.UnixNano()+hiresNow()) / 1e9
}
