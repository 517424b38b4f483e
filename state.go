package mandelbrot

// Status is the state of the per pixel iteration.
type Status int

const (
	StatusInit Status = iota
	StatusIterating
	StatusEscaped
	StatusSaturated
)

var statusNames = [...]string{"init", "iterating", "escaped", "saturated"}

func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}
	return "unknown"
}

// ScanState is the state of the raster scan.
type ScanState int

const (
	ScanScanning ScanState = iota
	ScanRowDone
	ScanFrameDone
)

var scanNames = [...]string{"scanning", "row done", "frame done"}

func (s ScanState) String() string {
	if s >= 0 && int(s) < len(scanNames) {
		return scanNames[s]
	}
	return "unknown"
}
