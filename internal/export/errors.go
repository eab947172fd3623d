package export

import "fmt"

// RasterizeError reports a failed PDF conversion. The payload that was being converted is discarded.
type RasterizeError struct {
	Message string
	Cause   error
}

func (e *RasterizeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("rasterize error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("rasterize error: %s", e.Message)
}

func (e *RasterizeError) Unwrap() error {
	return e.Cause
}
