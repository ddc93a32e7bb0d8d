package export

import "fmt"

// ManualPrintInstruction is shown when the print fallback cannot open its
// isolated document.
const ManualPrintInstruction = "Could not open a print window. Open the resume preview and use your browser's Print command (Ctrl+P / Cmd+P) to save it as PDF."

// RenderError reports a rasterization failure. It is recoverable: the
// service retries through the print path.
type RenderError struct {
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("render error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("render error: %s", e.Message)
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// PopupBlockedError reports that the isolated print document could not be
// created. It is terminal.
type PopupBlockedError struct {
	Cause error
}

func (e *PopupBlockedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%v)", ManualPrintInstruction, e.Cause)
	}
	return ManualPrintInstruction
}

func (e *PopupBlockedError) Unwrap() error {
	return e.Cause
}

// PrintError reports a failure inside an opened print document.
type PrintError struct {
	Message string
	Cause   error
}

func (e *PrintError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("print error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("print error: %s", e.Message)
}

func (e *PrintError) Unwrap() error {
	return e.Cause
}
