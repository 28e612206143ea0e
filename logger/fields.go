package logger

// Standard field names for structured logging across crepr.
const (
	FieldFile      = "file"
	FieldClass     = "class"
	FieldLine      = "line"
	FieldOffset    = "offset"
	FieldChanges   = "changes"
	FieldAction    = "action"
	FieldMode      = "mode"
	FieldError     = "error"
	FieldSource    = "source"
	FieldDuration  = "duration_ms"
	FieldCount     = "count"
	FieldOperation = "op"
)
