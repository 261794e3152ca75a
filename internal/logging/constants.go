package logging

// Field names shared by every log statement so output can be filtered consistently.
const (
	FieldCategory   = "category"
	FieldTarget     = "target"
	FieldModelType  = "model_type"
	FieldIndex      = "index"
	FieldScore      = "score"
	FieldRSquared   = "r_squared"
	FieldCount      = "count"
	FieldPoints     = "points"
	FieldWorkers    = "workers"
	FieldDuration   = "duration_ms"
	FieldRunID      = "run_id"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
	FieldStore      = "store"
	FieldSchedule   = "schedule"
	FieldError      = "error"
)
