package models

// File permissions used when writing stores and reports.
const (
	PermissionFile      = 0600
	PermissionDirectory = 0750
)

// Header names of the period entry CSV format.
const (
	ColumnPeriod   = "period"
	ColumnCategory = "category"
	ColumnBudgeted = "budgeted"
	ColumnActual   = "actual"
)
