package commands

import "github.com/doeshing/notecalc/internal/domain"

// CLI-specific constants
const (
	// DefaultEditorCommand is the default editor command
	DefaultEditorCommand = "vi"
	// EnvKeyEditor names the editor override variable
	EnvKeyEditor = "EDITOR"
)

// History display constants
const (
	DefaultHistoryLimit       = domain.DefaultHistoryLimit
	DefaultHistorySearchLimit = domain.DefaultHistorySearchLimit
	DefaultHistoryRetainDays  = domain.DefaultHistoryRetainDays
	// MaxHistoryAnalysisRecords bounds how many records history stats reads
	MaxHistoryAnalysisRecords = 10000
	// TopInputsLimit is how many inputs history stats lists
	TopInputsLimit = 5
	// HistoryTimeFormat is used when listing entries
	HistoryTimeFormat = "2006-01-02 15:04"
)

// Error messages
const (
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrHistoryStoreUnavailable  = "history store unavailable"
	ErrInvalidRetainDays        = "--days must be > 0"
	ErrConfirmationRequired     = "refusing to continue without confirmation; pass --yes"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgNoHistoryRecorded        = "No history recorded yet."
	MsgCancelled                = "Cancelled."
)
