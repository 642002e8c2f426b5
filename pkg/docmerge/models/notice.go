package models

// Level is the severity of a Notice.
type Level string

const (
	// LevelInfo marks progress messages such as extracted files and duplicates.
	LevelInfo Level = "info"
	// LevelWarning marks problems that leave the batch usable.
	LevelWarning Level = "warning"
	// LevelError marks a file that could not be processed.
	LevelError Level = "error"
)

// NoticeKind classifies a Notice.
type NoticeKind string

const (
	// KindExtracted reports a file whose rows were added to a dataset.
	KindExtracted NoticeKind = "extracted"
	// KindIgnoredExtension reports a file skipped for its extension.
	KindIgnoredExtension NoticeKind = "ignored_extension"
	// KindInvalidName reports a supported file whose name matches no template.
	KindInvalidName NoticeKind = "invalid_name"
	// KindReadFailed reports a file that could not be parsed as a spreadsheet.
	KindReadFailed NoticeKind = "read_failed"
	// KindEmptyExtraction reports a file that produced no qualifying rows.
	KindEmptyExtraction NoticeKind = "empty_extraction"
	// KindMissingBracket reports a stock sheet without a parenthesised CD code.
	KindMissingBracket NoticeKind = "missing_bracket"
	// KindDuplicate reports a file name that was already processed.
	KindDuplicate NoticeKind = "duplicate"
)

// Notice is a user-facing message produced while processing a batch.
type Notice struct {
	Level   Level      `json:"level"`
	Kind    NoticeKind `json:"kind"`
	File    string     `json:"file,omitempty"`
	Message string     `json:"message"`
}
