package models

// FilenameFormat defines how exported document files are named
type FilenameFormat string

const (
	// FilenameFormatTitle uses the-title.md
	FilenameFormatTitle FilenameFormat = "title"

	// FilenameFormatIndexTitle uses 01-the-title.md, keeping document order on disk
	FilenameFormatIndexTitle FilenameFormat = "index-title"

	// FilenameFormatID uses <node id>.md
	FilenameFormatID FilenameFormat = "id"
)
