package config

const (
	// MaxFolderNameLength is the maximum length for folder names.
	// Limited to 255 to fit in PostgreSQL VARCHAR(255).
	MaxFolderNameLength = 255

	// MaxTitleLength is the maximum length for icon and resource titles
	MaxTitleLength = 255

	// MaxGlyphLength bounds glyph class strings such as "fa-solid fa-file-pdf"
	MaxGlyphLength = 100

	// MaxLinkLength is the maximum length for link resources
	MaxLinkLength = 2048

	// MaxRelativePathLength bounds the relative path sent with directory uploads
	MaxRelativePathLength = 1024

	// MaxDescriptionRunes is the length of the plain-text excerpt stored for HTML documents
	MaxDescriptionRunes = 200
)

const (
	// RecentIconLimit is the number of icons returned by the "recent" scope
	RecentIconLimit = 20

	// FolderPreviewSize is the number of contained icons shown on a folder icon
	FolderPreviewSize = 4
)

const (
	// MaxUploadBytes caps a single uploaded file (100 MB)
	MaxUploadBytes = 100 << 20

	// MaxArchiveBytes caps an uploaded app archive (50 MB).
	// Archives are read into memory before validation.
	MaxArchiveBytes = 50 << 20

	// MaxArchiveEntries caps the number of entries extracted from one archive
	MaxArchiveEntries = 5000

	// MaxExtractedBytes caps the total uncompressed size of one archive (200 MB)
	MaxExtractedBytes = 200 << 20
)

// Defaults for new desktop items
const (
	DefaultX = 50
	DefaultY = 50

	DefaultFolderName   = "New Folder"
	DefaultDocumentName = "Untitled Document"
	DefaultAppName      = "Untitled App"
	DefaultHTMLContent  = "<h1>Hello World</h1>"

	DefaultFolderGlyph   = "folder"
	DefaultAppGlyph      = "fa-solid fa-gamepad"
	DefaultHTMLDocGlyph  = "fa-brands fa-html5"
	DefaultResourceGlyph = "fa-solid fa-file"
)
