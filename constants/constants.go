package constants

// Config
const VerboseEnvVar = "VERBOSE"
const ConfigFileName = "bygg.yml"

// HTTP
const ContentTypeZip = "application/zip"
const ContentTypeText = "text/plain; charset=utf-8"
const ExportIDHeader = "X-Export-Id"

// Export
const ArchiveFilenamePrefix = "prosjekt-"
const ArchiveFilenameExt = ".zip"

// Error messages
const ErrMsgInternal = "An internal error occurred. If the issue persists, please contact us."
const ErrMsgProjectNotFound = "Project not found"

// Formatting
const TimeFormat = "2006-01-02 @ 15:04:05"
