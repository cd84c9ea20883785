package config

const (
	// TopicNewFile carries a file descriptor for a new or modified Drive file.
	TopicNewFile = "file.new"

	// TopicFileProcessed reports that a file's chunks were stored successfully.
	TopicFileProcessed = "file.processed"

	// TopicFileError reports a per-file ingestion failure.
	TopicFileError = "file.error"
)
