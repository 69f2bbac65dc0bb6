package constants

const (
	MAX_PAGE_SIZE              = 100
	DEFAULT_PAGE_SIZE          = 20
	DEFAULT_RETRY_MAX_ATTEMPTS = 5
	MAX_RETRY_MAX_ATTEMPTS     = 10
	// MAX_METADATA_DOCUMENT_SIZE bounds metadata documents accepted for hashing or publishing
	MAX_METADATA_DOCUMENT_SIZE = 256 * 1024
)
