// internal/pipeline/batch-refresh/models.go
package batchrefresh

type Input struct {
	// Partition is "", "auto", or a digit 0..6.
	Partition string `json:"partition,omitempty"`
}

type Output struct {
	Partition         int          `json:"partition"`
	ProfilesSelected  int          `json:"profilesSelected"`
	ProfilesProcessed int          `json:"profilesProcessed"`
	Results           BatchResults `json:"results"`
	ExpiredDeleted    int64        `json:"expiredDeleted"`
	ProcessingTimeMs  int64        `json:"processingTimeMs"`
}

type BatchResults struct {
	Success int      `json:"success"`
	Failed  int      `json:"failed"`
	Errors  []string `json:"errors,omitempty"`
}
