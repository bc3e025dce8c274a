// internal/pipeline/batch-refresh/partition.go
package batchrefresh

import (
	"strconv"
	"strings"
	"time"
)

// PartitionCount splits the profile population across the days of the week.
const PartitionCount = 7

// PartitionAuto selects the partition from the current UTC weekday.
const PartitionAuto = "auto"

// PartitionAll disables partition filtering.
const PartitionAll = -1

// PartitionOf assigns a profile to a stable partition from the first
// character of its id: hex value modulo PartitionCount, falling back to the
// raw byte for non-hex ids. UUID primary keys spread roughly evenly.
func PartitionOf(profileID string) int {
	if profileID == "" {
		return 0
	}
	c := profileID[0]
	if v, err := strconv.ParseUint(string(c), 16, 8); err == nil {
		return int(v) % PartitionCount
	}
	return int(c) % PartitionCount
}

// AutoPartition maps the wall clock to a partition: the UTC weekday, with
// Sunday as 0. Running the batch daily covers every partition over a week.
func AutoPartition(now time.Time) int {
	return int(now.UTC().Weekday())
}

// ParsePartition resolves the partition argument: "" means all partitions,
// "auto" means the current UTC weekday, and a digit selects explicitly.
func ParsePartition(value string, now time.Time) (int, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return PartitionAll, true
	case PartitionAuto:
		return AutoPartition(now), true
	}
	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil || n < 0 || n >= PartitionCount {
		return 0, false
	}
	return n, true
}
