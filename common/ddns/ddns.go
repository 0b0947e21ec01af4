package ddns

import "context"

const (
	RecordA    = "A"
	RecordAAAA = "AAAA"
)

// Client upserts a single address record and returns the provider change id.
type Client interface {
	UpsertRecord(ctx context.Context, zoneID string, domain string, recordType string, ipAddr string) (string, error)
}

// RecordType maps a network name to its address record type.
func RecordType(network string) string {
	if network == "tcp6" {
		return RecordAAAA
	}
	return RecordA
}
