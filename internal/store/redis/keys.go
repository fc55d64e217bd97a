package redis

const (
	// KeySnapshot holds the serialized store snapshot.
	KeySnapshot = "linkstash:snapshot"
	// KeySnapshotAt holds the RFC3339 time of the last saved snapshot.
	KeySnapshotAt = "linkstash:snapshot:at"
)

// SnapshotKey returns the Redis key for the store snapshot.
func SnapshotKey() string {
	return KeySnapshot
}

// SnapshotAtKey returns the Redis key for the snapshot timestamp.
func SnapshotAtKey() string {
	return KeySnapshotAt
}
