package snapshot

import "time"

// Snapshot is one persisted proxy tree of a mirror session.
type Snapshot struct {
	// ID is the primary key.
	ID uint `gorm:"primaryKey" json:"id"`
	// Session names the mirror session the tree belongs to.
	Session string `gorm:"size:128;index;not null" json:"session"`
	// Fingerprint is the content hash of Payload.
	Fingerprint string `gorm:"size:16;not null" json:"fingerprint"`
	// Collections counts the non-empty top-level collections.
	Collections int `json:"collections"`
	// Payload is the marshaled proxy tree.
	Payload []byte `json:"-"`
	// CreatedAt is set by gorm on insert.
	CreatedAt time.Time `json:"created_at"`
}

// TableName pins the table name.
func (Snapshot) TableName() string {
	return "snapshots"
}

// ObjectKey is the object storage key of an exported snapshot.
func (s *Snapshot) ObjectKey() string {
	return "snapshots/" + s.Session + "/" + s.Fingerprint + ".json"
}
