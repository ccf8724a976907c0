package sessionstate

import (
	"bytes"
	"strings"
	"time"
)

// ActionFlags tell the host framework how to treat a session it just fetched.
type ActionFlags int

const (
	// ActionNone requires no extra handling.
	ActionNone ActionFlags = 0
	// ActionInitializeItem marks a record created by CreateUninitializedItem
	// that the host must initialize (cookie-less session id regeneration).
	ActionInitializeItem ActionFlags = 1
)

func (a ActionFlags) String() string {
	switch a {
	case ActionNone:
		return "none"
	case ActionInitializeItem:
		return "initialize_item"
	default:
		return "unknown"
	}
}

// Record is the persisted session state document.
type Record struct {
	SessionID       string      `bson:"sessionId" json:"session_id"`
	ApplicationName string      `bson:"applicationName" json:"application_name"`
	Payload         []byte      `bson:"payload,omitempty" json:"payload,omitempty"`
	Expiry          time.Time   `bson:"expiry" json:"expiry"`
	Locked          bool        `bson:"locked" json:"locked"`
	LockID          int64       `bson:"lockId" json:"lock_id"`
	LockDate        time.Time   `bson:"lockDate" json:"lock_date"`
	Flags           ActionFlags `bson:"flags" json:"flags"`
}

// NewRecord returns an unlocked record with no payload.
func NewRecord(sessionID, applicationName string) *Record {
	return &Record{
		SessionID:       sessionID,
		ApplicationName: applicationName,
	}
}

// Key returns the record's document key.
func (r *Record) Key() string {
	return RecordKey(r.ApplicationName, r.SessionID)
}

var keyEscaper = strings.NewReplacer("%", "%25", "/", "%2F")

// RecordKey derives the document key of a session: the application name,
// a slash, then the session id. Session ids are matched exactly (no case
// folding). Slashes and percent signs inside the application name are
// percent-encoded so that distinct (application, session) pairs never share a
// key.
func RecordKey(applicationName, sessionID string) string {
	return keyEscaper.Replace(applicationName) + "/" + sessionID
}

func (r *Record) clone() *Record {
	if r == nil {
		return nil
	}
	c := *r
	c.Payload = bytes.Clone(r.Payload)
	return &c
}

func (r *Record) equal(o *Record) bool {
	return r.SessionID == o.SessionID &&
		r.ApplicationName == o.ApplicationName &&
		bytes.Equal(r.Payload, o.Payload) &&
		r.Expiry.Equal(o.Expiry) &&
		r.Locked == o.Locked &&
		r.LockID == o.LockID &&
		r.LockDate.Equal(o.LockDate) &&
		r.Flags == o.Flags
}
