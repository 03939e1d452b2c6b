package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ID is the canonical identity used for users and tasks: 12 bytes rendered
// as 24 lowercase hexadecimal characters. Two IDs refer to the same record
// iff they compare equal with ==.
type ID primitive.ObjectID

// NilID is the zero ID. It never identifies a stored record.
var NilID ID

// NewID generates a fresh identifier.
func NewID() ID {
	return ID(primitive.NewObjectID())
}

// ParseID parses a 24 character hexadecimal string into an ID.
// Returns ErrInvalidID for any other input.
func ParseID(s string) (ID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return NilID, fmt.Errorf("%w: %q", ErrInvalidID, s)
	}
	return ID(oid), nil
}

// Hex returns the 24 character lowercase hexadecimal form.
func (id ID) Hex() string {
	return primitive.ObjectID(id).Hex()
}

// String implements fmt.Stringer.
func (id ID) String() string {
	return id.Hex()
}

// IsZero reports whether id is the zero value.
func (id ID) IsZero() bool {
	return id == NilID
}

// ObjectID returns the identifier as a BSON ObjectID.
func (id ID) ObjectID() primitive.ObjectID {
	return primitive.ObjectID(id)
}

// MarshalJSON renders the ID as a hex string, or null for the zero ID.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(id.Hex())
}

// UnmarshalJSON accepts a hex string or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*id = NilID
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidID, err)
	}
	parsed, err := ParseID(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// Value implements driver.Valuer. The zero ID is stored as NULL.
func (id ID) Value() (driver.Value, error) {
	if id.IsZero() {
		return nil, nil
	}
	return id.Hex(), nil
}

// Scan implements sql.Scanner.
func (id *ID) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*id = NilID
		return nil
	case string:
		return id.scanString(v)
	case []byte:
		return id.scanString(string(v))
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidID, src)
	}
}

func (id *ID) scanString(s string) error {
	parsed, err := ParseID(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
