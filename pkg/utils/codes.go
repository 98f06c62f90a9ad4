package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateCode returns PREFIX-XXXXXXXX for records created without a caller-supplied code.
func GenerateCode(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}

// ParseUUIDs parses every string, failing on the first invalid one.
func ParseUUIDs(ss []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(ss))
	for _, s := range ss {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
