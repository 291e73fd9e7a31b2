package utils

import "github.com/google/uuid"

// UUIDGenerator mints ids for records and sync events. Version 7 ids are
// preferred: they sort by creation time, so id order follows event order
// when timestamps tie.
type UUIDGenerator struct {
}

func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

func (g *UUIDGenerator) Generate() string {
	v7, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}

	return v7.String()
}
