package juncture

import (
	"fmt"

	nanoid "github.com/matoous/go-nanoid/v2"
)

const externalIDPrefix = "ext_"

// NewExternalID returns a random URL-safe id for callers that have no
// stable id of their own for the end user.
func NewExternalID() (string, error) {
	id, err := nanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate external id: %w", err)
	}
	return externalIDPrefix + id, nil
}
