package rdf

import (
	"strings"

	"github.com/google/uuid"
)

// NewBlankNode mints a blank node with a fresh identifier. Identifiers
// are unique across documents and sessions, so merging graphs never
// collides labels.
func NewBlankNode() BlankNode {
	return BlankNode{ID: "n" + strings.ReplaceAll(uuid.NewString(), "-", "")}
}
