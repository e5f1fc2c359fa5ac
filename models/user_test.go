package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoterKeyPrecedence(t *testing.T) {
	// the provider's stable subject id wins over everything else
	id := Identity{Platform: "reddit", Subject: "abc123", Email: "a@b.c", Username: "someone"}
	assert.Equal(t, "reddit:abc123", id.VoterKey())

	// without a subject, the e-mail address is next
	id = Identity{Platform: "twitter", Email: "a@b.c", Username: "someone"}
	assert.Equal(t, "twitter:a@b.c", id.VoterKey())

	// username is the last resort
	id = Identity{Platform: "twitter", Username: "someone"}
	assert.Equal(t, "twitter:someone", id.VoterKey())

	// nothing usable
	id = Identity{Platform: "twitter"}
	assert.Equal(t, "", id.VoterKey())
}

func TestVoterKeyIgnoresWhitespaceValues(t *testing.T) {
	id := Identity{Platform: "reddit", Subject: "  ", Email: " a@b.c "}
	assert.Equal(t, "reddit:a@b.c", id.VoterKey())
}

func TestVoterKeyIsProviderScoped(t *testing.T) {
	// the same handle on two platforms must never collide
	a := Identity{Platform: "reddit", Subject: "42"}
	b := Identity{Platform: "twitter", Subject: "42"}
	assert.NotEqual(t, a.VoterKey(), b.VoterKey())
}
