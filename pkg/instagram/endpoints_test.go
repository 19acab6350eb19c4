package instagram

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetPostInfoURL(t *testing.T) {
	assert.Equal(t,
		"https://www.instagram.com/p/ABC123/?__a=1&__d=dis",
		GetPostInfoURL("ABC123"))
}

func TestGetProfileURL(t *testing.T) {
	assert.Equal(t,
		"https://www.instagram.com/api/v1/users/web_profile_info/?username=someuser",
		GetProfileURL("someuser"))
}

func TestGetEmbedURL(t *testing.T) {
	assert.Equal(t,
		"https://www.instagram.com/p/ABC123/embed/captioned/",
		GetEmbedURL("ABC123"))
	assert.Empty(t, GetEmbedURL(""))
}

func TestIsValidShortcode(t *testing.T) {
	assert.True(t, IsValidShortcode("ABC123"))
	assert.True(t, IsValidShortcode("a_b-C9"))
	assert.False(t, IsValidShortcode(""))
	assert.False(t, IsValidShortcode("has spaces"))
	assert.False(t, IsValidShortcode("slash/evil"))
}

func TestIsValidUsername(t *testing.T) {
	assert.True(t, IsValidUsername("some.user_1"))
	assert.False(t, IsValidUsername(""))
	assert.False(t, IsValidUsername("way.too.long.username.exceeding.thirty"))
	assert.False(t, IsValidUsername("bad-dash"))
}

func TestSanitizeUsername(t *testing.T) {
	assert.Equal(t, "someuser", SanitizeUsername("@someuser"))
	assert.Equal(t, "someuser", SanitizeUsername("someuser/ "))
	assert.Equal(t, "", SanitizeUsername(""))
}
