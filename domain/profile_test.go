package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProfile_ShouldSuppress(t *testing.T) {
	assert.True(t, Profile{Online: true, ActiveChatId: "c1"}.ShouldSuppress("c1"))
	assert.False(t, Profile{Online: true, ActiveChatId: "c2"}.ShouldSuppress("c1"))
	assert.False(t, Profile{Online: false, ActiveChatId: "c1"}.ShouldSuppress("c1"))
	assert.False(t, Profile{Online: true}.ShouldSuppress(""))
}
