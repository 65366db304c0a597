package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMailQuery(t *testing.T) {
	t.Cleanup(func() {
		mailQueryFlag = ""
		mailTodayFlag = false
	})

	mailQueryFlag = ""
	mailTodayFlag = false
	assert.Equal(t, "", mailQuery())

	mailQueryFlag = "from:alice"
	assert.Equal(t, "from:alice", mailQuery())

	mailTodayFlag = true
	assert.Equal(t, "from:alice newer_than:1d", mailQuery())

	mailQueryFlag = ""
	assert.Equal(t, "newer_than:1d", mailQuery())
}
