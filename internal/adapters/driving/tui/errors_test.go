package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	assert.NotEqual(t, ErrMissingSearchWindow.Error(), ErrInvalidPorts.Error())
}

func TestErrMissingSearchWindow_Message(t *testing.T) {
	assert.Contains(t, ErrMissingSearchWindow.Error(), "search window")
}

func TestErrInvalidPorts_Message(t *testing.T) {
	assert.Contains(t, ErrInvalidPorts.Error(), "invalid ports")
}
