package resource

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_PreservesFields(t *testing.T) {
	data := []byte{0x00, 0xff, 0x10}
	res := New(data, 1700000000, "image/png")

	assert.Equal(t, data, res.Data)
	assert.Equal(t, int64(1700000000), res.Modified)
	assert.Equal(t, "image/png", res.MimeType)
}
