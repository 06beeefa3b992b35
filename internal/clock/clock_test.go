package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSystemLocation(t *testing.T) {
	c := NewSystem()

	name, offset := c.Now().Zone()
	assert.Equal(t, "IST", name)
	assert.Equal(t, 5*60*60+30*60, offset)
	assert.Equal(t, c.Location(), c.Now().Location())
}

func TestFake(t *testing.T) {
	base := time.Date(2024, time.July, 1, 9, 0, 0, 0, time.UTC)
	c := NewFake(base)

	require.True(t, c.Now().Equal(base))

	c.Advance(90 * time.Second)
	assert.True(t, c.Now().Equal(base.Add(90*time.Second)))

	c.Set(base.Add(time.Hour))
	assert.True(t, c.Now().Equal(base.Add(time.Hour)))

	_, offset := c.Now().Zone()
	assert.Equal(t, 5*60*60+30*60, offset)
}
