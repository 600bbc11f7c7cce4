package bridgegrpc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eurora-ai/eurora-core/pkg/nativebridge"
)

func TestJSONCodecRoundTrip(t *testing.T) {
	c := jsonCodec{}
	in := nativebridge.NewRegisterFrame(1, 2)

	data, err := c.Marshal(&in)
	require.NoError(t, err)

	var out nativebridge.Frame
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestJSONCodecName(t *testing.T) {
	assert.Equal(t, "proto", jsonCodec{}.Name())
}
