package transport

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest(strings.NewReader(`{"jsonrpc":"2.0","method":"get_task","params":{"id":"t1"},"id":7}`))
	require.NoError(t, err)
	require.Equal(t, "get_task", req.Method)
	require.JSONEq(t, `{"id":"t1"}`, string(req.Params))
	require.Equal(t, float64(7), req.ID)
}

func TestParseRequest_Invalid(t *testing.T) {
	cases := []string{
		`not json`,
		`{"jsonrpc":"1.0","method":"get_task"}`,
		`{"jsonrpc":"2.0"}`,
	}
	for _, payload := range cases {
		_, err := ParseRequest(strings.NewReader(payload))
		require.Error(t, err, "payload %s should be rejected", payload)
	}
}
