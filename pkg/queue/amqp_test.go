package queue

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewAMQP_BadURL(t *testing.T) {
	_, err := NewAMQP("not-a-broker-url", "feed-tasks", 5, nil)
	require.Error(t, err)
}
