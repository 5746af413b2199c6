package taskqueue

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildScanJobKey(t *testing.T) {
	now := time.Unix(1700000000, int64(123*time.Millisecond))
	key := buildScanJobKey(42, now)

	assert.Equal(t, "scan-42-1700000000123", key)
	assert.True(t, strings.HasPrefix(key, "scan-42-"))
}

func TestBuildScanJobKeyIsStableWithinMillisecond(t *testing.T) {
	now := time.Unix(1700000000, int64(5*time.Millisecond))

	assert.Equal(t, buildScanJobKey(7, now), buildScanJobKey(7, now))
	assert.NotEqual(t, buildScanJobKey(7, now), buildScanJobKey(8, now))
}
