package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlan_PicksRotated(t *testing.T) {
	env := newTestEnv(t)
	stdout, err := env.run(append([]string{"plan", "--gap-h", "5", "--gap-v", "5"}, a4Flags...)...)
	require.NoError(t, err)

	assert.Contains(t, stdout, "Upright: 3 x 3 = 9")
	assert.Contains(t, stdout, "Rotated 90°: 2 x 5 = 10")
	for _, line := range strings.Split(stdout, "\n") {
		if strings.Contains(line, "Rotated 90°") {
			assert.True(t, strings.HasPrefix(line, iconWinner), "rotated candidate is marked: %q", line)
		}
		if strings.Contains(line, "Upright") {
			assert.False(t, strings.HasPrefix(line, iconWinner), "upright candidate is not marked: %q", line)
		}
	}
	assert.Contains(t, stdout, "Frames per page")
	assert.NotContains(t, stdout, "page(s)", "no folder, no page count")
}

func TestPlan_WithFolder(t *testing.T) {
	env := newTestEnv(t)
	folder := writePNGs(t, env.dir, 15)

	stdout, err := env.run(append([]string{"plan", folder}, a4Flags...)...)
	require.NoError(t, err)
	assert.Contains(t, stdout, "15 image(s) need 2 page(s)")
}

func TestPlan_NothingFits(t *testing.T) {
	env := newTestEnv(t)
	stdout, err := env.run("plan", "--page-width", "100", "--page-height", "100", "--frame-width", "200", "--frame-height", "200")
	require.Error(t, err)
	assert.Contains(t, stdout, "Upright: 0 x 0 = 0")
	assert.NotContains(t, stdout, iconWinner)
}

func TestPlan_InvalidDimension(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run("plan", "--page-width", "-5")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "page width")
}
