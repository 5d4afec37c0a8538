package utils_test

import (
	"testing"

	"github.com/nimbuslab/nimbus/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
)

func TestGetOrDefault(t *testing.T) {
	assert.Equal(t, 1, utils.GetOrDefault(1, 2))
	assert.Equal(t, 2, utils.GetOrDefault(0, 2))
	assert.Equal(t, "metric", utils.GetOrDefault("", "metric"))
	assert.Equal(t, "imperial", utils.GetOrDefault("imperial", "metric"))
}
