package units_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Sumatoshi-tech/csvfang/pkg/units"
)

func TestBinarySizeConstants(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 1024, units.KiB)
	assert.Equal(t, 1024*units.KiB, units.MiB)
	assert.Equal(t, 1024*units.MiB, units.GiB)
}
