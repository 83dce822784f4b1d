// FilePath: internal/classify/classify_test.go
package classify

import (
	"math"
	"testing"

	"github.com/sparxlab/sparx-hub/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	t.Run("boundary values belong to the lower band", func(t *testing.T) {
		cases := []struct {
			name        string
			temperature float64
			want        models.StatusBand
		}{
			{"well below threshold", 25.0, models.StatusAdequado},
			{"exactly adequado max", 51.0, models.StatusAdequado},
			{"just above adequado max", 51.01, models.StatusPrecario},
			{"exactly precario max", 60.0, models.StatusPrecario},
			{"just above precario max", 60.01, models.StatusCritico},
			{"far above precario max", 95.5, models.StatusCritico},
			{"negative temperature", -10.0, models.StatusAdequado},
			{"zero", 0.0, models.StatusAdequado},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				band, err := Classify(tc.temperature)
				require.NoError(t, err)
				assert.Equal(t, tc.want, band)
			})
		}
	})

	t.Run("rejects non-finite values", func(t *testing.T) {
		for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
			_, err := Classify(v)
			assert.Error(t, err)
		}
	})
}
