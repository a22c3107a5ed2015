package trackingnumber

import (
	"math/rand"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func fixedClock() time.Time {
	return time.Date(2025, time.March, 14, 10, 0, 0, 0, time.UTC)
}

func TestNext_Format(t *testing.T) {
	g := NewGeneratorWithSource("", fixedClock, rand.NewSource(1))
	pattern := regexp.MustCompile(`^LF2025\d{6}$`)

	for i := 0; i < 1000; i++ {
		assert.Regexp(t, pattern, g.Next())
	}
}

func TestNext_CustomPrefix(t *testing.T) {
	g := NewGeneratorWithSource("XY", fixedClock, rand.NewSource(1))
	assert.Regexp(t, `^XY2025\d{6}$`, g.Next())
}

// zeroSource всегда возвращает 0, проверяет дополнение нулями
type zeroSource struct{}

func (zeroSource) Int63() int64 { return 0 }
func (zeroSource) Seed(int64)   {}

func TestNext_ZeroPadded(t *testing.T) {
	g := NewGeneratorWithSource("LF", fixedClock, zeroSource{})
	assert.Equal(t, "LF2025000000", g.Next())
}

func TestNext_Deterministic(t *testing.T) {
	a := NewGeneratorWithSource("LF", fixedClock, rand.NewSource(7))
	b := NewGeneratorWithSource("LF", fixedClock, rand.NewSource(7))
	assert.Equal(t, a.Next(), b.Next())
}

func TestNext_ConcurrentSafe(t *testing.T) {
	g := NewGenerator("LF")
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = g.Next()
			}
		}()
	}
	wg.Wait()
}
