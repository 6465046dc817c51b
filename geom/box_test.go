package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

const testEps = 1e-12

func TestWrap(t *testing.T) {
	table := []struct {
		d, width, res float64
	}{
		{0, 10, 0},
		{4, 10, 4},
		{5, 10, 5},
		{-5, 10, 5},
		{6, 10, -4},
		{-6, 10, 4},
		{9.5, 10, -0.5},
		{-9.5, 10, 0.5},
		{25, 10, 5},
		{-14, 10, -4},
	}

	for i, test := range table {
		res := Wrap(test.d, test.width)
		if math.Abs(res-test.res) > testEps {
			t.Errorf("%d) Expected Wrap(%g, %g) = %g, got %g",
				i, test.d, test.width, test.res, res)
		}
		if res <= -test.width/2 || res > test.width/2 {
			t.Errorf("%d) Wrap(%g, %g) = %g is outside (-L/2, L/2]",
				i, test.d, test.width, res)
		}
	}
}

func TestBoxDist(t *testing.T) {
	box := Box{Hi: Vec{10, 10, 30}}

	table := []struct {
		u, v Vec
		dist float64
	}{
		{Vec{1, 1, 1}, Vec{2, 1, 1}, 1},
		{Vec{0.5, 5, 5}, Vec{9.5, 5, 5}, 1},
		{Vec{5, 0.2, 5}, Vec{5, 9.8, 5}, 0.4},
		{Vec{5, 5, 0.5}, Vec{5, 5, 29.5}, 1},
		{Vec{0.5, 0.5, 0.5}, Vec{9.5, 9.5, 29.5}, math.Sqrt(3)},
		{Vec{5, 5, 5}, Vec{5, 5, 20}, 15},
	}

	for i, test := range table {
		assert.InDelta(t, test.dist, box.Dist(test.u, test.v), 1e-9, "%d", i)
		assert.InDelta(t, test.dist, box.Dist(test.v, test.u), 1e-9, "%d", i)
	}
}

func TestBoxCheck(t *testing.T) {
	assert.NoError(t, Cube(3).Check())
	assert.Error(t, Box{}.Check())
	assert.Error(t, Box{Lo: Vec{0, 0, 5}, Hi: Vec{1, 1, 5}}.Check())
	assert.Error(t, Box{Hi: Vec{1, math.NaN(), 1}}.Check())
}

func TestBoxContains(t *testing.T) {
	box := Cube(10)
	assert.True(t, box.Contains(Vec{0, 5, 10}, 0))
	assert.False(t, box.Contains(Vec{-0.01, 5, 5}, 0))
	assert.True(t, box.Contains(Vec{-0.01, 5, 5}, 0.1))
	assert.False(t, box.Contains(Vec{5, 5, 10.2}, 0.1))
}

func TestVec(t *testing.T) {
	v, u := Vec{1, 2, 3}, Vec{3, 2, 1}
	assert.Equal(t, Vec{4, 4, 4}, v.Add(u))
	assert.Equal(t, Vec{-2, 0, 2}, v.Sub(u))
	assert.Equal(t, Vec{2, 4, 6}, v.Scale(2))
	assert.InDelta(t, math.Sqrt(14), v.Norm(), testEps)
	assert.True(t, v.IsFinite())
	assert.False(t, Vec{0, math.Inf(-1), 0}.IsFinite())
}
