package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestClamp(t *testing.T) {
	test.That(t, Clamp(0.5, 0, 1), test.ShouldEqual, 0.5)
	test.That(t, Clamp(-0.5, 0, 1), test.ShouldEqual, 0.0)
	test.That(t, Clamp(1.5, 0, 1), test.ShouldEqual, 1.0)
}

func TestClampInt(t *testing.T) {
	test.That(t, ClampInt(5, 0, 10), test.ShouldEqual, 5)
	test.That(t, ClampInt(-5, 0, 10), test.ShouldEqual, 0)
	test.That(t, ClampInt(15, 0, 10), test.ShouldEqual, 10)
	// empty interval, lower bound wins
	test.That(t, ClampInt(5, 0, -1), test.ShouldEqual, 0)
}

func TestIntHelpers(t *testing.T) {
	test.That(t, MaxInt(3, 7), test.ShouldEqual, 7)
	test.That(t, MinInt(3, 7), test.ShouldEqual, 3)
	test.That(t, AbsInt(-4), test.ShouldEqual, 4)
	test.That(t, AbsInt(4), test.ShouldEqual, 4)
}
