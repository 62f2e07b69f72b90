package utils

import (
	"testing"

	"go.viam.com/test"
)

func TestNewUnexpectedTypeError(t *testing.T) {
	test.That(t, NewUnexpectedTypeError[string](1).Error(), test.ShouldEqual, "expected string but got int")
	test.That(t, NewUnexpectedTypeError[someIfc](1.5).Error(), test.ShouldEqual, "expected utils.someIfc but got float64")
	test.That(t, NewUnexpectedTypeError[*someStruct](nil).Error(), test.ShouldEqual, "expected *utils.someStruct but got <nil>")
}

type (
	someStruct struct{}
	someIfc    interface{ method1() error }
)
