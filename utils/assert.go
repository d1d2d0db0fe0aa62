package utils

import "github.com/pkg/errors"

func True(c bool, msg string) {
	if !c {
		panic(errors.Errorf("assert: %s", msg))
	}
}
