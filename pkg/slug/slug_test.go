// Copyright (c) 2026 Crealink. All rights reserved.
// Author: dev@crealink.io

package slug_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/crealink/crealink/pkg/slug"
)

/*
TestFrom verifies the normalization pipeline over representative inputs.
*/
func TestFrom(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "simple phrase", input: "Summer Launch 2026", expected: "summer-launch-2026"},
		{name: "accented characters", input: "Café Créme Drop", expected: "cafe-creme-drop"},
		{name: "punctuation", input: "Back!! To?? School...", expected: "back-to-school"},
		{name: "leading and trailing noise", input: "  --Promo--  ", expected: "promo"},
		{name: "already a slug", input: "creator-spotlight", expected: "creator-spotlight"},
		{name: "empty input", input: "", expected: ""},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			assert.Equal(t, testCase.expected, slug.From(testCase.input))
		})
	}
}
