package cmp_test

import (
	"testing"

	"github.com/weftml/weft/pkg/utils/cmp"
)

func TestMapEq(t *testing.T) {
	for name, testcase := range map[string]struct {
		a, b map[string]int
		then bool
	}{
		"when two maps are equal, it returns true": {
			a:    map[string]int{"a": 1, "b": 2},
			b:    map[string]int{"a": 1, "b": 2},
			then: true,
		},
		"when values differ, it returns false": {
			a:    map[string]int{"a": 1, "b": 2},
			b:    map[string]int{"a": 1, "b": 3},
			then: false,
		},
		"when keys differ, it returns false": {
			a:    map[string]int{"a": 1, "b": 2},
			b:    map[string]int{"a": 1, "c": 2},
			then: false,
		},
		"when sizes differ, it returns false": {
			a:    map[string]int{"a": 1, "b": 2},
			b:    map[string]int{"a": 1},
			then: false,
		},
		"when both are empty, it returns true": {
			a:    map[string]int{},
			b:    map[string]int{},
			then: true,
		},
	} {
		t.Run(name, func(t *testing.T) {
			if actual := cmp.MapEq(testcase.a, testcase.b); actual != testcase.then {
				t.Errorf("wrong result: MapEq(%v, %v) -> %v", testcase.a, testcase.b, actual)
			}
			if actual := cmp.MapEq(testcase.b, testcase.a); actual != testcase.then {
				t.Errorf("wrong result: MapEq(%v, %v) -> %v", testcase.b, testcase.a, actual)
			}
		})
	}
}

func TestMapEqWith(t *testing.T) {
	t.Run("when values are equal by the given rule, it returns true", func(t *testing.T) {
		a := map[string][]string{"x": {"1", "2"}, "y": {}}
		b := map[string][]string{"x": {"1", "2"}, "y": {}}
		if !cmp.MapEqWith(a, b, cmp.SliceEq) {
			t.Errorf("MapEqWith(%v, %v) -> false", a, b)
		}
	})
	t.Run("when a value differs by the given rule, it returns false", func(t *testing.T) {
		a := map[string][]string{"x": {"1", "2"}}
		b := map[string][]string{"x": {"2", "1"}}
		if cmp.MapEqWith(a, b, cmp.SliceEq) {
			t.Errorf("MapEqWith(%v, %v) -> true", a, b)
		}
	})
}
