package strings_test

import (
	"testing"

	kstr "github.com/weftml/weft/pkg/utils/strings"
)

func TestTrimPrefixAll(t *testing.T) {
	type when struct {
		s      string
		prefix string
	}

	for name, testcase := range map[string]struct {
		when when
		then string
	}{
		"when string has one prefix, it returns s without the prefix": {
			when: when{s: "//api/datasets", prefix: "//"},
			then: "api/datasets",
		},
		"when string has repeated prefixes, it returns s without all of them": {
			when: when{s: "///api/datasets", prefix: "/"},
			then: "api/datasets",
		},
		"when the prefix pattern recurs mid-string, only leading ones are trimmed": {
			when: when{s: "//api//datasets//", prefix: "/"},
			then: "api//datasets//",
		},
		"when string has no prefix, it is returned unchanged": {
			when: when{s: "api/datasets", prefix: "/"},
			then: "api/datasets",
		},
		"when string is empty, it stays empty": {
			when: when{s: "", prefix: "/"},
			then: "",
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := kstr.TrimPrefixAll(testcase.when.s, testcase.when.prefix)
			if actual != testcase.then {
				t.Errorf("wrong result: (actual, expected) = (%s, %s)", actual, testcase.then)
			}
		})
	}
}

func TestSuppySuffix(t *testing.T) {
	type when struct {
		text   string
		suffix string
	}

	for name, testcase := range map[string]struct {
		when when
		then string
	}{
		"when text does not have the suffix, it returns text + suffix": {
			when: when{text: "/api/datasets", suffix: "/"},
			then: "/api/datasets/",
		},
		"when text has the suffix, it is returned as is": {
			when: when{text: "/api/datasets/", suffix: "/"},
			then: "/api/datasets/",
		},
		"when text is empty, it returns the suffix": {
			when: when{text: "", suffix: "/"},
			then: "/",
		},
	} {
		t.Run(name, func(t *testing.T) {
			actual := kstr.SuppySuffix(testcase.when.text, testcase.when.suffix)
			if actual != testcase.then {
				t.Errorf("wrong result: (actual, expected) = (%s, %s)", actual, testcase.then)
			}
		})
	}
}
