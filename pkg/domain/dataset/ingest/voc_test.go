package ingest_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/weftml/weft/pkg/domain/dataset/ingest"
	"github.com/weftml/weft/pkg/utils/cmp"
)

func vocAnnotation(objectNames ...string) string {
	body := "<annotation><filename>img.jpg</filename>"
	for _, name := range objectNames {
		body += fmt.Sprintf("<object><name>%s</name><bndbox><xmin>1</xmin></bndbox></object>", name)
	}
	return body + "</annotation>"
}

func TestParsePascalVOC(t *testing.T) {
	i := ingest.New(t.TempDir())

	t.Run("it should count XML files and collect sorted unique class names", func(t *testing.T) {
		workDir := t.TempDir()
		writeFile(t, workDir, "Annotations/001.xml", vocAnnotation("dog", "cat"))
		writeFile(t, workDir, "Annotations/002.xml", vocAnnotation("cat"))
		writeFile(t, workDir, "Annotations/003.xml", vocAnnotation("bird"))

		summary, err := i.ParsePascalVOC(workDir)
		if err != nil {
			t.Fatal(err)
		}
		if summary.NumImages != 3 {
			t.Errorf("wrong NumImages: %d", summary.NumImages)
		}
		if expected := []string{"bird", "cat", "dog"}; !cmp.SliceEq(summary.ClassNames, expected) {
			t.Errorf("wrong ClassNames: (actual, expected) = (%v, %v)", summary.ClassNames, expected)
		}
		if summary.NumClasses != 3 {
			t.Errorf("wrong NumClasses: %d", summary.NumClasses)
		}
		if summary.NumAnnotations != nil {
			t.Errorf("NumAnnotations should be absent: %v", *summary.NumAnnotations)
		}
	})

	t.Run("non-XML files and subdirectories are not images", func(t *testing.T) {
		workDir := t.TempDir()
		writeFile(t, workDir, "Annotations/001.xml", vocAnnotation("dog"))
		writeFile(t, workDir, "Annotations/notes.txt", "not an annotation")
		writeFile(t, workDir, "Annotations/sub.xml/nested.xml", vocAnnotation("cat"))

		summary, err := i.ParsePascalVOC(workDir)
		if err != nil {
			t.Fatal(err)
		}
		if summary.NumImages != 1 {
			t.Errorf("wrong NumImages: %d", summary.NumImages)
		}
		if !cmp.SliceEq(summary.ClassNames, []string{"dog"}) {
			t.Errorf("wrong ClassNames: %v", summary.ClassNames)
		}
	})

	t.Run("when Annotations/ is absent, lowercase annotations/ serves", func(t *testing.T) {
		workDir := t.TempDir()
		writeFile(t, workDir, "annotations/001.xml", vocAnnotation("cat"))

		summary, err := i.ParsePascalVOC(workDir)
		if err != nil {
			t.Fatal(err)
		}
		if summary.NumImages != 1 || !cmp.SliceEq(summary.ClassNames, []string{"cat"}) {
			t.Errorf("wrong summary: %+v", summary)
		}
	})

	t.Run("when both exist, Annotations/ wins", func(t *testing.T) {
		workDir := t.TempDir()
		writeFile(t, workDir, "Annotations/upper.xml", vocAnnotation("winner"))
		writeFile(t, workDir, "annotations/lower.xml", vocAnnotation("loser"))

		summary, err := i.ParsePascalVOC(workDir)
		if err != nil {
			t.Fatal(err)
		}
		if !cmp.SliceEq(summary.ClassNames, []string{"winner"}) {
			t.Errorf("wrong ClassNames: %v", summary.ClassNames)
		}
	})

	t.Run("when neither directory exists, it should fail with ErrMissingAnnotationDir", func(t *testing.T) {
		workDir := t.TempDir()
		writeFile(t, workDir, "001.xml", vocAnnotation("stray"))

		if _, err := i.ParsePascalVOC(workDir); !errors.Is(err, ingest.ErrMissingAnnotationDir) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("when an annotation is broken XML, it should fail with ErrMalformedAnnotation", func(t *testing.T) {
		workDir := t.TempDir()
		writeFile(t, workDir, "Annotations/bad.xml", "<annotation><object></annotation>")

		if _, err := i.ParsePascalVOC(workDir); !errors.Is(err, ingest.ErrMalformedAnnotation) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("when an object has no name child, it should fail with ErrMalformedAnnotation", func(t *testing.T) {
		workDir := t.TempDir()
		writeFile(t, workDir, "Annotations/bad.xml",
			"<annotation><object><pose>Left</pose></object></annotation>")

		if _, err := i.ParsePascalVOC(workDir); !errors.Is(err, ingest.ErrMalformedAnnotation) {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("an empty name is still a class", func(t *testing.T) {
		workDir := t.TempDir()
		writeFile(t, workDir, "Annotations/001.xml", vocAnnotation(""))

		summary, err := i.ParsePascalVOC(workDir)
		if err != nil {
			t.Fatal(err)
		}
		if !cmp.SliceEq(summary.ClassNames, []string{""}) {
			t.Errorf("wrong ClassNames: %#v", summary.ClassNames)
		}
		if summary.NumClasses != 1 {
			t.Errorf("wrong NumClasses: %d", summary.NumClasses)
		}
	})

	t.Run("part names nested inside an object are not classes", func(t *testing.T) {
		workDir := t.TempDir()
		writeFile(t, workDir, "Annotations/001.xml",
			"<annotation><object><name>person</name><part><name>head</name></part></object></annotation>")

		summary, err := i.ParsePascalVOC(workDir)
		if err != nil {
			t.Fatal(err)
		}
		if !cmp.SliceEq(summary.ClassNames, []string{"person"}) {
			t.Errorf("wrong ClassNames: %v", summary.ClassNames)
		}
	})
}

func TestParsePascalVOC_Sampling(t *testing.T) {
	// 120 annotation files: cat everywhere, dog only in the last one.
	buildLargeSet := func(t *testing.T) string {
		workDir := t.TempDir()
		for n := 0; n < 120; n++ {
			name := "cat"
			if n == 119 {
				name = "dog"
			}
			writeFile(t, workDir, fmt.Sprintf("Annotations/img-%03d.xml", n), vocAnnotation(name))
		}
		return workDir
	}

	t.Run("classes beyond the default 100-file sample are missed", func(t *testing.T) {
		workDir := buildLargeSet(t)

		summary, err := ingest.New(t.TempDir()).ParsePascalVOC(workDir)
		if err != nil {
			t.Fatal(err)
		}
		if summary.NumImages != 120 {
			t.Errorf("wrong NumImages: %d", summary.NumImages)
		}
		if !cmp.SliceEq(summary.ClassNames, []string{"cat"}) {
			t.Errorf("wrong ClassNames: %v", summary.ClassNames)
		}
	})

	t.Run("a larger cap sees them", func(t *testing.T) {
		workDir := buildLargeSet(t)

		i := ingest.New(t.TempDir(), ingest.WithAnnotationSampleCap(200))
		summary, err := i.ParsePascalVOC(workDir)
		if err != nil {
			t.Fatal(err)
		}
		if !cmp.SliceEq(summary.ClassNames, []string{"cat", "dog"}) {
			t.Errorf("wrong ClassNames: %v", summary.ClassNames)
		}
	})

	t.Run("a non-positive cap disables sampling", func(t *testing.T) {
		workDir := buildLargeSet(t)

		i := ingest.New(t.TempDir(), ingest.WithAnnotationSampleCap(0))
		summary, err := i.ParsePascalVOC(workDir)
		if err != nil {
			t.Fatal(err)
		}
		if !cmp.SliceEq(summary.ClassNames, []string{"cat", "dog"}) {
			t.Errorf("wrong ClassNames: %v", summary.ClassNames)
		}
	})

	t.Run("a small cap samples the lexicographically first files", func(t *testing.T) {
		workDir := t.TempDir()
		writeFile(t, workDir, "Annotations/a.xml", vocAnnotation("early"))
		writeFile(t, workDir, "Annotations/z.xml", vocAnnotation("late"))

		i := ingest.New(t.TempDir(), ingest.WithAnnotationSampleCap(1))
		summary, err := i.ParsePascalVOC(workDir)
		if err != nil {
			t.Fatal(err)
		}
		if !cmp.SliceEq(summary.ClassNames, []string{"early"}) {
			t.Errorf("wrong ClassNames: %v", summary.ClassNames)
		}
		if summary.NumImages != 2 {
			t.Errorf("wrong NumImages: %d", summary.NumImages)
		}
	})
}
