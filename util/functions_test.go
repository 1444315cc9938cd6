package util

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDistanceBucket(t *testing.T) {
	cases := map[int]string{1: "1", 2: "2-5", 5: "2-5", 6: "6+", 40: "6+", -3: "2-5"}
	for d, expected := range cases {
		if bucket := DistanceBucket(d); bucket != expected {
			t.Errorf("Distance %d: expected %s, got %s", d, expected, bucket)
		}
	}
}

func TestMD5(t *testing.T) {
	if MD5String("ab", "c") == MD5String("a", "bc") {
		t.Error("Part boundaries not reflected in digest")
	}
	if MD5String("x") != MD5String("x") {
		t.Error("Digest not deterministic")
	}
	name := filepath.Join(t.TempDir(), "model.txt")
	if err := os.WriteFile(name, []byte("x\x00"), 0644); err != nil {
		t.Fatal(err)
	}
	sum, err := MD5File(name)
	if err != nil {
		t.Fatal(err)
	}
	if sum != MD5String("x") {
		t.Errorf("File digest %s differs from string digest %s", sum, MD5String("x"))
	}
	if !Exists(name) || Exists(name+".missing") {
		t.Error("Exists misreports")
	}
}
