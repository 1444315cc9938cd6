package util

import (
	"crypto/md5"
	"fmt"
	"io"
	"os"
)

func MD5File(fileName string) (string, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return "", err
	}
	defer file.Close()

	md5 := md5.New()
	if _, err := io.Copy(md5, file); err != nil {
		return "", err
	}

	return fmt.Sprintf("%x", md5.Sum(nil)), nil
}

// MD5String digests the given parts, each terminated by a NUL byte so
// ("ab", "c") and ("a", "bc") differ
func MD5String(parts ...string) string {
	md5 := md5.New()
	for _, part := range parts {
		io.WriteString(md5, part)
		md5.Write([]byte{0})
	}
	return fmt.Sprintf("%x", md5.Sum(nil))
}

func Exists(fileName string) bool {
	_, err := os.Stat(fileName)
	return err == nil
}
