package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// moves the test process to the module root so logs/ and the sqlite file
	// land in one place no matter which package is under test
	//
	//   import (
	//     _ "helmetwatch.xyz/alert-console/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}
