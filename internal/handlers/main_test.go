package handlers_test

import (
	"io"
	"os"
	"testing"

	"github.com/google/logger"
)

func TestMain(m *testing.M) {
	log := logger.Init("handlers-test", false, false, io.Discard)
	code := m.Run()
	log.Close()
	os.Exit(code)
}
