package utils

import (
	"log"
	"os"
)

// InitLogger returns the app-wide request logger.
func InitLogger() *log.Logger {
	return log.New(os.Stdout, "[EduApp] ", log.LstdFlags|log.LUTC)
}
