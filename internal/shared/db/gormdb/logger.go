package gormdb

import (
	"fmt"

	"github.com/covergen/covergen-api/internal/shared/logutil"
)

type logger struct {
	log logutil.Log
}

func (l logger) Print(v ...interface{}) {
	l.log.Debugf("db", "%s", fmt.Sprintln(v...))
}
