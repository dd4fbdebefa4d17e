package gormdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"gorm.io/gorm/logger"
)

func TestGormLogLevel(t *testing.T) {
	assert.Equal(t, logger.Info, gormLogLevel("debug"))
	assert.Equal(t, logger.Warn, gormLogLevel("WARN"))
	assert.Equal(t, logger.Error, gormLogLevel("error"))
	assert.Equal(t, logger.Silent, gormLogLevel("info"))
	assert.Equal(t, logger.Silent, gormLogLevel(""))
}
