package db

import (
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"

	"github.com/hms-services/common/config"
)

func TestDSN(t *testing.T) {
	dsn := DSN(config.DBConfig{
		Server:   "db.internal",
		Port:     3307,
		Database: "HospitalManagement",
		User:     "hms",
		Password: "s3cret",
	})

	assert.Contains(t, dsn, "hms:s3cret@tcp(db.internal:3307)/HospitalManagement")
	assert.Contains(t, dsn, "parseTime=true")

	parsed, err := mysql.ParseDSN(dsn)
	assert.NoError(t, err)
	assert.Equal(t, "HospitalManagement", parsed.DBName)
	assert.True(t, parsed.ParseTime)
}

func TestIsDuplicateEntry(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

	assert.True(t, IsDuplicateEntry(dup))
	assert.True(t, IsDuplicateEntry(fmt.Errorf("insert: %w", dup)))
	assert.False(t, IsDuplicateEntry(&mysql.MySQLError{Number: 1045}))
	assert.False(t, IsDuplicateEntry(fmt.Errorf("other")))
}
