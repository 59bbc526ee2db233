// Package database contains gorm connection helpers.
package database

import (
	"github.com/jfk9w-go/flu/gormf"
	"github.com/jfk9w-go/flu/syncf"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DefaultConfig = &gorm.Config{Logger: gormf.LogfLogger(syncf.DefaultClock, "gorm.sql")}

func NewPostgres(conn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(conn), DefaultConfig)
}
