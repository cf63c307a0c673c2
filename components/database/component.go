package database

import (
	"github.com/iotaledger/hive.go/app"
	"github.com/iotaledger/hive.go/kvstore"
	"github.com/iotaledger/hive.go/kvstore/mapdb"
	"go.uber.org/dig"
)

func init() {
	Component = &app.Component{
		Name:    "Database",
		Provide: provide,
	}
}

var Component *app.Component

func provide(c *dig.Container) error {
	// In-memory store; a disk-backed kvstore implementation can be swapped
	// in here without touching the registries.
	return c.Provide(func() kvstore.KVStore {
		return mapdb.NewMapDB()
	})
}
